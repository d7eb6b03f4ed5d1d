package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
	pkghttp "github.com/futig/fund-faq/pkg/http"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// classify wraps a provider error with ErrGenerationTransient or ErrGenerationFatal
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrGenerationTransient) || errors.Is(err, entity.ErrGenerationFatal) {
		return err
	}

	sentinel := entity.ErrGenerationTransient
	if isFatal(err) {
		sentinel = entity.ErrGenerationFatal
	}
	return fmt.Errorf("%s: %w: %w", provider, sentinel, err)
}

func isFatal(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, entity.ErrEmptyGeneration) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return false
	}
	var connErr *pkghttp.NetworkError
	if errors.As(err, &connErr) {
		return false
	}

	if status, ok := statusCode(err); ok {
		return !retryableStatus(status)
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"api key", "api_key", "permission", "unauthenticated", "not found", "invalid argument"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func statusCode(err error) (int, bool) {
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		if strings.EqualFold(genaiErr.Status, "RESOURCE_EXHAUSTED") {
			return http.StatusTooManyRequests, true
		}
		return genaiErr.Code, genaiErr.Code != 0
	}

	var oaiErr *openai.APIError
	if errors.As(err, &oaiErr) {
		return oaiErr.HTTPStatusCode, oaiErr.HTTPStatusCode != 0
	}
	var oaiReqErr *openai.RequestError
	if errors.As(err, &oaiReqErr) {
		return oaiReqErr.HTTPStatusCode, oaiReqErr.HTTPStatusCode != 0
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}

	return 0, false
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}
