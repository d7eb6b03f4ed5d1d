package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/futig/fund-faq/internal/entity"
	pkghttp "github.com/futig/fund-faq/pkg/http"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"gemini quota", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, true},
		{"gemini unavailable", genai.APIError{Code: 503, Status: "UNAVAILABLE"}, true},
		{"gemini bad key", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT", Message: "API key not valid"}, false},
		{"gemini forbidden", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, false},
		{"openai rate limit", &openai.APIError{HTTPStatusCode: 429}, true},
		{"openai unauthorized", &openai.APIError{HTTPStatusCode: 401}, false},
		{"openai request 502", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")}, true},
		{"http 500", &pkghttp.HTTPError{StatusCode: 500}, true},
		{"http 404", &pkghttp.HTTPError{StatusCode: 404}, false},
		{"network", &pkghttp.NetworkError{Err: errors.New("connection refused")}, true},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"empty output", entity.ErrEmptyGeneration, true},
		{"unknown", errors.New("something odd"), true},
		{"model not found text", errors.New("model not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("test", tt.err)
			assert.Equal(t, tt.transient, errors.Is(err, entity.ErrGenerationTransient))
			assert.Equal(t, !tt.transient, errors.Is(err, entity.ErrGenerationFatal))
			assert.Equal(t, tt.transient, entity.IsTransient(err))
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify("test", nil))
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", entity.ErrGenerationFatal)
	assert.Same(t, err, classify("test", err))
}
