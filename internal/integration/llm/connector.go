package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/futig/fund-faq/internal/config"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/integration/common"
	pkghttp "github.com/futig/fund-faq/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to a self-hosted generation service over JSON
type Connector struct {
	config    config.LLMConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig),
		config:    cfg,
		logger:    logger,
	}
}

func (c *Connector) Model() string {
	return c.config.Model
}

// Generate posts the request to the generate endpoint
func (c *Connector) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	ctxzap.Info(ctx, "generating answer via LLM service", zap.String("model", c.config.Model))

	var resp entity.GenerationResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp)
	if err != nil {
		return nil, classify("llm service", err)
	}

	resp.Text = strings.TrimSpace(resp.Text)
	if resp.Text == "" {
		return nil, classify("llm service", entity.ErrEmptyGeneration)
	}
	if resp.Model == "" {
		resp.Model = c.config.Model
	}

	ctxzap.Info(ctx, "answer generated successfully", zap.Int("result_length", len(resp.Text)))

	return &resp, nil
}
