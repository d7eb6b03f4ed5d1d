package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/fund-faq/internal/config"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultTopP float32 = 0.8
	defaultTopK float32 = 40
)

// GeminiConnector generates answers with the Gemini API
type GeminiConnector struct {
	client *genai.Client
	model  string
}

func NewGeminiConnector(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (*GeminiConnector, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini connector: %w: LLM_API_KEY", config.ErrMissingSetting)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiConnector{client: client, model: cfg.Model}, nil
}

func (c *GeminiConnector) Model() string {
	return c.model
}

func (c *GeminiConnector) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	ctxzap.Info(ctx, "generating answer via gemini", zap.String("model", c.model))

	contents := []*genai.Content{genai.NewContentFromText(req.UserPrompt(), genai.RoleUser)}
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
		TopP:              genai.Ptr(defaultTopP),
		TopK:              genai.Ptr(defaultTopK),
		MaxOutputTokens:   req.MaxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return nil, classify("gemini", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		ctxzap.Warn(ctx, "gemini blocked the prompt", zap.String("reason", string(resp.PromptFeedback.BlockReason)))
		return nil, classify("gemini", entity.ErrEmptyGeneration)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, classify("gemini", entity.ErrEmptyGeneration)
	}

	ctxzap.Info(ctx, "answer generated successfully", zap.Int("result_length", len(text)))

	return &entity.GenerationResponse{Text: text, Model: c.model}, nil
}
