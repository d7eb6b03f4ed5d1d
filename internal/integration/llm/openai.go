package llm

import (
	"context"
	"strings"

	"github.com/futig/fund-faq/internal/config"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIConnector generates answers through an OpenAI compatible chat API
type OpenAIConnector struct {
	client *openai.Client
	model  string
}

func NewOpenAIConnector(cfg config.LLMConfig, httpClient openai.HTTPDoer) *OpenAIConnector {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	return &OpenAIConnector{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (c *OpenAIConnector) Model() string {
	return c.model
}

func (c *OpenAIConnector) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	ctxzap.Info(ctx, "generating answer via openai", zap.String("model", c.model))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt()},
		},
		Temperature: req.Temperature,
		TopP:        defaultTopP,
		MaxTokens:   int(req.MaxOutputTokens),
	})
	if err != nil {
		return nil, classify("openai", err)
	}

	if len(resp.Choices) == 0 {
		return nil, classify("openai", entity.ErrEmptyGeneration)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, classify("openai", entity.ErrEmptyGeneration)
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	ctxzap.Info(ctx, "answer generated successfully", zap.Int("result_length", len(text)))

	return &entity.GenerationResponse{Text: text, Model: model}, nil
}
