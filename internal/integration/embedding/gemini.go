package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/fund-faq/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiEmbedder embeds text with a Gemini embedding model
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	dim    int32
}

func NewGeminiEmbedder(ctx context.Context, cfg config.EmbeddingConfig, httpClient *http.Client) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini embedder: %w: EMBEDDING_API_KEY", config.ErrMissingSetting)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client: client,
		model:  cfg.Model,
		dim:    int32(cfg.Dimension),
	}, nil
}

func (e *GeminiEmbedder) ModelID() string {
	return fmt.Sprintf("gemini/%s/%d", e.model, e.dim)
}

func (e *GeminiEmbedder) Dimension() int {
	return int(e.dim)
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &e.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embed content: empty embedding returned")
	}

	values := result.Embeddings[0].Values
	if len(values) != int(e.dim) {
		return nil, fmt.Errorf("gemini embed content: got %d values, want %d", len(values), e.dim)
	}

	ctxzap.Debug(ctx, "text embedded", zap.String("model", e.model), zap.Int("dimension", len(values)))

	return values, nil
}
