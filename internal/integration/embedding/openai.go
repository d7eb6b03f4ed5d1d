package embedding

import (
	"context"
	"fmt"

	"github.com/futig/fund-faq/internal/config"
	"github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder embeds text through an OpenAI compatible embeddings API
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

func NewOpenAIEmbedder(cfg config.EmbeddingConfig, httpClient openai.HTTPDoer) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		dim:    cfg.Dimension,
	}
}

func (e *OpenAIEmbedder) ModelID() string {
	return fmt.Sprintf("openai/%s/%d", e.model, e.dim)
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dim
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("openai create embeddings: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai create embeddings: empty embedding returned")
	}
	if len(resp.Data[0].Embedding) != e.dim {
		return nil, fmt.Errorf("openai create embeddings: got %d values, want %d", len(resp.Data[0].Embedding), e.dim)
	}

	return resp.Data[0].Embedding, nil
}
