package assistant

import (
	"context"

	"github.com/futig/fund-faq/internal/entity"
)

type QueryProcessor interface {
	Process(ctx context.Context, raw string) entity.Query
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Searcher interface {
	Search(ctx context.Context, vector []float32, topK int, schemeFilter string) (entity.RetrievalResult, error)
}

type ContextAssembler interface {
	Assemble(results entity.RetrievalResult, budget int) entity.Context
}

type AnswerGenerator interface {
	Generate(ctx context.Context, query entity.Query, c entity.Context) *entity.Answer
	PromptOverhead(question string) int
}
