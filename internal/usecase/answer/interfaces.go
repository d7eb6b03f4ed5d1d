package answer

import (
	"context"

	"github.com/futig/fund-faq/internal/entity"
)

// Completer is one call to a language model
type Completer interface {
	Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error)
	Model() string
}
