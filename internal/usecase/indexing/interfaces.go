package indexing

import (
	"context"

	"github.com/futig/fund-faq/internal/index"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
	Dimension() int
}

// Publisher stores a finished snapshot on the configured backend
type Publisher interface {
	Exists(ctx context.Context) (bool, error)
	Publish(ctx context.Context, snap *index.Snapshot) error
}
