package indexing

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/index"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Usecase builds a vector index from an extracted dataset
type Usecase struct {
	embedder  Embedder
	publisher Publisher
	now       func() time.Time
}

func NewUsecase(embedder Embedder, publisher Publisher) *Usecase {
	return &Usecase{
		embedder:  embedder,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Build embeds every chunk of ds and publishes the snapshot. It refuses to
// replace an existing index unless overwrite is set.
func (u *Usecase) Build(ctx context.Context, ds *entity.SchemeDataset, overwrite bool) (*index.Snapshot, error) {
	if !overwrite {
		exists, err := u.publisher.Exists(ctx)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, entity.ErrIndexExists
		}
	}

	chunks, err := BuildChunks(ds)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, entity.ErrEmptyDataset
	}

	ctxzap.Info(ctx, "embedding chunks",
		zap.Int("schemes", len(ds.Schemes)),
		zap.Int("chunks", len(chunks)),
		zap.String("embedding_model", u.embedder.ModelID()),
	)

	dim := u.embedder.Dimension()
	for i := range chunks {
		vec, err := u.embedder.Embed(ctx, chunks[i].Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", chunks[i].ID, err)
		}
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: chunk %s got %d values, want %d", entity.ErrDimensionMismatch, chunks[i].ID, len(vec), dim)
		}
		chunks[i].Embedding = vec
	}

	snap := &index.Snapshot{
		Version:        index.SnapshotVersion,
		EmbeddingModel: u.embedder.ModelID(),
		Dimension:      dim,
		BuiltAt:        u.now(),
		Chunks:         chunks,
	}

	if err := u.publisher.Publish(ctx, snap); err != nil {
		return nil, fmt.Errorf("publish index: %w", err)
	}

	ctxzap.Info(ctx, "index published", zap.Int("chunks", len(chunks)))
	return snap, nil
}
