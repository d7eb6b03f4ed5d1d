package faq

import (
	"context"

	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/entity"
)

type Assistant interface {
	Ask(ctx context.Context, question string) *entity.Answer
}

type CatalogSource interface {
	Catalog() *catalog.Catalog
}

// Reloader re-reads the published index, returning the loaded chunk count
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}
