package query

import "github.com/futig/fund-faq/internal/catalog"

// CatalogSource exposes the catalog of the index currently being served
type CatalogSource interface {
	Catalog() *catalog.Catalog
}
