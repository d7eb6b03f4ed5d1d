package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/entity"
)

// MemoryIndex is an immutable brute force cosine index over one snapshot
type MemoryIndex struct {
	model   string
	dim     int
	chunks  []entity.Chunk
	norms   []float64
	catalog *catalog.Catalog
}

// NewMemoryIndex validates snap against the running embedder's model id
func NewMemoryIndex(snap *Snapshot, embeddingModel string) (*MemoryIndex, error) {
	if snap.EmbeddingModel != embeddingModel {
		return nil, fmt.Errorf("%w: index built with %q, embedder is %q",
			entity.ErrEmbeddingMismatch, snap.EmbeddingModel, embeddingModel)
	}

	seen := make(map[string]struct{}, len(snap.Chunks))
	norms := make([]float64, len(snap.Chunks))
	for i, ch := range snap.Chunks {
		if _, dup := seen[ch.ID]; dup {
			return nil, fmt.Errorf("%w: %s", entity.ErrDuplicateChunk, ch.ID)
		}
		seen[ch.ID] = struct{}{}

		if len(ch.Embedding) != snap.Dimension {
			return nil, fmt.Errorf("%w: chunk %s has %d values, index dimension is %d",
				entity.ErrDimensionMismatch, ch.ID, len(ch.Embedding), snap.Dimension)
		}
		norms[i] = norm(ch.Embedding)
	}

	return &MemoryIndex{
		model:   snap.EmbeddingModel,
		dim:     snap.Dimension,
		chunks:  snap.Chunks,
		norms:   norms,
		catalog: catalog.New(snap.Chunks, catalog.DefaultAliases),
	}, nil
}

func (m *MemoryIndex) Len() int {
	return len(m.chunks)
}

func (m *MemoryIndex) EmbeddingModel() string {
	return m.model
}

func (m *MemoryIndex) Catalog() *catalog.Catalog {
	return m.catalog
}

// Search ranks chunks by cosine similarity. An empty schemeFilter searches all chunks.
func (m *MemoryIndex) Search(_ context.Context, vector []float32, topK int, schemeFilter string) (entity.RetrievalResult, error) {
	if len(vector) != m.dim {
		return entity.RetrievalResult{}, fmt.Errorf("%w: query has %d values, index dimension is %d",
			entity.ErrDimensionMismatch, len(vector), m.dim)
	}
	if topK <= 0 {
		return entity.RetrievalResult{}, nil
	}

	qNorm := norm(vector)
	items := make([]entity.ScoredChunk, 0, len(m.chunks))
	for i, ch := range m.chunks {
		if schemeFilter != "" && !strings.EqualFold(ch.SchemeName, schemeFilter) {
			continue
		}
		items = append(items, entity.ScoredChunk{
			Chunk: ch,
			Score: cosine(vector, ch.Embedding, qNorm, m.norms[i]),
		})
	}

	sortScored(items)
	if len(items) > topK {
		items = items[:topK]
	}

	return entity.RetrievalResult{Items: items}, nil
}

func sortScored(items []entity.ScoredChunk) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Chunk.ID < items[j].Chunk.ID
	})
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}
