package indexing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/index"
	"github.com/futig/fund-faq/internal/integration/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *entity.SchemeDataset {
	return &entity.SchemeDataset{
		ExtractedAt: "2025-11-20T10:15:00",
		Schemes: []entity.SchemeRecord{
			{
				SchemeName:   "HDFC Large Cap Fund",
				Category:     "Large Cap",
				SourceURL:    "https://groww.in/mutual-funds/hdfc-large-cap-fund-direct-growth",
				ExpenseRatio: "0.98%",
				MinimumSIP:   "₹100",
			},
			{
				SchemeName: "HDFC Mid Cap Fund",
				SourceURL:  "https://groww.in/mutual-funds/hdfc-mid-cap-opportunities-fund-direct-growth",
				ExitLoad:   "1% if redeemed within 1 year",
			},
		},
	}
}

func TestBuildChunks(t *testing.T) {
	chunks, err := BuildChunks(sampleDataset())
	require.NoError(t, err)
	require.Len(t, chunks, 5)

	assert.Equal(t, "hdfc-large-cap-fund:expense_ratio", chunks[0].ID)
	assert.Equal(t, "HDFC Large Cap Fund (Large Cap) Expense Ratio: 0.98%", chunks[0].Text)
	assert.Equal(t, "HDFC Large Cap Fund (Large Cap) Minimum SIP: ₹100", chunks[1].Text)
	assert.Equal(t, entity.FieldOther, chunks[2].FieldName)
	assert.Equal(t, "HDFC Large Cap Fund is a Large Cap mutual fund scheme. Expense Ratio: 0.98%. Minimum SIP: ₹100", chunks[2].Text)

	assert.Equal(t, "HDFC Mid Cap Fund Exit Load: 1% if redeemed within 1 year", chunks[3].Text)
	assert.Equal(t, "hdfc-mid-cap-fund:other", chunks[4].ID)

	for _, ch := range chunks {
		assert.Equal(t, "2025-11-20T10:15:00", ch.ExtractedAt, "dataset date fills missing record dates")
		assert.NotEmpty(t, ch.SourceURL)
	}
}

func TestBuildChunksRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		second  string
		wantErr error
	}{
		{name: "same name in another case", second: "hdfc large cap fund", wantErr: entity.ErrDuplicateChunk},
		{name: "hyphenated name with the same slug", second: "HDFC Large-Cap Fund", wantErr: entity.ErrDuplicateChunk},
		{name: "punctuation only differs", second: "HDFC Large Cap Fund.", wantErr: entity.ErrDuplicateChunk},
		{name: "blank name", second: " ", wantErr: entity.ErrMissingField},
		{name: "name without letters or digits", second: "--", wantErr: entity.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := sampleDataset()
			ds.Schemes[1].SchemeName = tt.second
			_, err := BuildChunks(ds)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type failingEmbedder struct{ embedding.Embedder }

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("quota exceeded")
}

func TestBuildPublishesSnapshot(t *testing.T) {
	emb, err := embedding.NewHashingEmbedder(64)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.json")
	uc := NewUsecase(emb, index.NewFilePublisher(path))
	uc.now = func() time.Time { return time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC) }

	snap, err := uc.Build(context.Background(), sampleDataset(), false)
	require.NoError(t, err)
	assert.Equal(t, "hashing-v1/64", snap.EmbeddingModel)
	assert.Equal(t, 64, snap.Dimension)
	for _, ch := range snap.Chunks {
		assert.Len(t, ch.Embedding, 64)
	}

	loaded, err := index.LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Chunks, loaded.Chunks)

	_, err = uc.Build(context.Background(), sampleDataset(), false)
	assert.ErrorIs(t, err, entity.ErrIndexExists)

	_, err = uc.Build(context.Background(), sampleDataset(), true)
	assert.NoError(t, err)
}

func TestBuildEmbeddingFailureDoesNotPublish(t *testing.T) {
	emb, err := embedding.NewHashingEmbedder(16)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.json")

	uc := NewUsecase(failingEmbedder{emb}, index.NewFilePublisher(path))
	_, err = uc.Build(context.Background(), sampleDataset(), true)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "all_schemes_20250101.json")
	newer := filepath.Join(dir, "all_schemes_20250201.json")
	require.NoError(t, os.WriteFile(older, []byte(`{"schemes":[{"scheme_name":"Old Fund"}]}`), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte(`{"schemes":[{"scheme_name":"New Fund"}]}`), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	ds, path, err := LoadDataset(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, path)
	assert.Equal(t, "New Fund", ds.Schemes[0].SchemeName)

	ds, _, err = LoadDataset(older)
	require.NoError(t, err)
	assert.Equal(t, "Old Fund", ds.Schemes[0].SchemeName)
}

func TestLoadDatasetErrors(t *testing.T) {
	_, _, err := LoadDataset(t.TempDir())
	assert.ErrorIs(t, err, entity.ErrEmptyDataset)

	empty := filepath.Join(t.TempDir(), "all_schemes_x.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"schemes":[]}`), 0o644))
	_, _, err = LoadDataset(empty)
	assert.ErrorIs(t, err, entity.ErrEmptyDataset)

	bad := filepath.Join(t.TempDir(), "all_schemes_y.json")
	require.NoError(t, os.WriteFile(bad, []byte(`not json`), 0o644))
	_, _, err = LoadDataset(bad)
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestSampleDatasetBuilds(t *testing.T) {
	ds, _, err := LoadDataset(filepath.Join("..", "..", "..", "data", "processed"))
	require.NoError(t, err)

	chunks, err := BuildChunks(ds)
	require.NoError(t, err)
	assert.Equal(t, len(ds.Schemes)*(len(entity.FactFields)+1), len(chunks))
	for _, ch := range chunks {
		assert.True(t, strings.HasPrefix(ch.SourceURL, "https://groww.in/mutual-funds/"), ch.ID)
	}
}
