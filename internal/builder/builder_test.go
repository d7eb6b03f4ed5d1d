package builder

import (
	"context"
	"testing"
	"time"

	"github.com/futig/fund-faq/internal/config"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/index"
	pkgRetry "github.com/futig/fund-faq/internal/pkg/retry"
	"github.com/futig/fund-faq/internal/usecase/indexing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetupLogger(t *testing.T) {
	l, err := setupLogger("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = setupLogger("WARN")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = setupLogger("loud")
	assert.Error(t, err)
}

func TestNewEmbedderRejectsUnknownProvider(t *testing.T) {
	_, err := newEmbedder(context.Background(), config.EmbeddingConfig{Provider: "word2vec", Dimension: 16}, nil, zap.NewNop())
	assert.ErrorIs(t, err, entity.ErrUnsupportedProvider)
}

func TestMockPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()
	snapshotPath := t.TempDir() + "/snapshot.json"

	cfg := &config.Config{
		EnableMocks:   true,
		RetrievalCfg:  config.RetrievalConfig{TopK: 3, DedupThreshold: 0.9},
		BudgetCfg:     config.BudgetConfig{ContextTokens: 1500, OverallTokens: 3000},
		GenerationCfg: config.GenerationConfig{Timeout: time.Second, MaxOutputTokens: 200, Retry: pkgRetry.RetryConfig{Attempts: 1}},
		EmbeddingCfg:  config.EmbeddingConfig{Provider: config.ProviderHashing, Dimension: 384, CacheTTL: time.Minute},
		IndexCfg:      config.IndexConfig{Backend: config.BackendFile, SnapshotPath: snapshotPath},
	}
	emb, err := newEmbedder(ctx, cfg.EmbeddingCfg, nil, zap.NewNop())
	require.NoError(t, err)
	c := &core{cfg: cfg, logger: zap.NewNop(), embedder: emb}

	ds, _, err := indexing.LoadDataset("../../data/processed")
	require.NoError(t, err)
	_, err = indexing.NewUsecase(c.embedder, c.newPublisher()).Build(ctx, ds, false)
	require.NoError(t, err)

	idx, err := c.openIndex(ctx)
	require.NoError(t, err)
	_, isHolder := idx.(*index.Holder)
	assert.True(t, isHolder)

	asst, err := c.newAssistant(ctx, idx)
	require.NoError(t, err)

	ans := asst.Ask(ctx, "What is the minimum SIP for HDFC Large Cap Fund?")
	assert.Equal(t, entity.ErrorKindNone, ans.Error)
	assert.NotEmpty(t, ans.Sources)
	assert.Equal(t, "mock", ans.Model)

	refused := asst.Ask(ctx, "Should I invest in HDFC Large Cap Fund?")
	assert.Equal(t, entity.ErrorKindInvalidQuery, refused.Error)
}

func TestPoolConfig(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:       "postgres://faq:secret@db:5432/funds?sslmode=disable",
		DBMaxConns:        7,
		DBMinConns:        2,
		DBMaxConnLifetime: time.Hour,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "funds", pc.ConnConfig.Database)

	_, err = poolConfig(&config.Config{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}

func TestNewFormattersDisablesDOCXWithoutKey(t *testing.T) {
	f := newFormatters(&config.Config{}, zap.NewNop())

	_, err := f.Create(entity.ExportDOCX)
	assert.ErrorIs(t, err, entity.ErrFormatDisabled)

	_, err = f.Create(entity.ExportPDF)
	assert.NoError(t, err)
}
