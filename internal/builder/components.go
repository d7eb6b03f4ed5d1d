package builder

import (
	"context"
	"fmt"

	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/config"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/index"
	"github.com/futig/fund-faq/internal/integration/common"
	"github.com/futig/fund-faq/internal/integration/embedding"
	"github.com/futig/fund-faq/internal/integration/llm"
	"github.com/futig/fund-faq/internal/pkg/formatter"
	"github.com/futig/fund-faq/internal/repository"
	"github.com/futig/fund-faq/internal/usecase/answer"
	"github.com/futig/fund-faq/internal/usecase/assistant"
	"github.com/futig/fund-faq/internal/usecase/indexing"
	"github.com/futig/fund-faq/internal/usecase/query"
	"github.com/futig/fund-faq/internal/usecase/retrieval"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// servingIndex is what the front ends need from either index backend
type servingIndex interface {
	Search(ctx context.Context, vector []float32, topK int, schemeFilter string) (entity.RetrievalResult, error)
	Catalog() *catalog.Catalog
	Reload(ctx context.Context) (int, error)
}

// core holds the pieces shared by the HTTP service, the bot and the CLI
type core struct {
	cfg      *config.Config
	logger   *zap.Logger
	embedder embedding.Embedder
	db       *pgxpool.Pool
	redis    *redis.Client
}

func (c *core) close() {
	if c.redis != nil {
		c.redis.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
	c.logger.Sync()
}

func loadCore(ctx context.Context, environment string) (*core, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	c := &core{cfg: cfg, logger: logger}

	if cfg.IndexCfg.Backend == config.BackendPostgres {
		if c.db, err = setupDatabase(ctx, cfg, logger); err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			c.close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	if c.redis, err = setupRedis(ctx, cfg.RedisCfg, logger); err != nil {
		c.close()
		return nil, fmt.Errorf("setup redis: %w", err)
	}

	if c.embedder, err = newEmbedder(ctx, cfg.EmbeddingCfg, c.redis, logger); err != nil {
		c.close()
		return nil, fmt.Errorf("setup embedder: %w", err)
	}

	return c, nil
}

// newEmbedder wraps the configured provider in a memory cache and, when available, redis
func newEmbedder(ctx context.Context, cfg config.EmbeddingConfig, rdb *redis.Client, logger *zap.Logger) (embedding.Embedder, error) {
	var (
		inner embedding.Embedder
		err   error
	)
	switch cfg.Provider {
	case config.ProviderHashing:
		inner, err = embedding.NewHashingEmbedder(cfg.Dimension)
	case config.ProviderGemini:
		inner, err = embedding.NewGeminiEmbedder(ctx, cfg, common.NewHTTPClient(cfg.HTTPClientConfig))
	case config.ProviderOpenAI:
		inner = embedding.NewOpenAIEmbedder(cfg, common.NewHTTPClient(cfg.HTTPClientConfig))
	default:
		err = fmt.Errorf("%w: embedding provider %q", entity.ErrUnsupportedProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	caches := []embedding.Cache{embedding.NewMemoryCache(cfg.CacheTTL)}
	if rdb != nil {
		caches = append(caches, embedding.NewRedisCache(rdb, cfg.CacheTTL))
	}

	logger.Info("embedder initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", inner.ModelID()),
		zap.Int("cache_tiers", len(caches)),
	)
	return embedding.NewCachedEmbedder(inner, caches...), nil
}

// newCompleter selects the generation provider and wraps it with timeout and retry
func newCompleter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (answer.Completer, error) {
	var (
		inner answer.Completer
		err   error
	)
	switch {
	case cfg.EnableMocks:
		logger.Info("Using mock LLM connector")
		inner = llm.NewMockConnector(logger)
	case cfg.LLMCfg.Provider == config.ProviderGemini:
		inner, err = llm.NewGeminiConnector(ctx, cfg.LLMCfg, common.NewHTTPClient(cfg.LLMCfg.HTTPClientConfig))
	case cfg.LLMCfg.Provider == config.ProviderOpenAI:
		inner = llm.NewOpenAIConnector(cfg.LLMCfg, common.NewHTTPClient(cfg.LLMCfg.HTTPClientConfig))
	case cfg.LLMCfg.Provider == config.ProviderHTTP:
		inner = llm.NewConnector(cfg.LLMCfg, logger)
	default:
		err = fmt.Errorf("%w: llm provider %q", entity.ErrUnsupportedProvider, cfg.LLMCfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("LLM connector initialized",
		zap.String("provider", cfg.LLMCfg.Provider),
		zap.String("model", inner.Model()),
		zap.Duration("timeout", cfg.GenerationCfg.Timeout),
		zap.Uint("retry_attempts", cfg.GenerationCfg.Retry.Attempts),
	)
	return assistant.NewRetryingCompleter(inner, &cfg.GenerationCfg.Retry, cfg.GenerationCfg.Timeout), nil
}

// openIndex loads the published index from the configured backend
func (c *core) openIndex(ctx context.Context) (servingIndex, error) {
	model := c.embedder.ModelID()

	switch c.cfg.IndexCfg.Backend {
	case config.BackendFile:
		return index.OpenHolder(c.cfg.IndexCfg.SnapshotPath, model, c.logger)
	case config.BackendPostgres:
		repo := repository.NewChunkPostgres(c.db, model, c.logger)
		if _, err := repo.Reload(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: index backend %q", entity.ErrUnsupportedProvider, c.cfg.IndexCfg.Backend)
	}
}

// watchIndex hot reloads the file index until ctx is done
func (c *core) watchIndex(ctx context.Context, idx servingIndex) {
	holder, ok := idx.(*index.Holder)
	if !ok || !c.cfg.IndexCfg.Watch {
		return
	}
	go func() {
		if err := holder.Watch(ctx); err != nil {
			c.logger.Error("index watcher stopped", zap.Error(err))
		}
	}()
}

// newAssistant wires the question answering pipeline over idx
func (c *core) newAssistant(ctx context.Context, idx servingIndex) (*assistant.Usecase, error) {
	completer, err := newCompleter(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("setup llm: %w", err)
	}

	generator := answer.NewGenerator(completer, answer.Config{
		MaxOutputTokens: c.cfg.GenerationCfg.MaxOutputTokens,
		Temperature:     c.cfg.GenerationCfg.Temperature,
	})

	return assistant.NewUsecase(
		query.NewProcessor(idx),
		c.embedder,
		idx,
		retrieval.NewAssembler(c.cfg.RetrievalCfg.DedupThreshold),
		generator,
		assistant.Config{
			TopK:                c.cfg.RetrievalCfg.TopK,
			SimilarityThreshold: c.cfg.RetrievalCfg.SimilarityThreshold,
			ContextBudget:       c.cfg.BudgetCfg.ContextTokens,
			OverallBudget:       c.cfg.BudgetCfg.OverallTokens,
		},
	), nil
}

// newPublisher returns where index builds are written
func (c *core) newPublisher() indexing.Publisher {
	if c.cfg.IndexCfg.Backend == config.BackendPostgres {
		return repository.NewChunkPostgres(c.db, c.embedder.ModelID(), c.logger)
	}
	return index.NewFilePublisher(c.cfg.IndexCfg.SnapshotPath)
}

// newFormatters enables DOCX export only when the unioffice license activates
func newFormatters(cfg *config.Config, logger *zap.Logger) *formatter.Factory {
	if cfg.UniofficeLicenseKey == "" {
		logger.Info("docx export disabled, UNIOFFICE_LICENSE_KEY is not set")
		return formatter.NewFactory(false)
	}
	if err := formatter.ActivateDOCX(cfg.UniofficeLicenseKey); err != nil {
		logger.Warn("docx export disabled", zap.Error(err))
		return formatter.NewFactory(false)
	}
	return formatter.NewFactory(true)
}
