package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/fund-faq/internal/api"
	faqapi "github.com/futig/fund-faq/internal/api/faq"
	"github.com/futig/fund-faq/internal/pkg/validator"
	"github.com/futig/fund-faq/internal/telegram"
	"github.com/futig/fund-faq/internal/usecase/assistant"
	"github.com/futig/fund-faq/internal/usecase/indexing"
	"go.uber.org/zap"
)

// requests may wait for a full generation including its retries
const requestTimeoutSlack = 10 * time.Second

// Build assembles the HTTP service
func Build(environment string) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	c, err := loadCore(ctx, environment)
	if err != nil {
		cancel()
		return nil, err
	}
	logger := c.logger

	logger.Info("Building application",
		zap.String("environment", c.cfg.Environment),
		zap.String("server_addr", c.cfg.ServerAddr),
		zap.String("index_backend", c.cfg.IndexCfg.Backend),
	)

	idx, err := c.openIndex(ctx)
	if err != nil {
		cancel()
		c.close()
		return nil, fmt.Errorf("open index: %w", err)
	}
	c.watchIndex(ctx, idx)

	asst, err := c.newAssistant(ctx, idx)
	if err != nil {
		cancel()
		c.close()
		return nil, err
	}
	logger.Info("Use cases initialized")

	faqHandler := faqapi.NewHandler(asst, idx, idx, newFormatters(c.cfg, logger), validator.New())

	timeout := requestTimeout(c)
	router := api.SetupRouter(faqHandler, timeout, logger)
	logger.Info("HTTP router configured", zap.Duration("request_timeout", timeout))

	server := &http.Server{
		Addr:         c.cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", c.cfg.Environment),
	)

	return &App{
		server: server,
		core:   c,
		cancel: cancel,
	}, nil
}

// BuildTelegramBot assembles the chat front end. The returned func releases resources.
func BuildTelegramBot(ctx context.Context, environment string) (telegram.Bot, *zap.Logger, func(), error) {
	c, err := loadCore(ctx, environment)
	if err != nil {
		return nil, nil, nil, err
	}

	c.logger.Info("Building Telegram bot",
		zap.String("environment", c.cfg.Environment),
	)

	idx, err := c.openIndex(ctx)
	if err != nil {
		c.close()
		return nil, nil, nil, fmt.Errorf("open index: %w", err)
	}
	c.watchIndex(ctx, idx)

	asst, err := c.newAssistant(ctx, idx)
	if err != nil {
		c.close()
		return nil, nil, nil, err
	}

	bot, err := telegram.NewBot(&c.cfg.TelegramCfg, asst, idx, c.logger)
	if err != nil {
		c.close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully",
		zap.String("environment", c.cfg.Environment),
	)
	return bot, c.logger, c.close, nil
}

// Indexer bundles what the operator CLI needs
type Indexer struct {
	Usecase  *indexing.Usecase
	DataPath string
	Logger   *zap.Logger
	Close    func()
}

// BuildIndexer assembles the index build pipeline, no served index is required
func BuildIndexer(ctx context.Context, environment string) (*Indexer, error) {
	c, err := loadCore(ctx, environment)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		Usecase:  indexing.NewUsecase(c.embedder, c.newPublisher()),
		DataPath: c.cfg.IndexCfg.DataPath,
		Logger:   c.logger,
		Close:    c.close,
	}, nil
}

// Asker bundles a ready pipeline for one-shot questions
type Asker struct {
	Usecase *assistant.Usecase
	Logger  *zap.Logger
	Close   func()
}

func BuildAsker(ctx context.Context, environment string) (*Asker, error) {
	c, err := loadCore(ctx, environment)
	if err != nil {
		return nil, err
	}

	idx, err := c.openIndex(ctx)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("open index: %w", err)
	}
	asst, err := c.newAssistant(ctx, idx)
	if err != nil {
		c.close()
		return nil, err
	}

	return &Asker{Usecase: asst, Logger: c.logger, Close: c.close}, nil
}

func requestTimeout(c *core) time.Duration {
	gen := c.cfg.GenerationCfg
	return gen.Timeout*time.Duration(gen.Retry.Attempts+1) + gen.Retry.MaxDelay*time.Duration(gen.Retry.Attempts) + requestTimeoutSlack
}
