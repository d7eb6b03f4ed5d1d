package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/futig/fund-faq/internal/config"
	"github.com/futig/fund-faq/internal/telegram/handlers"
	"github.com/futig/fund-faq/internal/telegram/middleware"
	"github.com/futig/fund-faq/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

// API is the part of tgbotapi.BotAPI the bot drives
type API interface {
	handlers.API
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot long-polls Telegram and handles every update in its own goroutine
type Bot struct {
	api         API
	cfg         *config.TelegramConfig
	handler     *handlers.Handler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	cancel      context.CancelFunc
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func New(api API, cfg *config.TelegramConfig, handler *handlers.Handler, logger *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		cfg:         cfg,
		handler:     handler,
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
	}
}

// Start begins long polling. It returns immediately.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	ctx, b.cancel = context.WithCancel(ctxzap.ToContext(ctx, b.logger))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	go b.rateLimitMW.Run(ctx)
	go b.processUpdates(ctx, updates)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops polling and waits for in-flight updates up to the shutdown timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		b.api.StopReceivingUpdates()
	})

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return ErrShutdownTimeout
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.HandleUpdate(ctx, u)
			}(update)
		}
	}
}

// HandleUpdate runs one update through rate limiting, logging and recovery
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				b.route(ctx, u3)
			})
		})
	})
}

func (b *Bot) route(ctx context.Context, update tgbotapi.Update) {
	var (
		msg    *handlers.Message
		handle func(context.Context, *handlers.Message) error
	)

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		q := update.CallbackQuery
		msg = &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			UserID:       q.From.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		}
		handle = b.handler.HandleCallback

	case update.Message != nil:
		m := update.Message
		msg = &handlers.Message{
			ChatID:    m.Chat.ID,
			MessageID: m.MessageID,
			Text:      m.Text,
		}
		if m.From != nil {
			msg.UserID = m.From.ID
		}
		handle = b.handler.HandleText
		if m.IsCommand() {
			msg.Command = m.Command()
			handle = b.handler.HandleCommand
		}

	default:
		return
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("request_id", uuid.NewString()),
		zap.Int64("user_id", msg.UserID),
		zap.Int64("chat_id", msg.ChatID),
	))
	if err := handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error", zap.Error(err))
		b.sendError(msg.ChatID)
	}
}

func (b *Bot) sendError(chatID int64) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, render.ErrGeneric)); err != nil {
		b.logger.Error("failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
