package telegram

import (
	"context"
	"fmt"

	"github.com/futig/fund-faq/internal/config"
	"github.com/futig/fund-faq/internal/telegram/bot"
	"github.com/futig/fund-faq/internal/telegram/handlers"
	"github.com/futig/fund-faq/internal/telegram/keyboard"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot authorizes against Telegram and wires the FAQ handler
func NewBot(
	cfg *config.TelegramConfig,
	assistant handlers.Assistant,
	catalog handlers.CatalogSource,
	logger *zap.Logger,
) (Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN", config.ErrMissingSetting)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	handler := handlers.NewHandler(api, assistant, catalog, keyboard.NewBuilder(), logger)
	return bot.New(api, cfg, handler, logger), nil
}
