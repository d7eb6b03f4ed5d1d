package handlers

import (
	"context"

	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Assistant interface {
	Ask(ctx context.Context, question string) *entity.Answer
}

type CatalogSource interface {
	Catalog() *catalog.Catalog
}

// API is the part of tgbotapi.BotAPI the handlers use
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Message is a normalized incoming text or button press
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	CallbackData string
	CallbackID   string
}
