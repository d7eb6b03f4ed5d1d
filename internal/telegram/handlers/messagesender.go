package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram rejects messages longer than this many UTF-16 units, runes are a safe proxy
const maxMessageRunes = 4000

// MessageSender provides centralized message sending functionality
type MessageSender struct {
	api    API
	logger *zap.Logger
}

func NewMessageSender(api API, logger *zap.Logger) *MessageSender {
	return &MessageSender{
		api:    api,
		logger: logger,
	}
}

// Send splits long text across messages, markup goes on the last one
func (s *MessageSender) Send(chatID int64, text string, markup any) error {
	parts := splitMessage(text, maxMessageRunes)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.DisableWebPagePreview = true
		if markup != nil && i == len(parts)-1 {
			msg.ReplyMarkup = markup
		}

		if _, err := s.api.Send(msg); err != nil {
			s.logger.Error("failed to send message",
				zap.Error(err),
				zap.Int64("chat_id", chatID),
			)
			return err
		}
	}
	return nil
}

// Answer acknowledges a button press
func (s *MessageSender) Answer(callbackID, text string) {
	if _, err := s.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		s.logger.Warn("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

// splitMessage cuts on line breaks where possible
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > 0; i-- {
			if runes[i] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), "\n"))
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
