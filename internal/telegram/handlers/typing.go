package handlers

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// The typing action expires after 5 seconds on the client
const typingInterval = 4 * time.Second

// TypingNotifier keeps the "typing" indicator visible while an answer is generated
type TypingNotifier struct {
	api    API
	chatID int64
	logger *zap.Logger
	done   chan struct{}
	once   sync.Once
}

func NewTypingNotifier(api API, chatID int64, logger *zap.Logger) *TypingNotifier {
	return &TypingNotifier{
		api:    api,
		chatID: chatID,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start sends the first action immediately and repeats until Stop or ctx is done
func (t *TypingNotifier) Start(ctx context.Context) {
	t.send()

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.send()
			case <-t.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (t *TypingNotifier) Stop() {
	t.once.Do(func() { close(t.done) })
}

func (t *TypingNotifier) send() {
	if _, err := t.api.Request(tgbotapi.NewChatAction(t.chatID, tgbotapi.ChatTyping)); err != nil {
		t.logger.Warn("failed to send typing action",
			zap.Error(err),
			zap.Int64("chat_id", t.chatID),
		)
	}
}
