package middleware

import (
	"sync"
	"testing"
	"time"

	"github.com/futig/fund-faq/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestRateLimiterBurstThenWarnOnce(t *testing.T) {
	sender := &recordingSender{}
	rl := NewRateLimiterMiddleware(1, 2, zap.NewNop(), sender)
	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	handled := 0
	next := func(tgbotapi.Update) { handled++ }
	for i := 0; i < 5; i++ {
		rl.Handle(textUpdate(42, "nav?"), next)
	}

	assert.Equal(t, 2, handled)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, render.MsgRateLimited, sender.sent[0])

	// other users have their own bucket
	rl.Handle(textUpdate(7, "nav?"), next)
	assert.Equal(t, 3, handled)

	// a minute refills one token
	now = now.Add(time.Minute)
	rl.Handle(textUpdate(42, "nav?"), next)
	assert.Equal(t, 4, handled)
}

func TestRateLimiterEvictsIdleUsers(t *testing.T) {
	rl := NewRateLimiterMiddleware(60, 1, zap.NewNop(), &recordingSender{})
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Handle(textUpdate(1, "hi"), func(tgbotapi.Update) {})
	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, rl.evictIdle())
	assert.Empty(t, rl.limits)
}

func TestRecoveryRepliesAfterPanic(t *testing.T) {
	sender := &recordingSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	assert.NotPanics(t, func() {
		m.Handle(textUpdate(5, "boom"), func(tgbotapi.Update) { panic("boom") })
	})
	assert.Equal(t, []string{render.ErrGeneric}, sender.sent)
}

func TestLoggingCallsNext(t *testing.T) {
	called := false
	NewLoggingMiddleware(zap.NewNop()).Handle(textUpdate(1, "/start"), func(tgbotapi.Update) { called = true })
	assert.True(t, called)
}
