package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/futig/fund-faq/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	warningInterval   = 30 * time.Second
	inactiveThreshold = time.Hour
	cleanupInterval   = 10 * time.Minute
)

// userLimit tracks rate limit state for a single user
type userLimit struct {
	limiter       *rate.Limiter
	lastSeen      time.Time
	warningsSent  int
	lastWarningAt time.Time
}

// RateLimiterMiddleware applies a token bucket per user
type RateLimiterMiddleware struct {
	mu     sync.Mutex
	limits map[int64]*userLimit
	every  rate.Limit
	burst  int
	now    func() time.Time
	logger *zap.Logger
	sender Sender
}

func NewRateLimiterMiddleware(
	requestsPerMinute int,
	burstSize int,
	logger *zap.Logger,
	sender Sender,
) *RateLimiterMiddleware {
	if burstSize < 1 {
		burstSize = 1
	}
	return &RateLimiterMiddleware{
		limits: make(map[int64]*userLimit),
		every:  rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:  burstSize,
		now:    time.Now,
		logger: logger,
		sender: sender,
	}
}

// Run evicts idle users until ctx is done
func (rl *RateLimiterMiddleware) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.evictIdle(); n > 0 {
				rl.logger.Debug("cleaned up inactive users from rate limiter", zap.Int("users", n))
			}
		}
	}
}

// Handle drops the update when the user is over the limit
func (rl *RateLimiterMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	userID, chatID := updateIDs(update)
	if userID == 0 {
		next(update)
		return
	}

	allowed, warn := rl.allow(userID)
	if !allowed {
		rl.logger.Warn("rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int64("chat_id", chatID),
		)
		if warn > 0 && chatID != 0 {
			rl.sendWarning(chatID, warn)
		}
		return
	}

	next(update)
}

// allow reports whether the request passes and, when it does not,
// the warning number to send or 0 to stay quiet
func (rl *RateLimiterMiddleware) allow(userID int64) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	limit, ok := rl.limits[userID]
	if !ok {
		limit = &userLimit{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.limits[userID] = limit
	}
	limit.lastSeen = now

	if limit.limiter.AllowN(now, 1) {
		limit.warningsSent = 0
		return true, 0
	}

	if now.Sub(limit.lastWarningAt) <= warningInterval {
		return false, 0
	}
	limit.warningsSent++
	limit.lastWarningAt = now
	return false, limit.warningsSent
}

func (rl *RateLimiterMiddleware) evictIdle() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	evicted := 0
	for userID, limit := range rl.limits {
		if now.Sub(limit.lastSeen) > inactiveThreshold {
			delete(rl.limits, userID)
			evicted++
		}
	}
	return evicted
}

func (rl *RateLimiterMiddleware) sendWarning(chatID int64, warnings int) {
	msg := tgbotapi.NewMessage(chatID, render.RateLimited(warnings))
	if _, err := rl.sender.Send(msg); err != nil {
		rl.logger.Error("failed to send rate limit warning",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
