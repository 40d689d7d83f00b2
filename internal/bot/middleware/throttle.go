package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle rate limits button presses per chat.
type Throttle struct {
	mu sync.Mutex
	// one entry per chat that ever pressed a button, never evicted. Buttons
	// only exist in chats the bot sent menus to, so the set stays small.
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewThrottle allows one event per interval with the given burst. A zero
// interval disables throttling.
func NewThrottle(interval time.Duration, burst int) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limiters: make(map[int64]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (t *Throttle) limiter(chatID int64) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, exists := t.limiters[chatID]
	if !exists {
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[chatID] = limiter
	}
	return limiter
}

func (t *Throttle) Allow(chatID int64) bool {
	return t.limiter(chatID).Allow()
}
