package handlers

import (
	"context"
	"sync"
	"time"

	"linkrelay/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL         = 10 * time.Minute
	LimiterCleanupInterval = 5 * time.Minute
)

type chatBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ChatLimiter keeps one token bucket per chat.
type ChatLimiter struct {
	mu      sync.Mutex
	buckets map[int64]*chatBucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

var Limiter = NewChatLimiter(config.Env.RateLimit, config.Env.RateBurst)

// NewChatLimiter allows perMinute requests per chat with the given burst.
// A non-positive perMinute disables limiting.
func NewChatLimiter(perMinute float64, burst int) *ChatLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(perMinute / 60)
	}
	if burst < 1 {
		burst = 1
	}
	idleTTL := limiterIdleTTL
	if limit != rate.Inf {
		// an evicted bucket must already have refilled
		refill := time.Duration(float64(burst) / float64(limit) * float64(time.Second))
		idleTTL = max(idleTTL, refill)
	}
	return &ChatLimiter{
		buckets: make(map[int64]*chatBucket),
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (l *ChatLimiter) Allow(chatID int64) bool {
	if l.limit == rate.Inf {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	bucket, ok := l.buckets[chatID]
	if !ok {
		bucket = &chatBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[chatID] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// CleanupExpired drops chats idle for longer than the idle TTL and
// returns how many are still tracked.
func (l *ChatLimiter) CleanupExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.idleTTL)
	for chatID, bucket := range l.buckets {
		if bucket.lastSeen.Before(cutoff) {
			delete(l.buckets, chatID)
		}
	}
	zap.S().Debugf("rate limiter cleanup: %d active chats", len(l.buckets))
	return len(l.buckets)
}

// RunCleanup calls CleanupExpired every interval until ctx is done.
func (l *ChatLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.CleanupExpired()
		}
	}
}

// ResetLimiter rebuilds the shared limiter from the loaded config.
func ResetLimiter() {
	Limiter = NewChatLimiter(config.Env.RateLimit, config.Env.RateBurst)
}
