package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/errors"
	"golang.org/x/time/rate"
)

// RateLimiter throttles expensive endpoints per user. Entries are evicted
// after an idle period so the map does not grow with every user ever seen.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[uint]*limiterEntry
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdleTTL = 10 * time.Minute

// NewRateLimiter allows ratePerMin requests per minute with the given burst.
func NewRateLimiter(ratePerMin int, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[uint]*limiterEntry),
		rate:     rate.Limit(float64(ratePerMin) / 60.0),
		burst:    burst,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for id, entry := range rl.limiters {
			if time.Since(entry.lastSeen) > limiterIdleTTL {
				delete(rl.limiters, id)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) limiterFor(userID uint) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[userID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[userID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Limit rejects requests exceeding the per-user rate with 429.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			// Authenticate runs before this; missing user means misconfigured routes
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !rl.limiterFor(userID).Allow() {
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"user_id": userID,
				"path":    c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusTooManyRequests, errors.TemplateRateLimited,
				"Too many generation requests, please wait a moment")
			c.Abort()
			return
		}

		c.Next()
	}
}
