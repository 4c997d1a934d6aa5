// internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}
}

// PerMinute builds a limiter allowing n requests per minute with the given
// burst.
func PerMinute(n, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return NewRateLimiter(rate.Limit(float64(n)/60), burst)
}

// RunCleanup forgets visitors idle for three minutes until ctx is cancelled.
func (rl *RateLimiter) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mtx.Lock()
			for key, v := range rl.visitors {
				if time.Since(v.lastSeen) > 3*time.Minute {
					delete(rl.visitors, key)
				}
			}
			rl.mtx.Unlock()
		}
	}
}

func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Middleware limits per apprentice when authenticated, per client IP
// otherwise.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := utils.GetApprenticeIDFromContext(c); ok {
			key = "apprentice:" + strconv.FormatInt(id, 10)
		}

		if !rl.getVisitor(key).Allow() {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Limiters groups the limiters of the API.
type Limiters struct {
	General *RateLimiter
	Submit  *RateLimiter
}

func NewLimiters(cfg config.RateLimitConfig) *Limiters {
	return &Limiters{
		General: PerMinute(cfg.RequestsPerMinute, cfg.Burst),
		Submit:  PerMinute(cfg.SubmitPerMinute, 2),
	}
}

func (l *Limiters) RunCleanup(ctx context.Context) {
	go l.General.RunCleanup(ctx)
	go l.Submit.RunCleanup(ctx)
}
