package middleware

import (
	"time"

	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/gin-gonic/gin"
	goCache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles a route per user with a token bucket. Idle
// buckets expire after ten minutes. It must run after AuthenticateMiddleware.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	burst := max(cfg.Burst, 1)
	limiters := goCache.New(10*time.Minute, 20*time.Minute)

	return func(c *gin.Context) {
		key := c.ClientIP()
		if sess := types.GetSession(c.Request.Context()); sess != nil {
			key = sess.TenantID + ":" + sess.UserID
		}

		limiter, ok := limiters.Get(key)
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
		}
		// refresh the expiry on every hit
		limiters.SetDefault(key, limiter)

		if !limiter.(*rate.Limiter).Allow() {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many requests, please slow down").
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
