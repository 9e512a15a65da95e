package middleware

import (
	"context"
	"fmt"
	"time"

	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/logger"
	"cfanalyzer/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter decides whether key may proceed within window.
type Limiter interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) error
}

type RateLimitPolicy struct {
	Window time.Duration
	IPMax  int
}

// RateLimitMiddleware limits each client IP per route group. A nil limiter
// or a non-positive IPMax disables it. Limiter backend failures let the
// request through.
func RateLimitMiddleware(limiter Limiter, routeKey string, policy RateLimitPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || policy.IPMax <= 0 {
			c.Next()
			return
		}
		key := fmt.Sprintf("cfanalyzer:rate:ip:%s:%s", c.ClientIP(), routeKey)
		err := limiter.Allow(c.Request.Context(), key, policy.IPMax, policy.Window)
		switch {
		case err == nil:
		case appErr.Is(err, appErr.TooManyRequests):
			response.Error(c, err)
			c.Abort()
			return
		default:
			logger.Warn(c.Request.Context(), "rate limit check skipped", zap.Error(err))
		}
		c.Next()
	}
}
