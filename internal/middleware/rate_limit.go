package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placement/internal/pkg/apperrors"
	"github.com/yigit/placement/internal/pkg/ratelimit"
)

var errTooManyAttempts = apperrors.NewCustomError(apperrors.ErrRateLimited, "Too many attempts, please try again later")

// RateLimit allows limit requests per window for each client IP within scope
func RateLimit(limiter ratelimit.Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		if !limiter.Allow(c.Request.Context(), key, limit, window) {
			abortWithError(c, errTooManyAttempts)
			return
		}
		c.Next()
	}
}
