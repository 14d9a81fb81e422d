package middleware

import (
	"net/http"
	"strconv"

	apierrors "github.com/classclarus/classroom-api/internal/errors"
	"github.com/classclarus/classroom-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit applies a per-user quota to the join endpoints. Limited responses
// carry a Retry-After header in seconds.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		decision := limiter.Allow(strconv.FormatUint(userID, 10))
		if !decision.Allowed {
			retryAfter := int(decision.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			apierrors.Respond(c, http.StatusTooManyRequests,
				"Rate limit exceeded", "Too many requests. Please try again in a minute.")
			c.Abort()
			return
		}

		c.Next()
	}
}
