package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/ratelimit"
)

// RateLimit guards an endpoint with a per-client-IP fixed window. Quota
// headers are set on every response; a rejected request gets 429 with a
// Retry-After so well-behaved clients can back off.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int(decision.RetryAfter.Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"retryAfter": retryAfter,
			})
			return
		}

		c.Next()
	}
}
