package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// KeyFunc picks the limiter key for a request
type KeyFunc func(c *gin.Context) string

// ClientIP keys requests by the client address gin resolved
func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// Middleware rejects requests over the limit with 429 and a Retry-After header
func Middleware(store *Store, keyFn KeyFunc, logger *slog.Logger) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = ClientIP
	}

	retryAfter := strconv.Itoa(int(math.Ceil(store.RetryAfter().Seconds())))

	return func(c *gin.Context) {
		key := keyFn(c)
		if store.Get(key).Allow() {
			c.Next()
			return
		}

		logger.WarnContext(c.Request.Context(), "rate limit exceeded",
			"key", key,
			"path", c.Request.URL.Path,
		)
		c.Header("Retry-After", retryAfter)
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
}
