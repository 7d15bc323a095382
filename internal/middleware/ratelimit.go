package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimit applies a fixed-window request cap per client IP, backed by
// redis. OAuth callback paths are exempt so the login round trip never gets
// throttled. A nil redis client disables the limiter.
func RateLimit(rdb *redis.Client, window time.Duration, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || strings.Contains(c.Request.URL.Path, "/auth/google/callback") {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:ip:%s", c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should not take the API with it.
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes desde esta IP, intenta de nuevo más tarde.",
			})
			return
		}

		c.Next()
	}
}
