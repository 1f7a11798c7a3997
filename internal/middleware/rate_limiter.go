package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"afiliados/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window rate limiter on Redis ────────────────────────────────────────
// One counter per (scope, IP, window). Counters live in Redis so that every
// API replica shares the same budget. When Redis is unavailable the request
// is let through.

const rateKeyPrefix = "ratelimit:"

// RateLimiter allows at most limit requests per window and per client IP.
// scope separates independent budgets (e.g. "login" vs "api").
func RateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 200*time.Millisecond)
		defer cancel()

		slot := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("%s%s:%s:%d", rateKeyPrefix, scope, c.ClientIP(), slot)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter: redis unavailable, allowing request")
			c.Next()
			return
		}

		count := incr.Val()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if remaining := int64(limit) - count; remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}
		if count > int64(limit) {
			retry := time.Unix(0, (slot+1)*int64(window))
			c.Header("Retry-After", strconv.Itoa(int(time.Until(retry).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return RateLimiter(rdb, "login", 20, time.Minute)
}
