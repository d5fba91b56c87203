package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"parking-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitWindow = time.Minute

var rateLimitNow = time.Now

// RateLimit is a fixed one-minute window limiter keyed by client IP. It is
// a no-op without redis or with a non-positive limit, and lets requests
// through when redis is unreachable.
func RateLimit(rdb *redis.Client, perMinute int, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil || perMinute <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := rateLimitNow()
			window := now.Truncate(rateLimitWindow)
			key := fmt.Sprintf("parking:ratelimit:%s:%d", clientIP(r), window.Unix())

			var incr *redis.IntCmd
			_, err := rdb.TxPipelined(r.Context(), func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(r.Context(), key)
				pipe.Expire(r.Context(), key, rateLimitWindow)
				return nil
			})
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			count := incr.Val()
			remaining := int64(perMinute) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(perMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(perMinute) {
				retryAfter := int(window.Add(rateLimitWindow).Sub(now).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				logger.Warn("Rate limit exceeded",
					zap.String("ip", clientIP(r)),
					zap.String("path", r.URL.Path),
					zap.String("request_id", utils.GetRequestIDFromContext(r.Context())),
				)
				utils.ResponseTooManyRequests(w, "Too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
