package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter connects the shared Redis client used by the
// limiters. If addr is empty or the ping fails, the client stays nil
// and all limiters fail open so the server remains available.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	redisClient = redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient = nil
	}
}

// RedisRateLimit is a fixed-window per-IP limiter using INCR/EXPIRE.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		allow(c, key, "ip:"+c.FullPath(), maxRequests, window)
	}
}

// PlayerRateLimit limits actions per authenticated player rather than
// per IP. Requires the JWT middleware to have run first.
func PlayerRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		playerID, ok := PlayerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "prl:" + strconv.FormatInt(playerID, 10) + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		allow(c, key, "player:"+c.FullPath(), maxRequests, window)
	}
}

func allow(c *gin.Context, key, label string, maxRequests int, window time.Duration) {
	ctx := context.Background()

	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		// fail open on Redis errors, but surface it for debugging
		c.Header("X-RateLimit-Error", "redis-error")
		c.Next()
		return
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
	remaining := int64(maxRequests) - val
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

	if val > int64(maxRequests) {
		RLBlocked.WithLabelValues(label).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":       "rate limit exceeded",
			"retry_after": int(window.Seconds()),
		})
		return
	}

	RLRequests.WithLabelValues(label).Inc()
	c.Next()
}
