package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"oddeven_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var (
	rdb       *redis.Client
	rateLimit int64
	window    time.Duration
)

// InitRedisRateLimiter настраивает лимитер запросов поверх redis;
// пустой addr выключает лимитер (локальная разработка и тесты)
func InitRedisRateLimiter(addr, password string, limit int64) {
	if addr == "" {
		logger.Warn("rate limiter выключен: REDIS_ADDR не задан")
		return
	}
	if limit <= 0 {
		limit = 60
	}

	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	rateLimit = limit
	window = time.Minute

	logger.Info("rate limiter включен", "addr", addr, "limit", limit)
}

// RateLimit ограничивает число запросов с одного ip фиксированным окном
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		key := fmt.Sprintf("rl:%s:%d", c.ClientIP(), time.Now().Unix()/int64(window.Seconds()))

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// redis недоступен - пропускаем запрос, не роняем сервис
			logger.Warn("rate limiter недоступен", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > rateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
