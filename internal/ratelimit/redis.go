package ratelimit

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// RedisLimiter is a fixed-window limiter shared across instances. Any Redis
// failure allows the request through.
type RedisLimiter struct {
	pool   *redis.Pool
	limit  int
	period time.Duration
	prefix string
	logger *zap.Logger
}

// NewRedisLimiter creates a limiter backed by the given pool.
func NewRedisLimiter(pool *redis.Pool, limit int, period time.Duration, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		pool:   pool,
		limit:  limit,
		period: period,
		prefix: "join-ratelimit:",
		logger: logger,
	}
}

// Allow increments the key's window counter and reports whether it is within
// quota.
func (l *RedisLimiter) Allow(key string) Decision {
	conn := l.pool.Get()
	defer conn.Close()

	redisKey := l.prefix + key
	count, err := redis.Int(conn.Do("INCR", redisKey))
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return Decision{Allowed: true}
	}

	if count == 1 {
		if _, err := conn.Do("EXPIRE", redisKey, int(l.period.Seconds())); err != nil {
			l.logger.Warn("failed to set rate limit expiry", zap.Error(err))
		}
	}

	if count > l.limit {
		ttl, err := redis.Int(conn.Do("TTL", redisKey))
		if err != nil || ttl < 0 {
			ttl = int(l.period.Seconds())
		}
		return Decision{Allowed: false, RetryAfter: time.Duration(ttl) * time.Second}
	}
	return Decision{Allowed: true}
}
