// Package rate limita requests por clave (IP o usuario) con ventana fija.
// RedisLimiter comparte el conteo entre réplicas; MemoryLimiter es local.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result es el resultado de un Allow.
type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decide si key puede hacer un request más.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter: ventana fija con INCR + EXPIRE.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
}

// NewRedisLimiter crea un limitador de max requests por window.
func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "restopos:rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.window)
	k := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.TTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate: redis: %w", err)
	}

	hits := incr.Val()
	if hits == 1 {
		// primer hit de la ventana
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("rate: redis expire: %w", err)
		}
		ttl = l.client.TTL(ctx, k)
	}
	res := Result{Allowed: hits <= l.max, Limit: l.max, Remaining: max(l.max-hits, 0)}
	if !res.Allowed {
		res.RetryAfter = ttl.Val()
		if res.RetryAfter <= 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}
