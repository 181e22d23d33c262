package rate

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter usa un token bucket por clave (golang.org/x/time/rate) con
// capacidad max que se repone en window.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	max      int
	window   time.Duration
	every    rate.Limit
	ttl      time.Duration
	now      func() time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter crea un limitador local de max requests por window.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		limiters: make(map[string]*entry),
		max:      max,
		window:   window,
		every:    rate.Every(window / time.Duration(max)),
		ttl:      3 * window,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(l.every, l.max)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	if len(l.limiters) > 1024 {
		l.evictLocked(now)
	}
	l.mu.Unlock()

	allowed := e.lim.AllowN(now, 1)
	tokens := e.lim.TokensAt(now)
	res := Result{
		Allowed:   allowed,
		Limit:     int64(l.max),
		Remaining: int64(math.Max(0, math.Floor(tokens))),
	}
	if !allowed {
		// tiempo hasta el próximo token
		missing := 1 - tokens
		res.RetryAfter = time.Duration(missing / float64(l.every) * float64(time.Second))
		if res.RetryAfter < time.Second {
			res.RetryAfter = time.Second
		}
	}
	return res, nil
}

func (l *MemoryLimiter) evictLocked(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.limiters, k)
		}
	}
}
