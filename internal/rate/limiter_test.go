package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, "", 2, time.Hour)
	ctx := context.Background()

	r1, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, r1.Allowed)
	assert.EqualValues(t, 1, r1.Remaining)

	r2, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, r2.Allowed)
	assert.EqualValues(t, 0, r2.Remaining)

	r3, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, r3.Allowed)
	assert.Greater(t, r3.RetryAfter, time.Duration(0))

	other, err := l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisLimiter(client, "", 2, time.Minute).Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	base := time.Now()
	l.now = func() time.Time { return base }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, r.Allowed, "request %d", i)
	}
	r, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.EqualValues(t, 0, r.Remaining)
	assert.GreaterOrEqual(t, r.RetryAfter, time.Second)

	other, err := l.Allow(ctx, "other-ip")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	// un token se repone cada window/max
	l.now = func() time.Time { return base.Add(21 * time.Second) }
	r, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
}
