package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter(t *testing.T, max int, window time.Duration) (*AttemptCounter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAttemptCounter(client, max, window), srv
}

func TestAttemptCounterTrips(t *testing.T) {
	ctx := context.Background()
	counter, _ := newCounter(t, 3, time.Minute)

	for i := 1; i <= 3; i++ {
		ok, err := counter.Allowed(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i)

		n, err := counter.Fail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	ok, err := counter.Allowed(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = counter.Allowed(ctx, "b@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAttemptCounterReset(t *testing.T) {
	ctx := context.Background()
	counter, _ := newCounter(t, 1, time.Minute)

	_, err := counter.Fail(ctx, "a@x.com")
	require.NoError(t, err)
	ok, _ := counter.Allowed(ctx, "a@x.com")
	require.False(t, ok)

	require.NoError(t, counter.Reset(ctx, "a@x.com"))
	ok, err = counter.Allowed(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAttemptCounterWindowExpires(t *testing.T) {
	ctx := context.Background()
	counter, srv := newCounter(t, 2, time.Minute)

	_, err := counter.Fail(ctx, "a@x.com")
	require.NoError(t, err)
	_, err = counter.Fail(ctx, "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, time.Minute, srv.TTL("login_attempts:a@x.com"))

	srv.FastForward(time.Minute + time.Second)
	ok, err := counter.Allowed(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAttemptCounterBackendDown(t *testing.T) {
	counter, srv := newCounter(t, 2, time.Minute)
	srv.Close()

	_, err := counter.Allowed(context.Background(), "a@x.com")
	assert.Error(t, err)
}
