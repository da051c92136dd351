// Package redis keeps short-lived login bookkeeping in Redis.
package redis

import (
	"context"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// AttemptCounter counts consecutive failed logins per email inside a fixed
// window. The window starts at the first failure and is not extended by
// later ones.
type AttemptCounter struct {
	client *redislib.Client
	prefix string
	max    int
	window time.Duration
}

func NewAttemptCounter(client *redislib.Client, max int, window time.Duration) *AttemptCounter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &AttemptCounter{
		client: client,
		prefix: "login_attempts:",
		max:    max,
		window: window,
	}
}

// Allowed reports whether another login attempt may be checked for email.
func (c *AttemptCounter) Allowed(ctx context.Context, email string) (bool, error) {
	n, err := c.client.Get(ctx, c.key(email)).Int()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return true, nil
		}
		return false, err
	}
	return n < c.max, nil
}

// Fail records one failed attempt and returns the running count.
func (c *AttemptCounter) Fail(ctx context.Context, email string) (int, error) {
	key := c.key(email)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.client.Expire(ctx, key, c.window).Err(); err != nil {
			return int(n), err
		}
	}
	return int(n), nil
}

func (c *AttemptCounter) Reset(ctx context.Context, email string) error {
	return c.client.Del(ctx, c.key(email)).Err()
}

func (c *AttemptCounter) key(email string) string {
	return c.prefix + email
}
