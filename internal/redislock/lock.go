package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DayClaimer elects one sweeper per local day across processes sharing the
// same Redis. Claiming a day a second time fails, which also makes the
// catch-up run at process start safe.
type DayClaimer interface {
	ClaimDay(ctx context.Context, task, localDate string) (bool, error)

	// ReleaseDay gives the day back so another tick can retry after a
	// failed run.
	ReleaseDay(ctx context.Context, task, localDate string) error
}

type redisDayClaimer struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDayClaimer(client *redis.Client) DayClaimer {
	return &redisDayClaimer{
		client: client,
		// long enough to cover the whole day plus clock drift
		ttl: 26 * time.Hour,
	}
}

func (c *redisDayClaimer) ClaimDay(ctx context.Context, task, localDate string) (bool, error) {
	key := fmt.Sprintf("claim:%s:%s", task, localDate)

	ok, err := c.client.SetNX(ctx, key, "1", c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", key, err)
	}
	return ok, nil
}

func (c *redisDayClaimer) ReleaseDay(ctx context.Context, task, localDate string) error {
	key := fmt.Sprintf("claim:%s:%s", task, localDate)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

func NewClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}
