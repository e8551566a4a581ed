package cache

import (
	"aperturelab/internal/flag"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// flagCache implements flag.Store on a Redis hash per learner. Flags have
// no TTL: they outlive the session state.
type flagCache struct {
	client *redis.Client
}

func NewFlagCache(client *redis.Client) flag.Store {
	return &flagCache{client: client}
}

func (c *flagCache) flagsKey(learnerID string) string {
	return fmt.Sprintf("learner:%s:flags", learnerID)
}

func (c *flagCache) Get(ctx context.Context, learnerID, key string) (string, bool, error) {
	if err := flag.CheckKey(learnerID, key); err != nil {
		return "", false, err
	}
	v, err := c.client.HGet(ctx, c.flagsKey(learnerID), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *flagCache) Set(ctx context.Context, learnerID, key, value string) error {
	if err := flag.CheckKey(learnerID, key); err != nil {
		return err
	}
	return c.client.HSet(ctx, c.flagsKey(learnerID), key, value).Err()
}

func (c *flagCache) Delete(ctx context.Context, learnerID, key string) error {
	if err := flag.CheckKey(learnerID, key); err != nil {
		return err
	}
	return c.client.HDel(ctx, c.flagsKey(learnerID), key).Err()
}
