package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const prefKeyPrefix = "pref:"

// RedisRepository stores preferences in Redis so multiple instances share
// one preference map.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a Redis-backed preference store.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Get returns the preferred language for an address, or ErrNotFound.
func (r *RedisRepository) Get(ctx context.Context, address string) (string, error) {
	lang, err := r.client.Get(ctx, prefKeyPrefix+address).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get preference: %w", err)
	}
	return lang, nil
}

// Set stores the preferred language for an address. Preferences carry no
// TTL; last write wins.
func (r *RedisRepository) Set(ctx context.Context, address, language string) error {
	if err := r.client.Set(ctx, prefKeyPrefix+address, language, 0).Err(); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

// List returns all known address -> language mappings.
func (r *RedisRepository) List(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)

	iter := r.client.Scan(ctx, 0, prefKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		lang, err := r.client.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("list preferences: %w", err)
		}
		out[strings.TrimPrefix(key, prefKeyPrefix)] = lang
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan preferences: %w", err)
	}

	return out, nil
}
