package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis кэш доступности поверх Redis — для развертываний в несколько
// инстансов, где in-memory кэш давал бы рассинхронизированные ответы.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis создает Redis-кэш с заданным TTL и префиксом ключей
func NewRedis(client *redis.Client, ttl time.Duration, prefix string) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		prefix: prefix,
	}
}

// Get возвращает закэшированное значение, если оно есть
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get: %w", err)
	}
	return data, true, nil
}

// Set сохраняет значение с TTL кэша
func (r *Redis) Set(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Invalidate удаляет все ключи кэша по префиксу
func (r *Redis) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("cache: redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache: redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
