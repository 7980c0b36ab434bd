package slotstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each slot as one string key. Several server processes may
// share it; their full-slot writes are last-write-wins.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisStore) key(slot string) string {
	return r.prefix + slot
}

func (r *RedisStore) Get(ctx context.Context, slot string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get slot from redis: %w", err)
	}
	return data, true, nil
}

func (r *RedisStore) Set(ctx context.Context, slot string, data []byte) error {
	if err := r.client.Set(ctx, r.key(slot), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set slot in redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, r.key(slot)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot from redis: %w", err)
	}
	return nil
}
