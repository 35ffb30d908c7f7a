package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"vision-app/internal/domain"
)

// RedisKV реализует domain.KV через Redis. Значения хранятся без TTL:
// это долговременное клиентское хранилище, а не кэш.
type RedisKV struct {
	client *redis.Client
}

// NewRedis создаёт хранилище.
func NewRedis(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

var _ domain.KV = (*RedisKV)(nil)

// Get возвращает значение ключа.
func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

// Set задаёт значение.
func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// Del удаляет ключ.
func (s *RedisKV) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
