package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// keyPrefix отделяет ключи сервиса от других данных в общем Redis
const keyPrefix = "kuiz:"

// CacheRepo реализует repository.CacheRepository
type CacheRepo struct {
	client  redis.UniversalClient
	ctx     context.Context
	timeout time.Duration
}

// NewCacheRepo создает новый репозиторий кеша
func NewCacheRepo(client redis.UniversalClient) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{
		client:  client,
		ctx:     context.Background(),
		timeout: 2 * time.Second,
	}, nil
}

func (r *CacheRepo) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.ctx, r.timeout)
}

// SetJSON сохраняет структуру JSON в кеше
func (r *CacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := r.withTimeout()
	defer cancel()
	return r.client.Set(ctx, keyPrefix+key, data, expiration).Err()
}

// GetJSON получает структуру JSON из кеша
func (r *CacheRepo) GetJSON(key string, dest interface{}) error {
	ctx, cancel := r.withTimeout()
	defer cancel()
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Delete удаляет ключи из кеша
func (r *CacheRepo) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = keyPrefix + key
	}
	ctx, cancel := r.withTimeout()
	defer cancel()
	return r.client.Del(ctx, prefixed...).Err()
}
