package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"moviecatalog/catalogservice/internal/domain"
)

const redisCachePrefix = "catalog:omdb:id:"

// RedisDetailCache keeps hydrated records in Redis as JSON.
type RedisDetailCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDetailCache(client *redis.Client, ttl time.Duration) *RedisDetailCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDetailCache{client: client, ttl: ttl}
}

func (r *RedisDetailCache) Get(ctx context.Context, id string) (domain.MovieRecord, bool, error) {
	data, err := r.client.Get(ctx, redisCachePrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.MovieRecord{}, false, nil
		}
		return domain.MovieRecord{}, false, err
	}
	var record domain.MovieRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.MovieRecord{}, false, err
	}
	if record.ID != id {
		return domain.MovieRecord{}, false, nil
	}
	return record, true, nil
}

func (r *RedisDetailCache) Set(ctx context.Context, record domain.MovieRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisCachePrefix+record.ID, data, r.ttl).Err()
}

func (r *RedisDetailCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
