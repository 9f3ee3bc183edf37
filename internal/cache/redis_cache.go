package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"kasirlaundry/backend/internal/domain"
)

const generationKey = "laundry:report:gen"

// RedisReportCache namespaces report keys under a generation counter.
// Invalidation bumps the counter, orphaning every previous key; orphans expire
// via their TTL rather than an explicit scan-and-delete.
type RedisReportCache struct {
	client *redis.Client
}

func NewRedisReportCache(addr string, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) Get(ctx context.Context, key string) (*domain.PeriodReport, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}

	val, err := c.client.Get(ctx, c.reportKey(gen, key)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var reportValue domain.PeriodReport
	if err := json.Unmarshal([]byte(val), &reportValue); err != nil {
		return nil, false, err
	}
	return &reportValue, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value *domain.PeriodReport, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.reportKey(gen, key), payload, ttl).Err()
}

func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

func (c *RedisReportCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gen, nil
}

func (c *RedisReportCache) reportKey(gen int64, key string) string {
	return fmt.Sprintf("laundry:report:%d:%s", gen, key)
}
