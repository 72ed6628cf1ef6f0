package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pennywise:report"

// RedisReportCache stores built reports in Redis keyed by user, period and day
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache creates a cache whose entries expire after ttl
func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server answers
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Generation returns the user's current cache generation, 0 before the first change
func (c *RedisReportCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached report, or nil when there is none
func (c *RedisReportCache) Get(ctx context.Context, key domain.ReportKey) (*domain.Report, error) {
	raw, err := c.client.Get(ctx, reportKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, nil
}

// Set stores a report until the TTL runs out
func (c *RedisReportCache) Set(ctx context.Context, key domain.ReportKey, report *domain.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return c.client.Set(ctx, reportKey(key), raw, c.ttl).Err()
}

// InvalidateUser advances the user's generation, then drops the entries that
// are now unreachable. The generation key has no TTL: a counter that restarted
// could match a report built before the restart.
func (c *RedisReportCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Incr(ctx, generationKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to advance report generation: %w", err)
	}

	iter := c.client.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func reportKey(key domain.ReportKey) string {
	return fmt.Sprintf("%s:%s:%d:%s:%s", keyPrefix, key.UserID, key.Generation, key.Period, key.Day.Format(time.DateOnly))
}

func userPattern(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:*", keyPrefix, userID)
}

func generationKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s-gen:%s", keyPrefix, userID)
}
