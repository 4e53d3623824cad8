package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"itinerary-service/internal/platform/obs"
	"itinerary-service/internal/ports"
)

const travelKeyPrefix = "travel:"

// RedisDistanceCache stores travel results in one hash per origin, field per
// destination, with value "meters:seconds". The hash expires ttl after its
// last write.
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis client: parse url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis client: ping: %w", err)
	}
	return client, nil
}

func originKey(origin string) string {
	return travelKeyPrefix + origin
}

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "travel.cache.redis.GetMany")(&err)

	if c.client == nil {
		return nil, errors.New("redis travel cache: client is nil")
	}
	if origin == "" {
		return nil, errors.New("get redis travel cache: origin must not be empty")
	}

	uniq := uniqueNames(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	vals, err := c.client.HMGet(ctx, originKey(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis travel cache: hmget %q: %w", origin, err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decodeResult(s)
		if err != nil {
			// A corrupt entry is treated as a miss and overwritten on the next put.
			continue
		}
		out[uniq[i]] = r
	}

	return out, nil
}

func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "travel.cache.redis.PutMany")(&err)

	if c.client == nil {
		return errors.New("redis travel cache: client is nil")
	}
	if origin == "" {
		return errors.New("put redis travel cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]any, len(results))
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("put redis travel cache: empty destination key")
		}
		fields[dest] = encodeResult(r)
	}

	key := originKey(origin)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put redis travel cache: %q: %w", origin, err)
	}

	return nil
}

func encodeResult(r ports.DistanceResult) string {
	return strconv.Itoa(r.DistanceMeters) + ":" + strconv.Itoa(r.DurationSeconds)
}

func decodeResult(s string) (ports.DistanceResult, error) {
	m, sec, ok := strings.Cut(s, ":")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("decode travel result %q: missing separator", s)
	}

	meters, err := strconv.Atoi(m)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode travel result %q: %w", s, err)
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("decode travel result %q: %w", s, err)
	}

	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, nil
}
