// Package cache keeps short lived analysis results and rate limit counters in
// Redis. A nil client turns every operation into a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var RedisClient *redis.Client

// ConnectRedis opens the shared client. An empty URL leaves caching disabled.
func ConnectRedis(ctx context.Context, redisURL string) error {
	if redisURL == "" {
		log.Warn("⚠️ [CACHE] REDIS_URL not set, caching and rate limiting disabled")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	res, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	RedisClient = client
	log.WithField("ping", res).Info("✅ [CACHE] Connected to Redis")
	return nil
}

// Close releases the shared client.
func Close() {
	if RedisClient != nil {
		RedisClient.Close()
	}
}

// Store reads and writes JSON values under a key prefix.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore wraps client. client may be nil.
func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Enabled tells whether the store is backed by Redis.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}

// Get decodes the cached value into dest. It reports false on a miss or when
// the store is disabled.
func (s *Store) Get(ctx context.Context, id string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return true, nil
}

// Set stores value for ttl.
func (s *Store) Set(ctx context.Context, id string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", id, err)
	}
	return nil
}

// Delete drops a cached value.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

// Counter is the state of a fixed window counter after one hit.
type Counter struct {
	Count   int64
	ResetAt time.Time
}

// Hit increments the counter for id and starts its window on the first hit.
// A counter found without an expiry gets a fresh window, so a failed EXPIRE
// cannot lock a caller out for good.
func (s *Store) Hit(ctx context.Context, id string, window time.Duration) (Counter, error) {
	if !s.Enabled() {
		return Counter{}, nil
	}
	key := s.key(id)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	}); err != nil {
		return Counter{}, fmt.Errorf("rate counter %s: %w", id, err)
	}

	now := time.Now()
	if remaining := ttl.Val(); remaining > 0 {
		return Counter{Count: incr.Val(), ResetAt: now.Add(remaining)}, nil
	}
	if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
		return Counter{}, fmt.Errorf("rate window %s: %w", id, err)
	}
	return Counter{Count: incr.Val(), ResetAt: now.Add(window)}, nil
}
