// Package cache memoises solve responses in Redis. Results are a pure
// function of their inputs, so an entry never needs invalidation beyond its TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "arbcalc:solve"

// Store looks up and saves solve responses
type Store interface {
	Get(ctx context.Context, key string) (*models.SolveResponse, error)
	Set(ctx context.Context, key string, resp models.SolveResponse) error
}

// Key derives the cache key for a request under the given solver options
func Key(req calculator.Request, opts calculator.Options) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s:%s:%d",
		keyPrefix,
		req.Mode,
		formatFloat(req.Odds1),
		formatFloat(req.Odds2),
		formatFloat(req.TargetProfit),
		formatFloat(req.Bias),
		formatFloat(opts.Tolerance),
		opts.MaxIterations,
	)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RedisStore implements Store on a Redis client
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached response, or nil on a miss
func (s *RedisStore) Get(ctx context.Context, key string) (*models.SolveResponse, error) {
	data, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var resp models.SolveResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return &resp, nil
}

// Set stores a response with the configured TTL
func (s *RedisStore) Set(ctx context.Context, key string, resp models.SolveResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

// Connect parses a Redis URL and verifies the connection
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
