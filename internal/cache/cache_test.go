package cache_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/cache"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/redis/go-redis/v9"
)

func TestKey(t *testing.T) {
	opts := calculator.DefaultOptions()
	base := calculator.Request{Mode: calculator.ModeSymmetric, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 50}

	key := cache.Key(base, opts)
	if key != "arbcalc:solve:symmetric:2.5:2:10:50:1e-09:0" {
		t.Errorf("key = %s", key)
	}

	if cache.Key(base, opts) != key {
		t.Error("key should be deterministic")
	}

	variants := []calculator.Request{
		{Mode: calculator.ModeBiased, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 50},
		{Mode: calculator.ModeSymmetric, Odds1: 2.51, Odds2: 2.0, TargetProfit: 10, Bias: 50},
		{Mode: calculator.ModeSymmetric, Odds1: 2.5, Odds2: 2.0, TargetProfit: 10, Bias: 49.9},
	}
	for _, v := range variants {
		if cache.Key(v, opts) == key {
			t.Errorf("variant %+v collides with base key", v)
		}
	}

	if cache.Key(base, calculator.Options{Tolerance: 1e-6, MaxIterations: 1000}) == key {
		t.Error("solver options must be part of the key")
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	if err == nil || !strings.Contains(err.Error(), "parse Redis URL") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestRedisStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	store := cache.NewRedisStore(client, time.Minute)
	ctx := context.Background()

	if _, err := store.Get(ctx, "k"); err == nil {
		t.Error("expected error from unreachable Redis")
	}
}
