package cache

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// Codec converts values to and from their cached string form.
type Codec[T any] struct {
	Encode func(T) (string, error)
	Decode func(string) (T, error)
}

// GetWithCached implements the cache-aside pattern.
// A hit that fails to decode is treated as a miss and overwritten.
// Values for which isEmpty returns true are returned but never stored, so an
// upstream hiccup that yields an empty result is retried on the next call.
// Cache read/write failures never fail the call; fn's error does.
//
// Example:
//
//	problems, err := GetWithCached(ctx, c, "cf:problemset", 6*time.Hour,
//		func(ps []Problem) bool { return len(ps) == 0 },
//		codec,
//		func(ctx context.Context) ([]Problem, error) { return client.Problemset(ctx) })
func GetWithCached[T any](
	ctx context.Context,
	cache BasicOps,
	key string,
	ttl time.Duration,
	isEmpty func(T) bool,
	codec Codec[T],
	fn func(context.Context) (T, error),
) (T, error) {
	if cache != nil {
		if cached, err := cache.Get(ctx, key); err == nil && cached != "" {
			if result, err := codec.Decode(cached); err == nil {
				return result, nil
			}
		}
	}

	data, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if cache == nil || isEmpty(data) {
		return data, nil
	}

	if encoded, err := codec.Encode(data); err == nil {
		_ = cache.Set(ctx, key, encoded, JitterTTL(ttl))
	}
	return data, nil
}

// JitterTTL shortens ttl by up to 10% so entries written together do not expire together.
func JitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	maxJitter := int64(ttl / 10)
	if maxJitter <= 0 {
		return ttl
	}
	n, err := rand.Int(rand.Reader, big.NewInt(maxJitter+1))
	if err != nil {
		return ttl
	}
	return ttl - time.Duration(n.Int64())
}
