package service

import (
	"context"
	"testing"
	"time"

	"cfanalyzer/internal/common/cache"
	appErr "cfanalyzer/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newService(t *testing.T) (*RateLimitService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	if err != nil {
		t.Fatalf("new redis cache failed: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return NewRateLimitService(rc, time.Minute, time.Second), mr
}

func TestRateLimitServiceAllow(t *testing.T) {
	svc, _ := newService(t)
	key := "cfanalyzer:rate:ip:test"

	for i := 0; i < 2; i++ {
		if err := svc.Allow(context.Background(), key, 2, time.Minute); err != nil {
			t.Fatalf("unexpected error on attempt %d: %v", i+1, err)
		}
	}

	err := svc.Allow(context.Background(), key, 2, time.Minute)
	if appErr.GetCode(err) != appErr.TooManyRequests {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestRateLimitServiceWindowResets(t *testing.T) {
	svc, mr := newService(t)
	key := "cfanalyzer:rate:ip:window"

	if err := svc.Allow(context.Background(), key, 1, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Allow(context.Background(), key, 1, time.Minute); err == nil {
		t.Fatal("expected second call to be limited")
	}
	mr.FastForward(time.Minute + time.Second)
	if err := svc.Allow(context.Background(), key, 1, time.Minute); err != nil {
		t.Fatalf("window should have reset: %v", err)
	}
}

func TestRateLimitServiceExpireRefresh(t *testing.T) {
	svc, mr := newService(t)
	key := "cfanalyzer:rate:ip:ttl"

	if err := mr.Set(key, "1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Allow(context.Background(), key, 5, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected ttl refresh, got %v", ttl)
	}
}

func TestRateLimitServiceCacheUnavailable(t *testing.T) {
	svc := NewRateLimitService(nil, time.Second, time.Second)
	err := svc.Allow(context.Background(), "k", 1, time.Second)
	if appErr.GetCode(err) != appErr.ServiceUnavailable {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestRateLimitServiceBackendError(t *testing.T) {
	svc, mr := newService(t)
	mr.Close()
	err := svc.Allow(context.Background(), "k", 1, time.Second)
	if appErr.GetCode(err) != appErr.CacheError {
		t.Fatalf("expected cache error, got %v", err)
	}
}
