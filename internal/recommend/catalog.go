package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cfanalyzer/internal/codeforces"
	"cfanalyzer/internal/common/cache"
	appErr "cfanalyzer/pkg/errors"
	"cfanalyzer/pkg/utils/logger"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCatalogKey  = "cfanalyzer:catalog:problems"
	defaultRedisTTL    = 6 * time.Hour
	defaultLoadTimeout = 30 * time.Second
)

// ProblemsetFetcher loads the upstream problemset.
type ProblemsetFetcher interface {
	Problemset(ctx context.Context) (codeforces.Problemset, error)
}

// CatalogConfig controls catalog caching.
type CatalogConfig struct {
	MemoryTTL time.Duration `yaml:"memoryTTL"` // 0 keeps the catalog for the process lifetime
	RedisTTL  time.Duration `yaml:"redisTTL"`
	RedisKey  string        `yaml:"redisKey"`

	// LoadTimeout bounds a shared load; it does not follow any caller's context.
	LoadTimeout time.Duration `yaml:"loadTimeout"`
}

// ApplyDefaults fills zero values.
func (c *CatalogConfig) ApplyDefaults() {
	if c.RedisTTL <= 0 {
		c.RedisTTL = defaultRedisTTL
	}
	if c.RedisKey == "" {
		c.RedisKey = defaultCatalogKey
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = defaultLoadTimeout
	}
}

// Catalog is the shared problem catalog. Concurrent cold loads share one
// upstream call; a Redis cache, when set, is consulted before upstream.
type Catalog struct {
	fetcher ProblemsetFetcher
	shared  cache.BasicOps
	cfg     CatalogConfig
	now     func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	problems []codeforces.Problem
	loadedAt time.Time

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCatalog creates a catalog. shared may be nil.
func NewCatalog(fetcher ProblemsetFetcher, shared cache.BasicOps, cfg CatalogConfig) (*Catalog, error) {
	cfg.ApplyDefaults()
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder failed: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder failed: %w", err)
	}
	return &Catalog{
		fetcher: fetcher,
		shared:  shared,
		cfg:     cfg,
		now:     time.Now,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Problems returns the catalog, loading it on first use or after MemoryTTL.
func (c *Catalog) Problems(ctx context.Context) ([]codeforces.Problem, error) {
	if problems, ok := c.cached(); ok {
		return problems, nil
	}

	// The load is shared by every waiter, so it runs detached from the caller
	// that started it. A caller whose context ends stops waiting on its own.
	ch := c.group.DoChan(c.cfg.RedisKey, func() (interface{}, error) {
		if problems, ok := c.cached(); ok {
			return problems, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.LoadTimeout)
		defer cancel()
		problems, err := c.load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.problems = problems
		c.loadedAt = c.now()
		c.mu.Unlock()
		logger.Info(loadCtx, "problem catalog loaded", zap.Int("problems", len(problems)))
		return problems, nil
	})

	select {
	case <-ctx.Done():
		return nil, appErr.Wrap(ctx.Err(), appErr.Timeout).WithDetail("stage", "catalog")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]codeforces.Problem), nil
	}
}

// Ready reports whether a catalog is held in memory.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.problems != nil
}

// Invalidate drops the in-memory and shared copies.
func (c *Catalog) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.problems = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
	if c.shared == nil {
		return nil
	}
	if err := c.shared.Del(ctx, c.cfg.RedisKey); err != nil {
		return appErr.Wrapf(err, appErr.CacheError, "invalidate catalog cache failed")
	}
	return nil
}

func (c *Catalog) cached() ([]codeforces.Problem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.problems == nil {
		return nil, false
	}
	if c.cfg.MemoryTTL > 0 && c.now().Sub(c.loadedAt) > c.cfg.MemoryTTL {
		return nil, false
	}
	return c.problems, true
}

func (c *Catalog) load(ctx context.Context) ([]codeforces.Problem, error) {
	codec := cache.Codec[[]codeforces.Problem]{Encode: c.encode, Decode: c.decode}
	isEmpty := func(ps []codeforces.Problem) bool { return len(ps) == 0 }
	problems, err := cache.GetWithCached(ctx, c.shared, c.cfg.RedisKey, c.cfg.RedisTTL, isEmpty, codec,
		func(ctx context.Context) ([]codeforces.Problem, error) {
			ps, err := c.fetcher.Problemset(ctx)
			if err != nil {
				return nil, err
			}
			return ps.Problems, nil
		})
	if err != nil {
		if appErr.Is(err, appErr.CatalogUnavailable) {
			return nil, err
		}
		return nil, appErr.Wrap(err, appErr.CatalogUnavailable)
	}
	if problems == nil {
		problems = []codeforces.Problem{}
	}
	return problems, nil
}

func (c *Catalog) encode(problems []codeforces.Problem) (string, error) {
	raw, err := json.Marshal(problems)
	if err != nil {
		return "", err
	}
	return string(c.encoder.EncodeAll(raw, nil)), nil
}

func (c *Catalog) decode(s string) ([]codeforces.Problem, error) {
	raw, err := c.decoder.DecodeAll([]byte(s), nil)
	if err != nil {
		return nil, err
	}
	var problems []codeforces.Problem
	if err := json.Unmarshal(raw, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}
