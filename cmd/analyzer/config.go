package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"cfanalyzer/internal/codeforces"
	"cfanalyzer/internal/common/cache"
	"cfanalyzer/internal/recommend"
	"cfanalyzer/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
	defaultRequestTimeout  = 45 * time.Second

	defaultMaxSessions = 10000
	defaultSessionTTL  = 30 * time.Minute

	defaultMetricsPath = "/metrics"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	MaxHeaderBytes int           `yaml:"maxHeaderBytes"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// RateLimitConfig holds inbound per-IP limits. Requires redis.
type RateLimitConfig struct {
	Window time.Duration `yaml:"window"`
	IPMax  int           `yaml:"ipMax"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	Enabled          bool          `yaml:"enabled"`
	AllowedOrigins   []string      `yaml:"allowedOrigins"`
	AllowedMethods   []string      `yaml:"allowedMethods"`
	AllowedHeaders   []string      `yaml:"allowedHeaders"`
	ExposedHeaders   []string      `yaml:"exposedHeaders"`
	AllowCredentials bool          `yaml:"allowCredentials"`
	MaxAge           time.Duration `yaml:"maxAge"`
}

// SessionConfig bounds the per-client boards.
type SessionConfig struct {
	MaxSessions int           `yaml:"maxSessions"`
	TTL         time.Duration `yaml:"ttl"`
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	Limit int `yaml:"limit"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AppConfig holds the analyzer configuration.
type AppConfig struct {
	Server     ServerConfig            `yaml:"server"`
	Logger     logger.Config           `yaml:"logger"`
	Codeforces codeforces.Config       `yaml:"codeforces"`
	Catalog    recommend.CatalogConfig `yaml:"catalog"`
	Recommend  RecommendConfig         `yaml:"recommend"`
	Redis      cache.RedisConfig       `yaml:"redis"` // optional, empty addr disables
	Rate       RateLimitConfig         `yaml:"rateLimit"`
	CORS       CORSConfig              `yaml:"cors"`
	Sessions   SessionConfig           `yaml:"sessions"`
	Metrics    MetricsConfig           `yaml:"metrics"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

// loadAppConfig reads path; a missing file yields the defaults.
func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = defaultMaxHeaderBytes
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}

	cfg.Codeforces.ApplyDefaults()
	cfg.Catalog.ApplyDefaults()
	if cfg.Catalog.MemoryTTL < 0 {
		return fmt.Errorf("catalog.memoryTTL must not be negative")
	}

	if cfg.Recommend.Limit == 0 {
		cfg.Recommend.Limit = recommend.DefaultLimit
	}
	if cfg.Recommend.Limit < 0 {
		return fmt.Errorf("recommend.limit must be positive")
	}

	if cfg.Redis.Addr != "" {
		cfg.Redis.ApplyDefaults()
	}
	if cfg.Rate.Window == 0 {
		cfg.Rate.Window = time.Minute
	}
	if cfg.Rate.IPMax > 0 && cfg.Redis.Addr == "" {
		return fmt.Errorf("rateLimit.ipMax requires redis.addr")
	}

	if cfg.Sessions.MaxSessions == 0 {
		cfg.Sessions.MaxSessions = defaultMaxSessions
	}
	if cfg.Sessions.TTL == 0 {
		cfg.Sessions.TTL = defaultSessionTTL
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
	return nil
}
