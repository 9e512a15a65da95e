package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cfanalyzer/internal/recommend"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	cfg, err := loadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != defaultHTTPAddr || cfg.Recommend.Limit != recommend.DefaultLimit {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Codeforces.Timeout != 15*time.Second {
		t.Fatalf("upstream timeout = %s", cfg.Codeforces.Timeout)
	}
	if cfg.Sessions.MaxSessions != defaultMaxSessions || cfg.Metrics.Path != defaultMetricsPath {
		t.Fatalf("unexpected session or metrics defaults %+v", cfg)
	}
}

func TestLoadAppConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9090"
codeforces:
  timeout: 5s
recommend:
  limit: 4
redis:
  addr: "127.0.0.1:6379"
rateLimit:
  ipMax: 30
`)
	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" || cfg.Codeforces.Timeout != 5*time.Second || cfg.Recommend.Limit != 4 {
		t.Fatalf("overrides not applied %+v", cfg)
	}
	if cfg.Rate.Window != time.Minute || cfg.Rate.IPMax != 30 {
		t.Fatalf("unexpected rate config %+v", cfg.Rate)
	}
}

func TestLoadAppConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"rate limit without redis", "rateLimit:\n  ipMax: 10\n", "requires redis"},
		{"negative limit", "recommend:\n  limit: -1\n", "recommend.limit"},
		{"bad yaml", "server: [", "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadAppConfig(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
