package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "cli.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL || cfg.Timeout != DefaultTimeout || cfg.HistoryPath != DefaultHistoryPath {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.PrettyJSON == nil || !*cfg.PrettyJSON {
		t.Fatal("prettyJSON should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	body := "baseURL: http://analyzer:9000\ntimeout: 5s\nprettyJSON: false\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "http://analyzer:9000" || cfg.Timeout != 5*time.Second || *cfg.PrettyJSON {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.StatePath != DefaultStatePath {
		t.Fatalf("statePath should default, got %s", cfg.StatePath)
	}
}
