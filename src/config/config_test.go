package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.RateLimit.Max != 100 || cfg.RateLimit.Window.Duration != time.Second {
		t.Errorf("Unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if len(cfg.Bench.Sizes) == 0 {
		t.Error("Expected a default bench sweep")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for missing config, got: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected defaults, got port %s", cfg.Server.Port)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: \"9090\"\nrate_limit:\n  disabled: true\nbench:\n  seed: 7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090 from file, got %s", cfg.Server.Port)
	}
	if !cfg.RateLimit.Disabled {
		t.Error("Expected rate limiting disabled from file")
	}
	if cfg.Bench.Seed != 7 {
		t.Errorf("Expected bench seed 7, got %d", cfg.Bench.Seed)
	}
	// untouched keys keep their defaults
	if cfg.Metrics.MaxLatencies != 10000 {
		t.Errorf("Expected default metrics window, got %d", cfg.Metrics.MaxLatencies)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("PORT", "3000")
	t.Setenv("RATE_LIMIT_MAX", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Expected env PORT to win, got %s", cfg.Server.Port)
	}
	if cfg.RateLimit.Max != 5 {
		t.Errorf("Expected env rate limit 5, got %d", cfg.RateLimit.Max)
	}
}
