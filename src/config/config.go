// Package config loads service configuration from an optional YAML file,
// with environment variables taking precedence for the operational knobs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets YAML carry human-readable durations like "500ms" or "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

type Config struct {
	Server struct {
		Port            string   `yaml:"port"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	RateLimit struct {
		Disabled bool     `yaml:"disabled"`
		Max      int      `yaml:"max"`
		Window   Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	Metrics struct {
		MaxLatencies int `yaml:"max_latencies"`
	} `yaml:"metrics"`

	Bench struct {
		Sizes       []int `yaml:"sizes"`
		Repetitions int   `yaml:"repetitions"`
		Seed        int64 `yaml:"seed"`
	} `yaml:"bench"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = Duration{10 * time.Second}
	cfg.RateLimit.Max = 100
	cfg.RateLimit.Window = Duration{time.Second}
	cfg.Metrics.MaxLatencies = 10000
	cfg.Bench.Sizes = []int{10, 50, 100, 500, 1000}
	cfg.Bench.Repetitions = 20
	cfg.Bench.Seed = 42
	return cfg
}

// Load reads the YAML file at path (if it exists) over the defaults, then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.Server.ShutdownTimeout = Duration{parsed}
		}
	}
	if os.Getenv("RATE_LIMIT_DISABLED") == "1" {
		c.RateLimit.Disabled = true
	}
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.RateLimit.Max = parsed
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.RateLimit.Window = Duration{parsed}
		}
	}
	if v := os.Getenv("METRICS_MAX_LATENCIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Metrics.MaxLatencies = parsed
		}
	}
}
