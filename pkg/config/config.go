// Package config loads spoold configuration from YAML with environment
// variable overrides. Environment variables use the SPOOL_ prefix, e.g.
// SPOOL_SERVER_PORT or SPOOL_POOL_WORKERS.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the full spoold configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Pool    PoolConfig    `yaml:"pool"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`

	// PagesDir holds the static pages (index.html, sleep.html, 404.html).
	PagesDir string `yaml:"pages_dir"`

	// SleepSeconds is the stall applied to GET /sleep.
	SleepSeconds int `yaml:"sleep_seconds"`

	// MaxRequests stops the server after serving this many connections.
	// 0 means serve forever.
	MaxRequests int `yaml:"max_requests"`
}

// PoolConfig configures the worker pool behind the server.
type PoolConfig struct {
	Workers int `yaml:"workers"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Exporter is one of "jaeger", "zipkin", "stdout", "none".
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	Environment string  `yaml:"environment"`
	SampleRate  float64 `yaml:"sample_rate"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:      "127.0.0.1",
			Port:         7878,
			PagesDir:     "pages",
			SleepSeconds: 5,
			MaxRequests:  0,
		},
		Pool: PoolConfig{
			Workers: 3,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9090",
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			Environment: "development",
			SampleRate:  1.0,
		},
	}
}

// Load reads a YAML config file, applies SPOOL_* environment overrides and
// validates the result. An empty path yields the defaults (plus overrides).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Pool.Workers < 1 {
		return fmt.Errorf("config: pool.workers must be at least 1, got %d", c.Pool.Workers)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	if c.Server.SleepSeconds < 0 {
		return fmt.Errorf("config: server.sleep_seconds must not be negative, got %d", c.Server.SleepSeconds)
	}
	if c.Server.MaxRequests < 0 {
		return fmt.Errorf("config: server.max_requests must not be negative, got %d", c.Server.MaxRequests)
	}
	switch c.Tracing.Exporter {
	case "jaeger", "zipkin", "stdout", "none", "":
	default:
		return fmt.Errorf("config: unsupported tracing exporter %q", c.Tracing.Exporter)
	}
	if c.Tracing.SampleRate < 0.0 || c.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("config: tracing.sample_rate must be between 0.0 and 1.0")
	}
	return nil
}

func (c *Config) applyEnv() {
	envString("SPOOL_SERVER_ADDRESS", &c.Server.Address)
	envInt("SPOOL_SERVER_PORT", &c.Server.Port)
	envString("SPOOL_SERVER_PAGES_DIR", &c.Server.PagesDir)
	envInt("SPOOL_SERVER_SLEEP_SECONDS", &c.Server.SleepSeconds)
	envInt("SPOOL_SERVER_MAX_REQUESTS", &c.Server.MaxRequests)

	envInt("SPOOL_POOL_WORKERS", &c.Pool.Workers)

	envBool("SPOOL_METRICS_ENABLED", &c.Metrics.Enabled)
	envString("SPOOL_METRICS_ADDR", &c.Metrics.Addr)

	envString("SPOOL_TRACING_EXPORTER", &c.Tracing.Exporter)
	envString("SPOOL_TRACING_ENDPOINT", &c.Tracing.Endpoint)
	envString("SPOOL_TRACING_ENVIRONMENT", &c.Tracing.Environment)
	envFloat("SPOOL_TRACING_SAMPLE_RATE", &c.Tracing.SampleRate)
}

func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

func envFloat(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}
