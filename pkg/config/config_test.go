package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Pool.Workers != 3 {
		t.Errorf("Pool.Workers = %d, want 3", cfg.Pool.Workers)
	}
	if cfg.Server.Port != 7878 {
		t.Errorf("Server.Port = %d, want 7878", cfg.Server.Port)
	}
	if cfg.Tracing.Exporter != "none" {
		t.Errorf("Tracing.Exporter = %q, want \"none\"", cfg.Tracing.Exporter)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spool.yaml")

	content := `
server:
  address: 0.0.0.0
  port: 8080
  sleep_seconds: 1
pool:
  workers: 7
metrics:
  enabled: false
tracing:
  exporter: stdout
  sample_rate: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Address != "0.0.0.0" {
		t.Errorf("Server.Address = %q, want 0.0.0.0", cfg.Server.Address)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Pool.Workers != 7 {
		t.Errorf("Pool.Workers = %d, want 7", cfg.Pool.Workers)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Tracing.Exporter != "stdout" {
		t.Errorf("Tracing.Exporter = %q, want stdout", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("Tracing.SampleRate = %v, want 0.5", cfg.Tracing.SampleRate)
	}

	// Unset fields keep their defaults.
	if cfg.Server.PagesDir != "pages" {
		t.Errorf("Server.PagesDir = %q, want pages", cfg.Server.PagesDir)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPOOL_POOL_WORKERS", "12")
	t.Setenv("SPOOL_SERVER_PORT", "9999")
	t.Setenv("SPOOL_METRICS_ENABLED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pool.Workers != 12 {
		t.Errorf("Pool.Workers = %d, want 12", cfg.Pool.Workers)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Pool.Workers = 0 }},
		{"negative sleep", func(c *Config) { c.Server.SleepSeconds = -1 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown exporter", func(c *Config) { c.Tracing.Exporter = "graphite" }},
		{"sample rate above 1", func(c *Config) { c.Tracing.SampleRate = 1.5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Load() on a missing file = nil, want error")
	}
}
