package otel

import (
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		if err := DefaultConfig().Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("empty service name", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ServiceName = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("sample rate out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SampleRate = 2.0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})
}

func TestNewExporter(t *testing.T) {
	for _, kind := range []string{"stdout", "none", ""} {
		if _, err := newExporter(kind, ""); err != nil {
			t.Errorf("newExporter(%q) error = %v", kind, err)
		}
	}

	if _, err := newExporter("graphite", ""); err == nil {
		t.Error("newExporter(graphite) = nil error, want error")
	}
}

func TestTracerBeforeInitialize(t *testing.T) {
	// Must hand back a usable noop tracer, never nil.
	if Tracer() == nil {
		t.Fatal("Tracer() = nil")
	}
}
