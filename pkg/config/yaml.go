package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadYAML unmarshals a YAML file over the target configuration.
func loadYAML(path string, target *Config) error {
	// #nosec G304 -- path comes from the operator's -config flag.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("config: failed to unmarshal %s: %w", path, err)
	}

	return nil
}
