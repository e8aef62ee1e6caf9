package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"telar/internal/config"
)

// LoadConfig reads a YAML config file. Used when CONFIG_FILE is set;
// otherwise config.Load picks everything up from the environment.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
