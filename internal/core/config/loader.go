package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Source.InputDir == "" {
		cfg.Source.InputDir = "data/input"
	}
	if cfg.Source.Pattern == "" {
		cfg.Source.Pattern = "*.json"
	}
	if cfg.Source.PollInterval == 0 {
		cfg.Source.PollInterval = 5 * time.Second
	}
	if cfg.Sinks.ValidDir == "" {
		cfg.Sinks.ValidDir = "data/valid"
	}
	if cfg.Sinks.InvalidDir == "" {
		cfg.Sinks.InvalidDir = "data/invalid"
	}
	if cfg.Pipeline.Workers <= 0 {
		cfg.Pipeline.Workers = 1
	}

	return &cfg, nil
}
