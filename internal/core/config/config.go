package config

import (
	"time"

	redisclient "github.com/vietddude/fhirgate/internal/infra/redis"
	"github.com/vietddude/fhirgate/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Source   SourceConfig       `yaml:"source"`
	Sinks    SinkConfig         `yaml:"sinks"`
	Pipeline PipelineConfig     `yaml:"pipeline"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SourceConfig holds settings for the watched input location.
type SourceConfig struct {
	InputDir     string        `yaml:"input_dir"     mapstructure:"input_dir"`
	Pattern      string        `yaml:"pattern"       mapstructure:"pattern"` // glob matched against item names
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	// RemoveAfterRoute deletes the source item after a terminal routing.
	// Off by default: the source is treated as non-consuming and the
	// processed set carries idempotency.
	RemoveAfterRoute bool `yaml:"remove_after_route" mapstructure:"remove_after_route"`
}

// SinkConfig holds the terminal destinations for routed documents.
type SinkConfig struct {
	ValidDir   string `yaml:"valid_dir"   mapstructure:"valid_dir"`
	InvalidDir string `yaml:"invalid_dir" mapstructure:"invalid_dir"`
}

// PipelineConfig holds dispatch settings.
type PipelineConfig struct {
	// Workers bounds concurrent document processing. 1 is the baseline
	// sequential model.
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
