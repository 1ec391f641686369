// Package bootstrap prepares the gate's directories and can seed the
// input location with sample documents for smoke-testing a deployment.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vietddude/fhirgate/internal/core/config"
)

// EnsureDirs creates the input and sink directories.
func EnsureDirs(cfg *config.AppConfig) error {
	for _, dir := range []string{cfg.Source.InputDir, cfg.Sinks.ValidDir, cfg.Sinks.InvalidDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSamples drops the sample document set into the input directory.
// The set covers both sinks: two conformant resources, three with
// validation errors, and one that is not parseable at all.
func WriteSamples(inputDir string) error {
	for name, content := range Samples() {
		path := filepath.Join(inputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write sample %s: %w", name, err)
		}
	}
	return nil
}
