package control

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietddude/fhirgate/internal/bootstrap"
	"github.com/vietddude/fhirgate/internal/core/config"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	root := t.TempDir()
	return &config.AppConfig{
		Server: config.ServerConfig{Port: 0},
		Source: config.SourceConfig{
			InputDir:     filepath.Join(root, "input"),
			Pattern:      "*.json",
			PollInterval: 50 * time.Millisecond,
		},
		Sinks: config.SinkConfig{
			ValidDir:   filepath.Join(root, "valid"),
			InvalidDir: filepath.Join(root, "invalid"),
		},
		Pipeline: config.PipelineConfig{Workers: 1},
	}
}

func TestGate_Lifecycle(t *testing.T) {
	cfg := testConfig(t)
	if err := bootstrap.EnsureDirs(cfg); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	g, err := NewGate(cfg)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	if g.pipeline == nil {
		t.Fatal("pipeline is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start returns immediately; pipeline and health server run in
	// goroutines.
	if err := g.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if err := g.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestGate_RoutesSeededDocuments(t *testing.T) {
	cfg := testConfig(t)
	if err := bootstrap.EnsureDirs(cfg); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	if err := bootstrap.WriteSamples(cfg.Source.InputDir); err != nil {
		t.Fatalf("WriteSamples failed: %v", err)
	}

	g, err := NewGate(cfg)
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := g.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// The sample set splits two valid / four invalid. Wait for every
	// document to reach a sink.
	total := len(bootstrap.Samples())
	deadline := time.Now().Add(5 * time.Second)
	for {
		routed := countDocs(t, cfg.Sinks.ValidDir) + countDocs(t, cfg.Sinks.InvalidDir)
		if routed == total {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d routed documents, got %d", total, routed)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if got := countDocs(t, cfg.Sinks.ValidDir); got != 2 {
		t.Errorf("expected 2 valid documents, got %d", got)
	}
	if got := countDocs(t, cfg.Sinks.InvalidDir); got != 4 {
		t.Errorf("expected 4 invalid documents, got %d", got)
	}

	if err := g.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

// countDocs counts routed documents in a sink directory, ignoring the
// companion diagnostic files.
func countDocs(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	n := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" && filepath.Ext(nameWithoutExt(e.Name())) != ".diag" {
			n++
		}
	}
	return n
}

func nameWithoutExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
