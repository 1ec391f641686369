package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/fhirgate/internal/bootstrap"
	"github.com/vietddude/fhirgate/internal/core/config"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write sample documents into the input directory",
	Run:   runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if err := bootstrap.EnsureDirs(cfg); err != nil {
		slog.Error("Failed to prepare directories", "error", err)
		os.Exit(1)
	}

	if err := bootstrap.WriteSamples(cfg.Source.InputDir); err != nil {
		slog.Error("Failed to write samples", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d sample documents to %s\n", len(bootstrap.Samples()), cfg.Source.InputDir)
}
