package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietddude/fhirgate/internal/core/config"
	"github.com/vietddude/fhirgate/internal/infra/redis"
	"github.com/vietddude/fhirgate/internal/infra/storage/postgres"
)

var resetCmd = &cobra.Command{
	Use:   "reset [document_id]",
	Short: "Forget a document so the next poll routes it again",
	Args:  cobra.ExactArgs(1),
	Run:   runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) {
	documentID := args[0]

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cfg.Redis.URL != "" {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = client.Close()
		}()

		if err := redis.NewProcessedSet(client).Forget(ctx, documentID); err != nil {
			slog.Error("Failed to forget processed marker", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = db.Close()
		}()

		// Direct SQL keeps the override simple for a CLI tool.
		if _, err := db.ExecContext(ctx, "DELETE FROM routing_records WHERE document_id = $1", documentID); err != nil {
			slog.Error("Failed to delete routing record", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Redis.URL == "" && cfg.Database.URL == "" {
		fmt.Println("No redis or database configured; nothing to reset.")
		return
	}

	fmt.Printf("Successfully reset %s\n", documentID)
}
