package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/fhirgate/internal/core/config"
	"github.com/vietddude/fhirgate/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent routing decisions",
	Run:   runStatus,
}

var statusLimit int

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "maximum number of records to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Database.URL == "" {
		fmt.Println("No database configured; routing records are kept in memory only.")
		return
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.QueryContext(ctx,
		"SELECT document_id, destination, passed, error_count, warning_count, routed_at FROM routing_records ORDER BY routed_at DESC LIMIT $1",
		statusLimit)
	if err != nil {
		slog.Error("Failed to query routing records", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rows.Close()
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "DOCUMENT\tDESTINATION\tPASSED\tERRORS\tWARNINGS\tROUTED")

	for rows.Next() {
		var documentID, destination string
		var passed bool
		var errorCount, warningCount int
		var routedAt time.Time
		if err := rows.Scan(&documentID, &destination, &passed, &errorCount, &warningCount, &routedAt); err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%d\t%s\n",
			documentID, destination, passed, errorCount, warningCount, routedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}
