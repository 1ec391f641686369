package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/fhirgate/internal/core/config"
	"github.com/vietddude/fhirgate/internal/health"
	"github.com/vietddude/fhirgate/internal/infra/redis"
	"github.com/vietddude/fhirgate/internal/infra/storage"
	"github.com/vietddude/fhirgate/internal/infra/storage/memory"
	"github.com/vietddude/fhirgate/internal/infra/storage/postgres"
	"github.com/vietddude/fhirgate/internal/pipeline"
	"github.com/vietddude/fhirgate/internal/processed"
	"github.com/vietddude/fhirgate/internal/recovery"
	"github.com/vietddude/fhirgate/internal/route"
	"github.com/vietddude/fhirgate/internal/source"
	"github.com/vietddude/fhirgate/internal/validate"
)

// Gate is the main application struct that manages the validation
// pipeline lifecycle.
type Gate struct {
	cfg          *config.AppConfig
	pipeline     *pipeline.Pipeline
	healthMon    *health.Monitor
	healthServer *health.Server
	db           *postgres.DB
	redisClient  *redis.Client
	log          *slog.Logger
}

// NewGate creates a new Gate instance with all dependencies initialized.
func NewGate(cfg *config.AppConfig) (*Gate, error) {

	// 1. Initialize Storage
	var recordRepo storage.RecordRepository
	var attemptRepo storage.AttemptRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		recordRepo = postgres.NewRecordRepo(db)
		attemptRepo = postgres.NewAttemptRepo(db)
		slog.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		recordRepo = memory.NewRecordRepo(store)
		attemptRepo = memory.NewAttemptRepo(store)
		slog.Info("Using Memory storage")
	}

	// 2. Initialize Processed Set
	var processedSet processed.Set
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		processedSet = redis.NewProcessedSet(redisClient)
		slog.Info("Using Redis processed set")
	} else {
		processedSet = processed.NewMemorySet()
		slog.Info("Using Memory processed set")
	}

	// 3. Initialize Pipeline Components
	src := source.NewFSSource(cfg.Source.InputDir, cfg.Source.Pattern)
	validator := validate.NewRuleValidator()
	stage := pipeline.NewStage(validator)
	router := route.NewRouter(
		route.NewFSSink(cfg.Sinks.ValidDir),
		route.NewFSSink(cfg.Sinks.InvalidDir),
		slog.Default(),
	)
	recoveryHandler := recovery.NewHandler(attemptRepo)

	pipe := pipeline.NewPipeline(pipeline.Config{
		Source:           src,
		Stage:            stage,
		Router:           router,
		Processed:        processedSet,
		Records:          recordRepo,
		Recovery:         recoveryHandler,
		PollInterval:     cfg.Source.PollInterval,
		Workers:          cfg.Pipeline.Workers,
		RemoveAfterRoute: cfg.Source.RemoveAfterRoute,
		Log:              slog.Default(),
	})

	// 4. Initialize Health Monitor
	healthMon := health.NewMonitor(pipe, recoveryHandler)
	healthServer := health.NewServer(healthMon, cfg.Server.Port)

	return &Gate{
		cfg:          cfg,
		pipeline:     pipe,
		healthMon:    healthMon,
		healthServer: healthServer,
		db:           db,
		redisClient:  redisClient,
		log:          slog.Default(),
	}, nil
}

// Start starts the gate and all its components.
func (g *Gate) Start(ctx context.Context) error {
	// Start Health Server
	go func() {
		if err := g.healthServer.Start(); err != nil {
			g.log.Error("Health server failed", "error", err)
		}
	}()

	// Start Dispatch Pipeline
	g.log.Info("Starting pipeline",
		"input", g.cfg.Source.InputDir,
		"interval", g.cfg.Source.PollInterval,
		"workers", g.cfg.Pipeline.Workers,
	)
	go func() {
		if err := g.pipeline.Start(ctx); err != nil {
			g.log.Error("Pipeline failed", "error", err)
		}
	}()

	return nil
}

// Stop stops the gate.
func (g *Gate) Stop(ctx context.Context) error {
	g.log.Info("Stopping Gate...")

	if err := g.pipeline.Stop(); err != nil {
		g.log.Warn("Failed to stop pipeline", "error", err)
	}

	if g.redisClient != nil {
		if err := g.redisClient.Close(); err != nil {
			g.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if g.db != nil {
		if err := g.db.Close(); err != nil {
			g.log.Warn("Failed to close database", "error", err)
		}
	}

	return g.healthServer.Stop(ctx)
}
