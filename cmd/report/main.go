package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"power-band-lab/internal/config"
	"power-band-lab/internal/dataset"
	"power-band-lab/internal/observability"
	"power-band-lab/internal/pipeline"
	"power-band-lab/internal/reporting"
	"power-band-lab/internal/storage"
	chstore "power-band-lab/internal/storage/clickhouse"
	"power-band-lab/internal/storage/memory"
	"power-band-lab/internal/storage/migrations"
	pgstore "power-band-lab/internal/storage/postgres"
	"power-band-lab/internal/summary"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	dataPath := flag.String("data", "", "Path to the dataset file (overrides config)")
	mode := flag.String("mode", "", "Grouping mode: band, per_integer or integer_interval (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory for generated files (overrides config)")
	postgresDSN := flag.String("postgres-dsn", "", "Read events from PostgreSQL instead of the dataset file")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "Persist summary rows to ClickHouse (optional)")
	useFixtures := flag.Bool("use-fixtures", false, "Use built-in demo data instead of a dataset file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *dataPath, *mode, *outputDir, *postgresDSN, *clickhouseDSN)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	eventStore, cleanup, err := createEventStore(ctx, cfg, *useFixtures)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing event store: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	p := pipeline.New(eventStore, summary.Config{
		Mode:     cfg.Mode(),
		MinBound: cfg.MinBound,
		MaxBound: cfg.MaxBound,
	}, cfg.OutputDir, logger).WithTopN(cfg.TopN)

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error preparing clickhouse: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()
		p = p.WithSummaryStore(chstore.NewSummaryStore(conn))
	}

	report, err := p.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running pipeline: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(reporting.RenderText(report))
	fmt.Println("Report files written:")
	fmt.Printf("  - %s/%s\n", cfg.OutputDir, pipeline.ReportFileName)
	fmt.Printf("  - %s/%s\n", cfg.OutputDir, pipeline.CSVFileName)
}

// applyFlags overlays non-empty flag values onto the config.
func applyFlags(cfg *config.Config, dataPath, mode, outputDir, postgresDSN, clickhouseDSN string) {
	if dataPath != "" {
		cfg.DataDir = ""
		cfg.DataFile = dataPath
	}
	if mode != "" {
		cfg.GroupingMode = mode
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if postgresDSN != "" {
		cfg.PostgresDSN = postgresDSN
	}
	if clickhouseDSN != "" {
		cfg.ClickhouseDSN = clickhouseDSN
	}
}

// createEventStore builds the event source: fixtures, a PostgreSQL store, or
// the dataset file loaded into memory.
func createEventStore(ctx context.Context, cfg *config.Config, useFixtures bool) (storage.EventStore, func(), error) {
	if useFixtures {
		store := memory.NewEventStore()
		if err := pipeline.LoadFixtures(ctx, store); err != nil {
			return nil, nil, fmt.Errorf("load fixtures: %w", err)
		}
		return store, func() {}, nil
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.NewEventStore(pool), pool.Close, nil
	}

	events, err := dataset.Load(cfg.DataPath())
	if err != nil {
		return nil, nil, err
	}
	observability.RecordEventsLoaded(len(events))

	store := memory.NewEventStore()
	if err := store.InsertBulk(ctx, events); err != nil {
		return nil, nil, fmt.Errorf("store dataset events: %w", err)
	}
	return store, func() {}, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
