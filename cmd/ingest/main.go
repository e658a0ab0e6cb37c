// Command ingest loads trade events into PostgreSQL, from the on-disk
// dataset file, a live WebSocket feed, or both.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"power-band-lab/internal/config"
	"power-band-lab/internal/dataset"
	"power-band-lab/internal/ingest"
	"power-band-lab/internal/observability"
	"power-band-lab/internal/storage"
	"power-band-lab/internal/storage/migrations"
	pgstore "power-band-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	dataPath := flag.String("data", "", "Path to a dataset file to load (overrides config)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL DSN of the target store (overrides config)")
	feedURL := flag.String("feed-url", "", "WebSocket feed to follow after the file load (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9091)")
	skipFile := flag.Bool("skip-file", false, "Skip the dataset file and only follow the feed")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.DataDir = ""
		cfg.DataFile = *dataPath
	}
	if *postgresDSN != "" {
		cfg.PostgresDSN = *postgresDSN
	}
	if *feedURL != "" {
		cfg.FeedURL = *feedURL
	}
	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: a PostgreSQL DSN is required (flag -postgres-dsn or POSTGRES_DSN)")
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying migrations: %v\n", err)
		os.Exit(1)
	}
	store := pgstore.NewEventStore(pool)

	if !*skipFile {
		stored, skipped, err := loadFile(ctx, store, cfg.DataPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
			os.Exit(1)
		}
		logger.Info().
			Str("path", cfg.DataPath()).
			Int("stored", stored).
			Int("skipped", skipped).
			Msg("dataset loaded")
		fmt.Printf("Loaded %d events (%d duplicates skipped)\n", stored, skipped)
	}

	if cfg.FeedURL == "" {
		return
	}

	follower := ingest.NewFollower(cfg.FeedURL, store, logger, nil)
	defer follower.Close()

	logger.Info().Str("endpoint", cfg.FeedURL).Msg("following live feed")
	if err := follower.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error following feed: %v\n", err)
		os.Exit(1)
	}
}

// loadFile appends the dataset file to the store, one event at a time so a
// re-run over already ingested data only skips duplicates.
func loadFile(ctx context.Context, store storage.EventStore, path string) (stored, skipped int, err error) {
	events, err := dataset.Load(path)
	if err != nil {
		return 0, 0, err
	}
	observability.RecordEventsLoaded(len(events))

	for _, e := range events {
		if err := store.Insert(ctx, e); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				skipped++
				continue
			}
			return stored, skipped, err
		}
		stored++
		observability.DefaultMetrics.EventsStored.Inc()
	}
	return stored, skipped, nil
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	logger.Info().Str("addr", addr).Msg("metrics endpoint up")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
