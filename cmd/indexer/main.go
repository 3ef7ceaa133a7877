// Package main provides the embedding backfill command for the MealForge
// food catalog. It embeds catalog rows that have no description vector yet
// so they become reachable for similarity search.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/application/catalog"
	"github.com/mealforge/v2/internal/infrastructure/ai/ollama"
	"github.com/mealforge/v2/internal/infrastructure/ai/openai"
	"github.com/mealforge/v2/internal/infrastructure/config"
	"github.com/mealforge/v2/internal/infrastructure/persistence/postgres"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/pkg/logger"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Config holds command-line configuration
type Config struct {
	ConfigPath string
	BatchSize  int
	Workers    int
	MaxFoods   int
	CountOnly  bool
}

func main() {
	os.Exit(run(parseFlags()))
}

// parseFlags parses command-line flags
func parseFlags() Config {
	config := Config{}

	flag.StringVar(&config.ConfigPath, "config", "", "Configuration file path")
	flag.IntVar(&config.BatchSize, "batch-size", 100, "Foods fetched and embedded per batch")
	flag.IntVar(&config.Workers, "workers", 4, "Concurrent embedding requests per batch")
	flag.IntVar(&config.MaxFoods, "max-foods", 0, "Stop after this many foods (0 = no limit)")
	flag.BoolVar(&config.CountOnly, "count", false, "Report how many foods lack an embedding and exit")

	flag.Parse()

	return config
}

func run(flags Config) int {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return exitCodeError
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return exitCodeError
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPgxPool(ctx, cfg, log)
	if err != nil {
		log.Error("Database connection failed", zap.Error(err))
		return exitCodeError
	}
	defer pool.Close()

	index := postgres.NewFoodIndex(pool, log)

	if flags.CountOnly {
		remaining, err := index.CountMissingEmbeddings(ctx)
		if err != nil {
			log.Error("Counting foods without embeddings failed", zap.Error(err))
			return exitCodeError
		}
		fmt.Printf("Foods without embeddings: %d\n", remaining)
		return exitCodeSuccess
	}

	embedder, err := newEmbeddingClient(cfg, log)
	if err != nil {
		log.Error("Embedding client setup failed", zap.Error(err))
		return exitCodeError
	}

	indexer := catalog.NewIndexerService(index, embedder, log)

	report, err := indexer.ReindexEmbeddings(ctx, inbound.ReindexCommand{
		BatchSize: flags.BatchSize,
		Workers:   flags.Workers,
		MaxFoods:  flags.MaxFoods,
	})
	if err != nil {
		log.Error("Embedding reindex failed", zap.Error(err))
		return exitCodeError
	}

	printReport(report)

	if report.Failed > 0 {
		return exitCodeFailure
	}
	return exitCodeSuccess
}

// newEmbeddingClient builds the raw provider client. The request cache is
// deliberately skipped here: every row is embedded exactly once, so cached
// vectors would never be read back.
func newEmbeddingClient(cfg *config.Config, log *zap.Logger) (outbound.EmbeddingClient, error) {
	switch cfg.AI.Provider {
	case "openai":
		return openai.NewClient(cfg.AI, log), nil
	case "ollama":
		return ollama.NewClient(cfg.AI, log), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.AI.Provider)
	}
}

func printReport(report *inbound.ReindexReport) {
	fmt.Printf("Scanned:   %d\n", report.Scanned)
	fmt.Printf("Embedded:  %d\n", report.Embedded)
	fmt.Printf("Failed:    %d\n", report.Failed)
	fmt.Printf("Remaining: %d\n", report.Remaining)
	fmt.Printf("Elapsed:   %s\n", report.Elapsed.Round(time.Millisecond))
}
