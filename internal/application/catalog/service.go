// Package catalog provides the application layer for food catalog
// maintenance, chiefly backfilling description embeddings.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/pkg/errors"
)

const (
	defaultBatchSize = 100
	defaultWorkers   = 4
)

// IndexerService backfills embeddings for catalog rows that lack one.
type IndexerService struct {
	catalog  outbound.FoodCatalogMaintenance
	embedder outbound.EmbeddingClient
	logger   *zap.Logger
}

// NewIndexerService creates a new catalog indexer service.
func NewIndexerService(
	catalog outbound.FoodCatalogMaintenance,
	embedder outbound.EmbeddingClient,
	logger *zap.Logger,
) inbound.CatalogIndexer {
	return &IndexerService{
		catalog:  catalog,
		embedder: embedder,
		logger:   logger.Named("catalog-indexer"),
	}
}

// ReindexEmbeddings embeds catalog rows in batches with a bounded worker
// pool. Individual embedding failures are counted and skipped; rows that
// keep failing stay unembedded, so a batch with zero successes stops the
// run instead of spinning on the same rows.
func (s *IndexerService) ReindexEmbeddings(ctx context.Context, cmd inbound.ReindexCommand) (*inbound.ReindexReport, error) {
	if cmd.BatchSize <= 0 {
		cmd.BatchSize = defaultBatchSize
	}
	if cmd.Workers <= 0 {
		cmd.Workers = defaultWorkers
	}

	s.logger.Info("Starting embedding reindex",
		zap.Int("batch_size", cmd.BatchSize),
		zap.Int("workers", cmd.Workers),
		zap.Int("max_foods", cmd.MaxFoods),
	)

	start := time.Now()
	report := &inbound.ReindexReport{}

	for {
		limit := cmd.BatchSize
		if cmd.MaxFoods > 0 {
			left := cmd.MaxFoods - report.Scanned
			if left <= 0 {
				break
			}
			if left < limit {
				limit = left
			}
		}

		entries, err := s.catalog.ListMissingEmbeddings(ctx, limit)
		if err != nil {
			return nil, errors.NewDatabaseError("list foods missing embeddings", err)
		}
		if len(entries) == 0 {
			break
		}
		report.Scanned += len(entries)

		var embedded, failed atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cmd.Workers)
		for _, entry := range entries {
			g.Go(func() error {
				vector, err := s.embedder.Embed(gctx, embeddingText(entry))
				if err != nil {
					failed.Add(1)
					s.logger.Warn("Embedding failed",
						zap.String("food_id", entry.ID.String()),
						zap.Error(err))
					return nil
				}
				if err := s.catalog.UpdateEmbedding(gctx, entry.ID, vector); err != nil {
					failed.Add(1)
					s.logger.Warn("Embedding update failed",
						zap.String("food_id", entry.ID.String()),
						zap.Error(err))
					return nil
				}
				embedded.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, errors.Wrap(err, "reindex batch failed")
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "reindex interrupted")
		}

		report.Embedded += int(embedded.Load())
		report.Failed += int(failed.Load())

		if embedded.Load() == 0 {
			break
		}
		if len(entries) < limit {
			break
		}
	}

	remaining, err := s.catalog.CountMissingEmbeddings(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("count foods missing embeddings", err)
	}
	report.Remaining = remaining
	report.Elapsed = time.Since(start)

	s.logger.Info("Embedding reindex finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("embedded", report.Embedded),
		zap.Int("failed", report.Failed),
		zap.Int64("remaining", report.Remaining),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// embeddingText renders the text that gets embedded for one catalog
// entry. It mirrors what the search queries describe: name, category and
// the free-form description.
func embeddingText(entry outbound.CatalogEntry) string {
	parts := make([]string, 0, 3)

	name := entry.Name
	if entry.NameEn != "" && entry.NameEn != entry.Name {
		name = fmt.Sprintf("%s (%s)", entry.Name, entry.NameEn)
	}
	parts = append(parts, name)

	if entry.Category != "" {
		parts = append(parts, "Category: "+entry.Category)
	}
	if entry.Description != "" {
		parts = append(parts, entry.Description)
	}
	return strings.Join(parts, ". ")
}
