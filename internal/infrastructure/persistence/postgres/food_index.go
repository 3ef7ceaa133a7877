package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/ports/outbound"
)

var tracer = otel.Tracer("github.com/mealforge/v2/internal/infrastructure/persistence/postgres")

// FoodIndex implements vector similarity search and embedding maintenance
// over the foods table. Only rows with an embedding are searchable, and
// every embedded row has its canonical category stamped, so filters can
// rely on the canonical_category column.
type FoodIndex struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewFoodIndex creates a new food index
func NewFoodIndex(pool *pgxpool.Pool, logger *zap.Logger) *FoodIndex {
	return &FoodIndex{
		pool:   pool,
		logger: logger.Named("food-index"),
	}
}

// Search returns candidates ordered by descending cosine similarity.
func (r *FoodIndex) Search(ctx context.Context, embedding []float32, filters outbound.SearchFilters, excludedIDs []uuid.UUID, limit int) ([]food.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "pgvector.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", "similarity_search"),
			attribute.Int("search.limit", limit),
		),
	)
	defer span.End()
	if filters.MealSlot != nil {
		span.SetAttributes(attribute.String("search.meal_slot", string(*filters.MealSlot)))
	}
	if filters.Category != nil {
		span.SetAttributes(attribute.String("search.category", string(*filters.Category)))
	}

	var sb strings.Builder
	args := []interface{}{pgvector.NewVector(embedding)}

	sb.WriteString(`SELECT id, name, name_en, category, calories, protein, carbs, fat, fiber,
		1 - (embedding <=> $1) AS similarity
	FROM foods
	WHERE embedding IS NOT NULL`)

	if filters.Category != nil {
		args = append(args, string(*filters.Category))
		fmt.Fprintf(&sb, " AND canonical_category = $%d", len(args))
	}
	if filters.MealSlot != nil {
		args = append(args, string(*filters.MealSlot))
		fmt.Fprintf(&sb, " AND (cardinality(meal_slots) = 0 OR $%d = ANY(meal_slots))", len(args))
	}
	if filters.MinProtein != nil {
		args = append(args, *filters.MinProtein)
		fmt.Fprintf(&sb, " AND protein >= $%d", len(args))
	}
	if filters.MaxCalories != nil {
		args = append(args, *filters.MaxCalories)
		fmt.Fprintf(&sb, " AND calories <= $%d", len(args))
	}
	if len(excludedIDs) > 0 {
		args = append(args, idStrings(excludedIDs))
		fmt.Fprintf(&sb, " AND NOT (id = ANY($%d::uuid[]))", len(args))
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY embedding <=> $1 LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "similarity search failed")
		r.logger.Error("food similarity search failed", zap.Error(err))
		return nil, fmt.Errorf("food search: %w", err)
	}
	defer rows.Close()

	var candidates []food.Candidate
	for rows.Next() {
		var c food.Candidate
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.NameEn,
			&c.RawCategory,
			&c.Calories,
			&c.Protein,
			&c.Carbs,
			&c.Fat,
			&c.Fiber,
			&c.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "similarity search failed")
		return nil, fmt.Errorf("food search rows: %w", err)
	}

	span.SetAttributes(attribute.Int("search.results", len(candidates)))
	return candidates, nil
}

// ListMissingEmbeddings returns catalog rows without an embedding, oldest
// first so reindex runs make stable progress.
func (r *FoodIndex) ListMissingEmbeddings(ctx context.Context, limit int) ([]outbound.CatalogEntry, error) {
	query := `SELECT id, name, COALESCE(name_en, ''), COALESCE(category, ''), COALESCE(description, '')
		FROM foods
		WHERE embedding IS NULL
		ORDER BY created_at, id
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list missing embeddings: %w", err)
	}
	defer rows.Close()

	var entries []outbound.CatalogEntry
	for rows.Next() {
		var e outbound.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.NameEn, &e.Category, &e.Description); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list missing embeddings rows: %w", err)
	}

	return entries, nil
}

// CountMissingEmbeddings counts catalog rows without an embedding
func (r *FoodIndex) CountMissingEmbeddings(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM foods WHERE embedding IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count missing embeddings: %w", err)
	}
	return count, nil
}

// UpdateEmbedding stores the embedding and stamps the canonical category
// so the row becomes searchable with consistent filtering.
func (r *FoodIndex) UpdateEmbedding(ctx context.Context, foodID uuid.UUID, embedding []float32) error {
	var name, nameEn, rawCategory string
	err := r.pool.QueryRow(ctx,
		`SELECT name, COALESCE(name_en, ''), COALESCE(category, '') FROM foods WHERE id = $1`,
		foodID,
	).Scan(&name, &nameEn, &rawCategory)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("food %s not found", foodID)
		}
		return fmt.Errorf("load food for embedding: %w", err)
	}

	canonical := food.Canonicalize(rawCategory, name, nameEn)

	_, err = r.pool.Exec(ctx,
		`UPDATE foods SET embedding = $2, canonical_category = $3, embedded_at = NOW() WHERE id = $1`,
		foodID,
		pgvector.NewVector(embedding),
		string(canonical),
	)
	if err != nil {
		return fmt.Errorf("update embedding: %w", err)
	}
	return nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
