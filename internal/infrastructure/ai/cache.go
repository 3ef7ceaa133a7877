// Package ai provides embedding provider wrappers shared by all backends
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mealforge/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Embeddings are deterministic per model, so entries can live long.
const embeddingCacheTTL = 7 * 24 * time.Hour

// CachedEmbeddingClient wraps an embedding client with a cache layer.
// Recommendation queries repeat heavily across users and days, so most
// lookups never reach the provider.
type CachedEmbeddingClient struct {
	client outbound.EmbeddingClient
	cache  outbound.CacheRepository
	prefix string
	logger *zap.Logger
}

// NewCachedEmbeddingClient creates a new caching wrapper around client
func NewCachedEmbeddingClient(client outbound.EmbeddingClient, cache outbound.CacheRepository, model string, logger *zap.Logger) *CachedEmbeddingClient {
	return &CachedEmbeddingClient{
		client: client,
		cache:  cache,
		prefix: fmt.Sprintf("embedding:%s:", model),
		logger: logger.Named("cached-embeddings"),
	}
}

// Embed returns the cached vector when present and falls through to the
// wrapped client otherwise. Cache failures never fail the request.
func (c *CachedEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	if data, err := c.cache.Get(ctx, key); err == nil && len(data) > 0 {
		var embedding []float32
		if err := json.Unmarshal(data, &embedding); err == nil && len(embedding) == c.client.Dimensions() {
			return embedding, nil
		}
		c.logger.Warn("discarding malformed cached embedding", zap.String("key", key))
	}

	embedding, err := c.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	// Write back asynchronously so provider latency is the only cost
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data, err := json.Marshal(embedding)
		if err != nil {
			return
		}
		if err := c.cache.Set(cacheCtx, key, data, embeddingCacheTTL); err != nil {
			c.logger.Error("failed to cache embedding", zap.Error(err))
		}
	}()

	return embedding, nil
}

// Dimensions returns the wrapped client's dimensionality
func (c *CachedEmbeddingClient) Dimensions() int {
	return c.client.Dimensions()
}

func (c *CachedEmbeddingClient) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}
