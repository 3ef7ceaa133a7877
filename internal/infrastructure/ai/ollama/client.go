// Package ollama provides Ollama integration for local embedding inference
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mealforge/v2/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "nomic-embed-text"
	defaultDims    = 768
)

// Client implements the EmbeddingClient interface using the Ollama API.
// Intended for local development where no OpenAI key is available.
type Client struct {
	baseURL    string
	model      string
	dimensions int
	client     *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Ollama embedding client
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := cfg.EmbeddingModel
	if model == "" {
		model = defaultModel
	}

	dims := cfg.EmbeddingDims
	if dims <= 0 {
		dims = defaultDims
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("Ollama embedding client initialized",
		zap.String("base_url", baseURL),
		zap.String("model", model),
		zap.Int("dimensions", dims),
	)

	return &Client{
		baseURL:    baseURL,
		model:      model,
		dimensions: dims,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("ollama-embeddings"),
	}
}

// Ollama API structures
type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed computes the embedding vector for the given text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embeddingRequest{
		Model:  c.model,
		Prompt: text,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	if len(embResp.Embedding) != c.dimensions {
		return nil, fmt.Errorf("unexpected embedding size %d, want %d", len(embResp.Embedding), c.dimensions)
	}

	return embResp.Embedding, nil
}

// Dimensions returns the configured embedding dimensionality
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Ping verifies the local Ollama server is reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama error %d", resp.StatusCode)
	}
	return nil
}
