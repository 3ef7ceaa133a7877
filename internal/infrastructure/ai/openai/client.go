// Package openai provides OpenAI embedding integration for food search
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mealforge/v2/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "text-embedding-3-small"
	defaultDims    = 1536
)

// Client implements the EmbeddingClient interface using the OpenAI API
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	maxRetries int
	client     *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new OpenAI embedding client
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	apiKey := cfg.OpenAIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

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

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 300
	}

	if apiKey == "" {
		logger.Warn("OpenAI API key not configured, embedding requests will fail")
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		dimensions: dims,
		maxRetries: cfg.MaxRetries,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm/10+1),
		logger:  logger.Named("openai-embeddings"),
	}
}

// OpenAI API structures
type embeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Usage usage           `json:"usage"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type usage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Embed computes the embedding vector for the given text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai api key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		embedding, retriable, err := c.callEmbeddings(ctx, text)
		if err == nil {
			return embedding, nil
		}

		lastErr = err
		if !retriable {
			break
		}
		c.logger.Warn("embedding request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return nil, lastErr
}

// Dimensions returns the configured embedding dimensionality
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Ping verifies API reachability and key validity without spending tokens
func (c *Client) Ping(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("openai api key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error %d", resp.StatusCode)
	}
	return nil
}

// callEmbeddings makes a single API call. The second return value
// indicates whether the failure is worth retrying.
func (c *Client) callEmbeddings(ctx context.Context, text string) ([]float32, bool, error) {
	reqBody := embeddingRequest{
		Model:      c.model,
		Input:      text,
		Dimensions: c.dimensions,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retriable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retriable, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(embResp.Data) == 0 {
		return nil, false, fmt.Errorf("no embedding data returned")
	}

	embedding := embResp.Data[0].Embedding
	if len(embedding) != c.dimensions {
		return nil, false, fmt.Errorf("unexpected embedding size %d, want %d", len(embedding), c.dimensions)
	}

	c.logger.Debug("embedding computed",
		zap.Int("prompt_tokens", embResp.Usage.PromptTokens),
		zap.Int("dimensions", len(embedding)),
	)

	return embedding, false, nil
}
