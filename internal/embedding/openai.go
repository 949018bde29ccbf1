// ABOUTME: Embedder backed by an OpenAI-compatible embeddings API
// ABOUTME: Works against api.openai.com or a local Ollama endpoint via BaseURL
package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aniruddha1321/Athena/internal/retrieval"
	"github.com/aniruddha1321/Athena/internal/util"
)

const (
	// DefaultEmbeddingModel is the default embedding model.
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultEmbeddingDimension matches text-embedding-3-small.
	DefaultEmbeddingDimension = 1536
)

// OpenAIConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // empty = api.openai.com; point at an Ollama /v1 for local models
	Model      string
	Dimension  int
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint with retry
// and a per-attempt timeout. Any terminal failure is reported as
// retrieval.ErrEmbeddingUnavailable; a zero vector is never substituted.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimension  int
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// NewOpenAIEmbedder creates an embedder from config, applying defaults for
// unset fields.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("embedding API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultEmbeddingModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultEmbeddingDimension
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      openai.EmbeddingModel(cfg.Model),
		dimension:  cfg.Dimension,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.Timeout,
	}, nil
}

// Name identifies this embedder for cache keying.
func (e *OpenAIEmbedder) Name() string { return string(e.model) }

// Dimension returns the configured vector length.
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }

// Embed requests embeddings for a batch of texts, preserving order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var vectors [][]float64
	err := util.Retry(ctx, e.maxRetries, e.retryDelay, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		resp, err := e.client.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: e.model,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
		}

		out := make([][]float64, len(texts))
		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(texts) {
				return fmt.Errorf("embedding index %d out of range", item.Index)
			}
			if len(item.Embedding) != e.dimension {
				return &retrieval.DimensionMismatchError{Expected: e.dimension, Actual: len(item.Embedding)}
			}
			vec := make([]float64, len(item.Embedding))
			for i, v := range item.Embedding {
				vec[i] = float64(v)
			}
			out[item.Index] = vec
		}
		vectors = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", retrieval.ErrEmbeddingUnavailable, err)
	}
	return vectors, nil
}

// EmbedOne requests an embedding for a single text.
func (e *OpenAIEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
