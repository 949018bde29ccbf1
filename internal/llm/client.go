// ABOUTME: Chat-completion client for answer generation with retry and streaming
// ABOUTME: Talks to any OpenAI-compatible endpoint, including a local Ollama /v1
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aniruddha1321/Athena/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions.
	DefaultChatModel = "gpt-4o-mini"
	// DefaultTemperature keeps generation focused, matching the assistant's
	// research register.
	DefaultTemperature = 0.3
)

// Generator is the answer-generation capability consumed by the assistant
// layer. It is injected at construction, never looked up from globals.
type Generator interface {
	// Generate returns the full completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream invokes fn for each token as it arrives and returns
	// once the stream completes.
	GenerateStream(ctx context.Context, prompt string, fn func(token string)) error
}

// ClientConfig holds configuration for the generation client.
type ClientConfig struct {
	APIKey      string
	BaseURL     string // empty = api.openai.com; point at an Ollama /v1 for local models
	Model       string
	Temperature float32
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
}

// Client wraps an OpenAI-compatible chat API with retry logic.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxRetries  int
	retryDelay  time.Duration
	timeout     time.Duration
}

var _ Generator = (*Client)(nil)

// NewClient creates a generation client from config, applying defaults for
// unset fields.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("chat API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		timeout:     cfg.Timeout,
	}, nil
}

// Generate returns the full completion for prompt, retrying transient
// failures with backoff.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var answer string
	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: c.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}
		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}
	return answer, nil
}

// GenerateStream streams the completion token by token. Streaming is not
// retried; a failure mid-stream surfaces to the caller, which can fall back
// to Generate.
func (c *Client) GenerateStream(ctx context.Context, prompt string, fn func(token string)) error {
	streamCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream, err := c.client.CreateChatCompletionStream(streamCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Stream:      true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return fmt.Errorf("opening completion stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading completion stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if token := resp.Choices[0].Delta.Content; token != "" {
			fn(token)
		}
	}
}
