// ABOUTME: Centralized configuration for the research assistant
// ABOUTME: Loads an optional YAML file, then environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the assistant
type Config struct {
	// LLM settings
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"` // empty = api.openai.com; set to an Ollama /v1 for local models
	ChatModel   string  `yaml:"chat_model"`
	Temperature float64 `yaml:"temperature"`

	// Embedding settings
	EmbeddingBackend   string `yaml:"embedding_backend"` // "openai" or "lexical"
	EmbeddingModel     string `yaml:"embedding_model"`
	EmbeddingDimension int    `yaml:"embedding_dimension"`

	// Retrieval settings
	ChunkSize    int           `yaml:"chunk_size"`
	ChunkOverlap int           `yaml:"chunk_overlap"`
	QAChunkSize  int           `yaml:"qa_chunk_size"`
	TopK         int           `yaml:"top_k"`
	BuildTimeout time.Duration `yaml:"build_timeout"`

	// Research settings
	Offline         bool `yaml:"offline"`
	WebMaxResults   int  `yaml:"web_max_results"`
	ArxivMaxResults int  `yaml:"arxiv_max_results"`

	// Client settings
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`

	// Storage settings
	DBPath string `yaml:"db_path"`
}

// Load reads configuration from the optional YAML file and then the
// environment. Environment variables override file values.
func Load() (*Config, error) {
	cfg := defaults()

	if path := configFilePath(); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv()

	return cfg, cfg.Validate()
}

func defaults() *Config {
	return &Config{
		ChatModel:          "gpt-4o-mini",
		Temperature:        0.3,
		EmbeddingBackend:   "openai",
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingDimension: 1536,
		ChunkSize:          500,
		ChunkOverlap:       100,
		QAChunkSize:        2000,
		TopK:               3,
		BuildTimeout:       30 * time.Second,
		WebMaxResults:      5,
		ArxivMaxResults:    3,
		Timeout:            60 * time.Second,
		MaxRetries:         3,
		RetryDelay:         2 * time.Second,
	}
}

// configFilePath returns the YAML config location, or "" when absent.
// ATHENA_CONFIG overrides the XDG default ~/.config/athena/config.yaml.
func configFilePath() string {
	path := os.Getenv("ATHENA_CONFIG")
	if path == "" {
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			configHome = filepath.Join(homeDir, ".config")
		}
		path = filepath.Join(configHome, "athena", "config.yaml")
	}

	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.APIKey = getEnv("OPENAI_API_KEY", c.APIKey)
	c.BaseURL = getEnv("ATHENA_BASE_URL", c.BaseURL)
	c.ChatModel = getEnv("ATHENA_CHAT_MODEL", c.ChatModel)
	c.Temperature = getEnvFloat("ATHENA_TEMPERATURE", c.Temperature)

	c.EmbeddingBackend = getEnv("ATHENA_EMBEDDING_BACKEND", c.EmbeddingBackend)
	c.EmbeddingModel = getEnv("ATHENA_EMBEDDING_MODEL", c.EmbeddingModel)
	c.EmbeddingDimension = getEnvInt("ATHENA_EMBEDDING_DIMENSION", c.EmbeddingDimension)

	c.ChunkSize = getEnvInt("ATHENA_CHUNK_SIZE", c.ChunkSize)
	c.ChunkOverlap = getEnvInt("ATHENA_CHUNK_OVERLAP", c.ChunkOverlap)
	c.QAChunkSize = getEnvInt("ATHENA_QA_CHUNK_SIZE", c.QAChunkSize)
	c.TopK = getEnvInt("ATHENA_TOP_K", c.TopK)
	c.BuildTimeout = getEnvDuration("ATHENA_BUILD_TIMEOUT", c.BuildTimeout)

	c.Offline = getEnvBool("ATHENA_OFFLINE", c.Offline)
	c.WebMaxResults = getEnvInt("ATHENA_WEB_MAX_RESULTS", c.WebMaxResults)
	c.ArxivMaxResults = getEnvInt("ATHENA_ARXIV_MAX_RESULTS", c.ArxivMaxResults)

	c.Timeout = getEnvDuration("ATHENA_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("ATHENA_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("ATHENA_RETRY_DELAY", c.RetryDelay)

	c.DBPath = getEnv("ATHENA_DB_PATH", c.DBPath)
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("ATHENA_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("ATHENA_CHUNK_OVERLAP must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.QAChunkSize <= 0 {
		return fmt.Errorf("ATHENA_QA_CHUNK_SIZE must be positive, got %d", c.QAChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("ATHENA_TOP_K must be positive, got %d", c.TopK)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("ATHENA_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("ATHENA_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	switch c.EmbeddingBackend {
	case "openai", "lexical":
	default:
		return fmt.Errorf("ATHENA_EMBEDDING_BACKEND must be openai or lexical, got %q", c.EmbeddingBackend)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("ATHENA_EMBEDDING_DIMENSION must be positive, got %d", c.EmbeddingDimension)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
