// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers defaults, YAML file values, env overrides, and invalid inputs
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ATHENA_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 100 {
		t.Errorf("chunking defaults = %d/%d, want 500/100", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.QAChunkSize != 2000 {
		t.Errorf("QAChunkSize = %d, want 2000", cfg.QAChunkSize)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.Temperature != 0.3 {
		t.Errorf("Temperature = %f, want 0.3", cfg.Temperature)
	}
	if cfg.BuildTimeout != 30*time.Second {
		t.Errorf("BuildTimeout = %s, want 30s", cfg.BuildTimeout)
	}
	if cfg.EmbeddingBackend != "openai" {
		t.Errorf("EmbeddingBackend = %q, want openai", cfg.EmbeddingBackend)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ATHENA_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ATHENA_CHUNK_SIZE", "1000")
	t.Setenv("ATHENA_TOP_K", "7")
	t.Setenv("ATHENA_EMBEDDING_BACKEND", "lexical")
	t.Setenv("ATHENA_BUILD_TIMEOUT", "5s")
	t.Setenv("ATHENA_OFFLINE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
	if cfg.TopK != 7 {
		t.Errorf("TopK = %d, want 7", cfg.TopK)
	}
	if cfg.EmbeddingBackend != "lexical" {
		t.Errorf("EmbeddingBackend = %q, want lexical", cfg.EmbeddingBackend)
	}
	if cfg.BuildTimeout != 5*time.Second {
		t.Errorf("BuildTimeout = %s, want 5s", cfg.BuildTimeout)
	}
	if !cfg.Offline {
		t.Error("Offline = false, want true")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "chunk_size: 800\nchat_model: llama3\nbase_url: http://localhost:11434/v1\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("ATHENA_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 800 {
		t.Errorf("ChunkSize = %d, want 800 from file", cfg.ChunkSize)
	}
	if cfg.ChatModel != "llama3" {
		t.Errorf("ChatModel = %q, want llama3", cfg.ChatModel)
	}
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	// File values that were not set keep defaults.
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want default 3", cfg.TopK)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: 800\n"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("ATHENA_CONFIG", path)
	t.Setenv("ATHENA_CHUNK_SIZE", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 250 {
		t.Errorf("ChunkSize = %d, want env value 250", cfg.ChunkSize)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: [not an int\n"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("ATHENA_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"overlap equals chunk size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, true},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, true},
		{"zero top k", func(c *Config) { c.TopK = 0 }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, true},
		{"retries too high", func(c *Config) { c.MaxRetries = 11 }, true},
		{"unknown backend", func(c *Config) { c.EmbeddingBackend = "word2vec" }, true},
		{"zero dimension", func(c *Config) { c.EmbeddingDimension = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
