// ABOUTME: Shared application wiring for CLI commands
// ABOUTME: Builds config, storage, embedder, retriever, and LLM client in one place
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/aniruddha1321/Athena/internal/assistant"
	"github.com/aniruddha1321/Athena/internal/config"
	"github.com/aniruddha1321/Athena/internal/embedding"
	"github.com/aniruddha1321/Athena/internal/llm"
	"github.com/aniruddha1321/Athena/internal/retrieval"
	"github.com/aniruddha1321/Athena/internal/storage/sqlite"
	"github.com/aniruddha1321/Athena/internal/websearch"
)

// app bundles the wired components a command needs.
type app struct {
	cfg       *config.Config
	db        *sqlite.DB
	corpora   *sqlite.CorpusStore
	chatStore *sqlite.ChatStore
	retriever *retrieval.Retriever
	embedder  embedding.NamedEmbedder
	generator llm.Generator // nil when no API is configured and none is required
}

// newApp loads configuration and wires storage, embedding, and retrieval.
// When requireLLM is set, a missing chat backend is an error; otherwise the
// generator may be nil.
func newApp(requireLLM bool) (*app, error) {
	// .env is optional; API keys usually live there during development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	embedder, err := buildEmbedder(cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		if requireLLM {
			_ = db.Close()
			return nil, err
		}
		generator = nil
	}

	return &app{
		cfg:       cfg,
		db:        db,
		corpora:   sqlite.NewCorpusStore(db),
		chatStore: sqlite.NewChatStore(db),
		retriever: retrieval.NewRetriever(embedder, retrieval.Options{
			BuildTimeout: cfg.BuildTimeout,
		}),
		embedder:  embedder,
		generator: generator,
	}, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// buildEmbedder selects the configured backend and wraps it with the
// SQLite-backed embedding cache.
func buildEmbedder(cfg *config.Config, db *sqlite.DB) (embedding.NamedEmbedder, error) {
	var inner embedding.NamedEmbedder
	switch cfg.EmbeddingBackend {
	case "lexical":
		inner = embedding.NewLexicalEmbedder(cfg.EmbeddingDimension)
	default:
		embedder, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.EmbeddingModel,
			Dimension:  cfg.EmbeddingDimension,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing embedder: %w", err)
		}
		inner = embedder
	}

	return embedding.NewCachedEmbedder(inner, sqlite.NewEmbedCache(db)), nil
}

func buildGenerator(cfg *config.Config) (llm.Generator, error) {
	client, err := llm.NewClient(llm.ClientConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.ChatModel,
		Temperature: float32(cfg.Temperature),
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing chat client: %w", err)
	}
	return client, nil
}

// newResearcher wires the research pipeline from config.
func (a *app) newResearcher(offline bool) *assistant.Researcher {
	var web, papers assistant.Searcher
	if !offline {
		web = websearch.NewDuckDuckGo(a.cfg.WebMaxResults, websearch.DefaultTimeout)
		papers = websearch.NewArxiv(a.cfg.ArxivMaxResults, websearch.DefaultArxivMaxChars, websearch.DefaultTimeout)
	}
	return assistant.NewResearcher(a.generator, web, papers, offline)
}

// snapshotPath returns where a corpus's index snapshot lives.
func snapshotPath(corpusID string) string {
	return filepath.Join(sqlite.IndexDir(), corpusID+".json")
}

// openCorpus resolves a corpus by name and ensures its index is published,
// restoring a snapshot when one matches the embedder or rebuilding from the
// stored documents otherwise.
func (a *app) openCorpus(ctx context.Context, name string) (string, error) {
	corpus, err := a.corpora.GetCorpusByName(ctx, name)
	if err != nil {
		return "", err
	}
	if corpus == nil {
		return "", fmt.Errorf("corpus %q does not exist; run 'athena ingest %s <text>' first", name, name)
	}

	if s := a.retriever.Session(corpus.ID); s != nil && s.Index() != nil {
		return corpus.ID, nil
	}

	// Try the persisted snapshot before re-embedding everything.
	if _, index, err := retrieval.LoadSnapshot(snapshotPath(corpus.ID)); err == nil {
		if err := a.retriever.Restore(corpus.ID, index); err == nil {
			return corpus.ID, nil
		}
	}

	text, err := a.corpora.CorpusText(ctx, corpus.ID)
	if err != nil {
		return "", err
	}
	if err := a.retriever.Ingest(ctx, corpus.ID, text, a.cfg.ChunkSize, a.cfg.ChunkOverlap); err != nil {
		return "", fmt.Errorf("building index for corpus %q: %w", name, err)
	}
	a.saveSnapshot(corpus.ID)
	return corpus.ID, nil
}

// saveSnapshot persists the published index for a corpus. Snapshot failures
// are not fatal; the index can always be rebuilt from the database.
func (a *app) saveSnapshot(corpusID string) {
	s := a.retriever.Session(corpusID)
	if s == nil || s.Index() == nil {
		return
	}
	if err := retrieval.SaveSnapshot(snapshotPath(corpusID), corpusID, s.Index()); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "Warning: could not save index snapshot: %v\n", err)
	}
}
