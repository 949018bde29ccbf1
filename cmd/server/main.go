// ABOUTME: Main entry point for the Athena MCP server with stdio transport
// ABOUTME: Initializes storage, retrieval, and the MCP server with all tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/aniruddha1321/Athena/internal/assistant"
	"github.com/aniruddha1321/Athena/internal/config"
	"github.com/aniruddha1321/Athena/internal/embedding"
	"github.com/aniruddha1321/Athena/internal/llm"
	"github.com/aniruddha1321/Athena/internal/mcp"
	"github.com/aniruddha1321/Athena/internal/retrieval"
	"github.com/aniruddha1321/Athena/internal/storage/sqlite"
	"github.com/aniruddha1321/Athena/internal/websearch"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var embedder embedding.NamedEmbedder
	if cfg.EmbeddingBackend == "lexical" {
		embedder = embedding.NewLexicalEmbedder(cfg.EmbeddingDimension)
	} else {
		openaiEmbedder, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.EmbeddingModel,
			Dimension:  cfg.EmbeddingDimension,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			log.Fatalf("Failed to initialize embedder: %v", err)
		}
		embedder = openaiEmbedder
	}
	cached := embedding.NewCachedEmbedder(embedder, sqlite.NewEmbedCache(db))

	retriever := retrieval.NewRetriever(cached, retrieval.Options{
		BuildTimeout: cfg.BuildTimeout,
	})
	corpora := sqlite.NewCorpusStore(db)

	var generator llm.Generator
	if client, err := llm.NewClient(llm.ClientConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.ChatModel,
		Temperature: float32(cfg.Temperature),
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
		Timeout:     cfg.Timeout,
	}); err != nil {
		log.Printf("Warning: no chat backend configured - ask_question and research_topic will not work: %v", err)
	} else {
		generator = client
	}

	qa := assistant.NewQAEngine(retriever, generator, cfg.TopK)

	var web, papers assistant.Searcher
	if !cfg.Offline {
		web = websearch.NewDuckDuckGo(cfg.WebMaxResults, websearch.DefaultTimeout)
		papers = websearch.NewArxiv(cfg.ArxivMaxResults, websearch.DefaultArxivMaxChars, websearch.DefaultTimeout)
	}
	researcher := assistant.NewResearcher(generator, web, papers, cfg.Offline)
	comparer := assistant.NewComparer(cached, generator)

	server := mcpserver.NewMCPServer(
		"Athena Research Assistant",
		"0.1.0",
	)
	mcp.RegisterTools(server, corpora, retriever, qa, researcher, comparer,
		cfg.ChunkSize, cfg.ChunkOverlap)

	log.Println("Athena MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
