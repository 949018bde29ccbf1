// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to use Athena's retrieval and research tools via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/aniruddha1321/Athena/internal/assistant"
	"github.com/aniruddha1321/Athena/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Athena as an MCP (Model Context Protocol) server over stdio,
exposing document ingest, semantic search, question answering, topic
research, and document comparison as tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  athena mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "athena": {
  #       "command": "athena",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if a.generator == nil {
		log.Println("Warning: no chat backend configured - ask_question and research_topic will not work")
	}

	qa := assistant.NewQAEngine(a.retriever, a.generator, a.cfg.TopK)
	researcher := a.newResearcher(a.cfg.Offline)
	comparer := assistant.NewComparer(a.embedder, a.generator)

	server := mcpserver.NewMCPServer(
		"Athena Research Assistant",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, a.corpora, a.retriever, qa, researcher, comparer,
		a.cfg.ChunkSize, a.cfg.ChunkOverlap)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Athena MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
