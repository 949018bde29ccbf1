// ABOUTME: MCP tool definitions and registration for the research assistant server
// ABOUTME: Defines JSON schemas for the 5 assistant tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/aniruddha1321/Athena/internal/assistant"
	"github.com/aniruddha1321/Athena/internal/retrieval"
	"github.com/aniruddha1321/Athena/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.CorpusStore, retriever *retrieval.Retriever, qa *assistant.QAEngine, researcher *assistant.Researcher, comparer *assistant.Comparer, chunkSize, chunkOverlap int) *Handlers {
	handlers := &Handlers{
		store:        store,
		retriever:    retriever,
		qa:           qa,
		researcher:   researcher,
		comparer:     comparer,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}

	// 1. ingest_document - Add a document to a corpus and rebuild its index
	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Add a document to a named corpus and rebuild the corpus's retrieval index. Creates the corpus if it does not exist.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"corpus": map[string]interface{}{
					"type":        "string",
					"description": "Corpus name to ingest into",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Document text to ingest",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Optional document title",
				},
			},
			Required: []string{"corpus", "content"},
		},
	}, handlers.IngestDocument)

	// 2. semantic_search - Retrieve the most relevant passages for a query
	server.AddTool(mcp.Tool{
		Name:        "semantic_search",
		Description: "Search a corpus for the passages most relevant to a query. Returns ranked chunks with similarity scores.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"corpus": map[string]interface{}{
					"type":        "string",
					"description": "Corpus name to search",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of passages to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"corpus", "query"},
		},
	}, handlers.SemanticSearch)

	// 3. ask_question - Answer a question grounded in a corpus
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question using the most relevant passages from a corpus as grounding context.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"corpus": map[string]interface{}{
					"type":        "string",
					"description": "Corpus name to answer from",
				},
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
			},
			Required: []string{"corpus", "question"},
		},
	}, handlers.AskQuestion)

	// 4. research_topic - Research a topic with web and academic sources
	server.AddTool(mcp.Tool{
		Name:        "research_topic",
		Description: "Research a topic by combining web search results, Arxiv papers, and LLM synthesis into a summary with sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Topic to research",
				},
			},
			Required: []string{"topic"},
		},
	}, handlers.ResearchTopic)

	// 5. compare_documents - Compare two documents by semantic similarity
	server.AddTool(mcp.Tool{
		Name:        "compare_documents",
		Description: "Compare two documents: overall semantic similarity, the closest passage pairs, and a narrative comparison.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text_a": map[string]interface{}{
					"type":        "string",
					"description": "First document text",
				},
				"text_b": map[string]interface{}{
					"type":        "string",
					"description": "Second document text",
				},
				"label_a": map[string]interface{}{
					"type":        "string",
					"description": "Optional label for the first document",
				},
				"label_b": map[string]interface{}{
					"type":        "string",
					"description": "Optional label for the second document",
				},
			},
			Required: []string{"text_a", "text_b"},
		},
	}, handlers.CompareDocuments)

	return handlers
}
