// ABOUTME: MCP tool handler implementations for the research assistant server
// ABOUTME: Validates arguments, calls the assistant layer, and returns JSON results
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aniruddha1321/Athena/internal/assistant"
	"github.com/aniruddha1321/Athena/internal/retrieval"
	"github.com/aniruddha1321/Athena/internal/storage/sqlite"
	"github.com/aniruddha1321/Athena/internal/textutil"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store        *sqlite.CorpusStore
	retriever    *retrieval.Retriever
	qa           *assistant.QAEngine
	researcher   *assistant.Researcher
	comparer     *assistant.Comparer
	chunkSize    int
	chunkOverlap int
}

// IngestDocument handles the ingest_document tool
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	corpusName, err := request.RequireString("corpus")
	if err != nil {
		return mcp.NewToolResultError("corpus argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	title := request.GetString("title", "")

	content = textutil.CleanExtractedText(content)

	corpus, err := h.store.CreateCorpus(ctx, corpusName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to register corpus: %v", err)), nil
	}

	doc, err := h.store.AddDocument(ctx, corpus.ID, title, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store document: %v", err)), nil
	}

	text, err := h.store.CorpusText(ctx, corpus.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load corpus text: %v", err)), nil
	}

	if err := h.retriever.Ingest(ctx, corpus.ID, text, h.chunkSize, h.chunkOverlap); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build index: %v", err)), nil
	}

	var chunkCount int
	if s := h.retriever.Session(corpus.ID); s != nil {
		if index := s.Index(); index != nil {
			chunkCount = index.Len()
		}
	}

	return jsonResult(map[string]interface{}{
		"corpus_id":   corpus.ID,
		"corpus":      corpus.Name,
		"document_id": doc.ID,
		"chunks":      chunkCount,
	})
}

// SemanticSearch handles the semantic_search tool
func (h *Handlers) SemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	corpusName, err := request.RequireString("corpus")
	if err != nil {
		return mcp.NewToolResultError("corpus argument is required and must be a string"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	topK := request.GetInt("top_k", 5)

	corpusID, result := h.resolveCorpus(ctx, corpusName)
	if result != nil {
		return result, nil
	}

	results, err := h.retriever.Retrieve(ctx, corpusID, query, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"corpus":  corpusName,
		"query":   query,
		"results": results,
	})
}

// AskQuestion handles the ask_question tool
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	corpusName, err := request.RequireString("corpus")
	if err != nil {
		return mcp.NewToolResultError("corpus argument is required and must be a string"), nil
	}
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	corpusID, result := h.resolveCorpus(ctx, corpusName)
	if result != nil {
		return result, nil
	}

	answer, err := h.qa.Ask(ctx, corpusID, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to answer question: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"corpus":   corpusName,
		"question": question,
		"answer":   answer.Text,
		"sources":  answer.Sources,
	})
}

// ResearchTopic handles the research_topic tool
func (h *Handlers) ResearchTopic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic argument is required and must be a string"), nil
	}

	report, err := h.researcher.Research(ctx, topic)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("research failed: %v", err)), nil
	}

	return jsonResult(report)
}

// CompareDocuments handles the compare_documents tool
func (h *Handlers) CompareDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	textA, err := request.RequireString("text_a")
	if err != nil {
		return mcp.NewToolResultError("text_a argument is required and must be a string"), nil
	}
	textB, err := request.RequireString("text_b")
	if err != nil {
		return mcp.NewToolResultError("text_b argument is required and must be a string"), nil
	}
	labelA := request.GetString("label_a", "A")
	labelB := request.GetString("label_b", "B")

	comparison, err := h.comparer.Compare(ctx, labelA, textA, labelB, textB)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	return jsonResult(comparison)
}

// resolveCorpus maps a corpus name to its ID, returning an error result when
// the corpus is unknown.
func (h *Handlers) resolveCorpus(ctx context.Context, name string) (string, *mcp.CallToolResult) {
	corpus, err := h.store.GetCorpusByName(ctx, name)
	if err != nil {
		return "", mcp.NewToolResultError(fmt.Sprintf("failed to look up corpus: %v", err))
	}
	if corpus == nil {
		return "", mcp.NewToolResultError(fmt.Sprintf("corpus %q does not exist; ingest a document first", name))
	}
	return corpus.ID, nil
}

// jsonResult marshals v into a text tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
