// ABOUTME: Grounded question answering over an ingested corpus
// ABOUTME: Retrieves top-k chunks, builds a context prompt, and asks the generator
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/aniruddha1321/Athena/internal/llm"
	"github.com/aniruddha1321/Athena/internal/models"
	"github.com/aniruddha1321/Athena/internal/retrieval"
)

const (
	// DefaultQATopK is how many chunks ground an answer.
	DefaultQATopK = 3

	// contextSeparator joins retrieved chunks inside the prompt.
	contextSeparator = "\n---\n"
)

// qaPromptTemplate instructs the model to answer only from retrieved context.
const qaPromptTemplate = `You are a research assistant. Use the following context to answer the question. If the answer is not contained in the context, say "I don't know based on the provided documents." Do not invent information.

Context:
%s

Question: %s

Answer:`

// Answer is a generated answer with the chunks that grounded it.
type Answer struct {
	Text    string                   `json:"text"`
	Sources []models.RetrievalResult `json:"sources"`
}

// QAEngine answers questions about a single corpus.
type QAEngine struct {
	retriever *retrieval.Retriever
	generator llm.Generator
	topK      int
}

// NewQAEngine wires a retriever and generator. topK <= 0 uses the default.
func NewQAEngine(retriever *retrieval.Retriever, generator llm.Generator, topK int) *QAEngine {
	if topK <= 0 {
		topK = DefaultQATopK
	}
	return &QAEngine{retriever: retriever, generator: generator, topK: topK}
}

// Ask retrieves the most relevant chunks for question and generates a
// grounded answer. Retrieval errors pass through unwrapped so callers can
// match the engine's sentinel errors.
func (q *QAEngine) Ask(ctx context.Context, corpusID, question string) (*Answer, error) {
	if q.generator == nil {
		return nil, fmt.Errorf("no chat backend configured")
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", retrieval.ErrInvalidInput)
	}

	results, err := q.retriever.Retrieve(ctx, corpusID, question, q.topK)
	if err != nil {
		return nil, err
	}

	prompt := buildQAPrompt(results, question)
	text, err := q.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("answering question: %w", err)
	}

	return &Answer{Text: text, Sources: results}, nil
}

// AskStream is Ask with token streaming. Sources are returned once the
// stream has completed.
func (q *QAEngine) AskStream(ctx context.Context, corpusID, question string, fn func(token string)) (*Answer, error) {
	if q.generator == nil {
		return nil, fmt.Errorf("no chat backend configured")
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", retrieval.ErrInvalidInput)
	}

	results, err := q.retriever.Retrieve(ctx, corpusID, question, q.topK)
	if err != nil {
		return nil, err
	}

	prompt := buildQAPrompt(results, question)
	var b strings.Builder
	err = q.generator.GenerateStream(ctx, prompt, func(token string) {
		b.WriteString(token)
		fn(token)
	})
	if err != nil {
		return nil, fmt.Errorf("answering question: %w", err)
	}

	return &Answer{Text: strings.TrimSpace(b.String()), Sources: results}, nil
}

// buildQAPrompt joins the retrieved chunk texts and fills the template.
func buildQAPrompt(results []models.RetrievalResult, question string) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Chunk.Text
	}
	return fmt.Sprintf(qaPromptTemplate, strings.Join(parts, contextSeparator), question)
}
