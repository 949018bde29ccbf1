// ABOUTME: Topic research combining web search, Arxiv papers, and LLM synthesis
// ABOUTME: Offline mode skips external sources and answers from the model alone
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/aniruddha1321/Athena/internal/llm"
	"github.com/aniruddha1321/Athena/internal/retrieval"
	"github.com/aniruddha1321/Athena/internal/websearch"
)

const sourceUnavailable = "(unavailable)"

const researchPromptTemplate = `You are a research assistant. Write a concise research summary on the topic below, synthesizing the web results and academic papers provided. Cite sources by title where relevant. If a section is marked (unavailable), rely on your own knowledge for that part.

Topic: %s

Web results:
%s

Academic papers:
%s

Summary:`

const offlinePromptTemplate = `You are a research assistant. Write a concise research summary on the following topic from your own knowledge.

Topic: %s

Summary:`

// Searcher is the slice of the web search clients the researcher needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Report is a synthesized research summary with the sources consulted.
type Report struct {
	Topic   string             `json:"topic"`
	Summary string             `json:"summary"`
	Web     []websearch.Result `json:"web,omitempty"`
	Papers  []websearch.Result `json:"papers,omitempty"`
}

// Researcher runs topic research. Web and Papers may be nil, which forces
// offline mode for that source.
type Researcher struct {
	generator llm.Generator
	web       Searcher
	papers    Searcher
	offline   bool
}

// NewResearcher wires a generator with optional search backends. offline
// skips both backends even when they are set.
func NewResearcher(generator llm.Generator, web, papers Searcher, offline bool) *Researcher {
	return &Researcher{generator: generator, web: web, papers: papers, offline: offline}
}

// Research gathers sources for topic and synthesizes a summary. A failing
// search backend degrades to an unavailable placeholder; only generation
// failures abort the report.
func (r *Researcher) Research(ctx context.Context, topic string) (*Report, error) {
	if r.generator == nil {
		return nil, fmt.Errorf("no chat backend configured")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("%w: empty topic", retrieval.ErrInvalidInput)
	}

	report := &Report{Topic: topic}

	var prompt string
	if r.offline || (r.web == nil && r.papers == nil) {
		prompt = fmt.Sprintf(offlinePromptTemplate, topic)
	} else {
		webBlock := sourceUnavailable
		if r.web != nil {
			if results, err := r.web.Search(ctx, topic); err == nil {
				report.Web = results
				webBlock = formatSources(results)
			}
		}

		paperBlock := sourceUnavailable
		if r.papers != nil {
			if results, err := r.papers.Search(ctx, topic); err == nil {
				report.Papers = results
				paperBlock = formatSources(results)
			}
		}

		prompt = fmt.Sprintf(researchPromptTemplate, topic, webBlock, paperBlock)
	}

	summary, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesizing research summary: %w", err)
	}
	report.Summary = summary
	return report, nil
}

// formatSources renders search results for inclusion in a prompt.
func formatSources(results []websearch.Result) string {
	if len(results) == 0 {
		return sourceUnavailable
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (%s)\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}
