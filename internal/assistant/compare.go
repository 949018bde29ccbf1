// ABOUTME: Document comparison via pairwise chunk similarity plus LLM narrative
// ABOUTME: Reports overall similarity, the closest chunk pairs, and a summary
package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aniruddha1321/Athena/internal/llm"
	"github.com/aniruddha1321/Athena/internal/models"
	"github.com/aniruddha1321/Athena/internal/retrieval"
)

const (
	// DefaultCompareChunkSize chunks documents coarsely for comparison.
	DefaultCompareChunkSize = 500
	// DefaultCompareOverlap keeps chunk boundaries from splitting shared
	// passages.
	DefaultCompareOverlap = 100
	// DefaultTopPairs is how many closest chunk pairs a comparison reports.
	DefaultTopPairs = 3
)

const comparePromptTemplate = `You are a research assistant. Compare the two documents below. Describe their common themes, their key differences, and which topics each covers that the other does not. Be concise.

Document A (%s):
%s

Document B (%s):
%s

Comparison:`

// ChunkPair is one aligned pair of chunks across two documents.
type ChunkPair struct {
	A          models.Chunk `json:"a"`
	B          models.Chunk `json:"b"`
	Similarity float64      `json:"similarity"` // normalized to [0,1]
}

// Comparison is the result of comparing two documents.
type Comparison struct {
	MeanSimilarity float64     `json:"mean_similarity"` // normalized to [0,1]
	TopPairs       []ChunkPair `json:"top_pairs"`
	Summary        string      `json:"summary,omitempty"`
}

// Comparer measures how similar two documents are. The generator is
// optional; without one, Compare returns metrics only.
type Comparer struct {
	embedder  retrieval.Embedder
	generator llm.Generator
	chunkSize int
	overlap   int
	topPairs  int
}

// NewComparer wires an embedder and optional generator with chunking
// defaults.
func NewComparer(embedder retrieval.Embedder, generator llm.Generator) *Comparer {
	return &Comparer{
		embedder:  embedder,
		generator: generator,
		chunkSize: DefaultCompareChunkSize,
		overlap:   DefaultCompareOverlap,
		topPairs:  DefaultTopPairs,
	}
}

// Compare chunks and embeds both documents, scores every cross-document
// chunk pair, and reports the mean of each A-chunk's best match plus the
// closest pairs overall. Similarities use the same [0,1] normalization as
// retrieval scores.
func (c *Comparer) Compare(ctx context.Context, labelA, textA, labelB, textB string) (*Comparison, error) {
	chunksA, vectorsA, err := c.embedDocument(ctx, labelA, textA)
	if err != nil {
		return nil, err
	}
	chunksB, vectorsB, err := c.embedDocument(ctx, labelB, textB)
	if err != nil {
		return nil, err
	}

	var pairs []ChunkPair
	var bestSum float64
	for i := range chunksA {
		best := 0.0
		for j := range chunksB {
			cos := retrieval.CosineSimilarity(vectorsA[i], vectorsB[j])
			sim := (1 + cos) / 2
			if sim > best {
				best = sim
			}
			pairs = append(pairs, ChunkPair{A: chunksA[i], B: chunksB[j], Similarity: sim})
		}
		bestSum += best
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})
	if len(pairs) > c.topPairs {
		pairs = pairs[:c.topPairs]
	}

	result := &Comparison{
		MeanSimilarity: bestSum / float64(len(chunksA)),
		TopPairs:       pairs,
	}

	if c.generator != nil {
		prompt := fmt.Sprintf(comparePromptTemplate,
			labelA, truncateForPrompt(textA), labelB, truncateForPrompt(textB))
		summary, err := c.generator.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("summarizing comparison: %w", err)
		}
		result.Summary = summary
	}
	return result, nil
}

// embedDocument chunks one document and embeds every chunk.
func (c *Comparer) embedDocument(ctx context.Context, label, text string) ([]models.Chunk, [][]float64, error) {
	chunks, err := retrieval.Split(text, label, c.chunkSize, c.overlap)
	if err != nil {
		return nil, nil, err
	}
	if len(chunks) == 0 {
		return nil, nil, fmt.Errorf("%w: document %q chunked to nothing", retrieval.ErrEmptyCorpus, label)
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding document %q: %w", label, err)
	}
	if len(vectors) != len(chunks) {
		return nil, nil, fmt.Errorf("%w: expected %d vectors, got %d",
			retrieval.ErrEmbeddingUnavailable, len(chunks), len(vectors))
	}
	return chunks, vectors, nil
}

// truncateForPrompt bounds raw document text included in the comparison
// prompt.
func truncateForPrompt(text string) string {
	const maxRunes = 4000
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes]) + " ..."
}
