// ABOUTME: Embedder capability consumed by the retrieval engine
// ABOUTME: Implementations map text to fixed-dimension vectors
package retrieval

import "context"

// Embedder turns text into fixed-dimension vectors. Implementations must
// return vectors of exactly Dimension() length on every call and must be
// referentially transparent (same text, same vector) so results are
// cacheable. Backend failures surface wrapped in ErrEmbeddingUnavailable.
type Embedder interface {
	// Dimension reports the fixed output vector length.
	Dimension() int

	// Embed converts a batch of texts to vectors, preserving order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// EmbedOne converts a single text (typically a query) to a vector.
	EmbedOne(ctx context.Context, text string) ([]float64, error)
}
