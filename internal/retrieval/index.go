// ABOUTME: Brute-force vector index with cosine similarity search
// ABOUTME: Immutable after build; O(n*d) build and query over all entries
package retrieval

import (
	"fmt"
	"math"
	"sort"

	"github.com/aniruddha1321/Athena/internal/models"
)

// IndexEntry pairs a chunk with its embedding vector.
type IndexEntry struct {
	Chunk  models.Chunk `json:"chunk"`
	Vector []float64    `json:"vector"`
}

// VectorIndex holds chunk vectors and answers top-k nearest-neighbor
// queries. The index shape is fixed at build time; Search never mutates it,
// so concurrent searches need no locking.
type VectorIndex struct {
	dimension int
	entries   []IndexEntry
}

// BuildIndex constructs a fresh index from entries. Every vector must have
// the same length as the first; a mismatch fails the whole build. Entries
// are copied so later mutation of the caller's slice cannot reach the index.
func BuildIndex(entries []IndexEntry) (*VectorIndex, error) {
	idx := &VectorIndex{}
	if len(entries) == 0 {
		return idx, nil
	}

	idx.dimension = len(entries[0].Vector)
	if idx.dimension == 0 {
		return nil, &DimensionMismatchError{Expected: 1, Actual: 0}
	}

	idx.entries = make([]IndexEntry, len(entries))
	for i, e := range entries {
		if len(e.Vector) != idx.dimension {
			return nil, fmt.Errorf("entry %d: %w", i,
				&DimensionMismatchError{Expected: idx.dimension, Actual: len(e.Vector)})
		}
		idx.entries[i] = e
	}

	return idx, nil
}

// Len reports the number of indexed entries.
func (idx *VectorIndex) Len() int { return len(idx.entries) }

// Dimension reports the vector dimension the index was built with.
func (idx *VectorIndex) Dimension() int { return idx.dimension }

// Entries returns a copy of the indexed entries, in insertion order.
func (idx *VectorIndex) Entries() []IndexEntry {
	out := make([]IndexEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Search returns the min(k, n) entries most similar to query, sorted by
// non-increasing score. Ties are broken by lower chunk ID so results are
// deterministic. Scores are (1+cosine)/2 clamped to [0,1], a monotonic
// transform of cosine distance that preserves the raw ranking.
func (idx *VectorIndex) Search(query []float64, k int) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidInput, k)
	}
	if len(idx.entries) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(query) != idx.dimension {
		return nil, &DimensionMismatchError{Expected: idx.dimension, Actual: len(query)}
	}

	type scored struct {
		entry      int
		similarity float64
	}
	candidates := make([]scored, len(idx.entries))
	for i := range idx.entries {
		candidates[i] = scored{entry: i, similarity: CosineSimilarity(query, idx.entries[i].Vector)}
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].similarity != candidates[b].similarity {
			return candidates[a].similarity > candidates[b].similarity
		}
		return idx.entries[candidates[a].entry].Chunk.ID < idx.entries[candidates[b].entry].Chunk.ID
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	results := make([]models.RetrievalResult, k)
	for i := 0; i < k; i++ {
		results[i] = models.RetrievalResult{
			Chunk: idx.entries[candidates[i].entry].Chunk,
			Score: similarityToScore(candidates[i].similarity),
			Rank:  i,
		}
	}
	return results, nil
}

// similarityToScore maps cosine similarity in [-1,1] to a score in [0,1].
func similarityToScore(similarity float64) float64 {
	score := (1 + similarity) / 2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths or zero-norm vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
