// ABOUTME: Caching decorator for embedders
// ABOUTME: Memoizes (model, text) -> vector; sound because embedders are deterministic
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/aniruddha1321/Athena/internal/retrieval"
)

// Cache is the persistence surface the cached embedder writes through.
// Implementations key on the embedder name and a hash of the text.
type Cache interface {
	GetCachedEmbedding(model, textHash string) ([]float64, bool, error)
	PutCachedEmbedding(model, textHash string, vector []float64) error
}

// NamedEmbedder is an embedder that identifies itself for cache keying.
type NamedEmbedder interface {
	retrieval.Embedder
	Name() string
}

// CachedEmbedder wraps another embedder and memoizes its vectors through a
// Cache. Cache failures are treated as misses on read and ignored on write;
// the embedding result is never blocked on the cache.
type CachedEmbedder struct {
	inner NamedEmbedder
	cache Cache
}

// NewCachedEmbedder wraps inner with cache.
func NewCachedEmbedder(inner NamedEmbedder, cache Cache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: cache}
}

// Name returns the wrapped embedder's name.
func (e *CachedEmbedder) Name() string { return e.inner.Name() }

// Dimension returns the wrapped embedder's dimension.
func (e *CachedEmbedder) Dimension() int { return e.inner.Dimension() }

// Embed returns cached vectors where available and embeds only the misses.
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		vec, ok, err := e.cache.GetCachedEmbedding(e.inner.Name(), TextHash(text))
		if err == nil && ok && len(vec) == e.inner.Dimension() {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) > 0 {
		vectors, err := e.inner.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, i := range missIdx {
			out[i] = vectors[j]
			_ = e.cache.PutCachedEmbedding(e.inner.Name(), TextHash(texts[i]), vectors[j])
		}
	}

	return out, nil
}

// EmbedOne returns the cached vector for text or embeds and stores it.
func (e *CachedEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// TextHash returns the hex SHA-256 of text, the cache key component for a
// single input.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
