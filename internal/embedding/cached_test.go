// ABOUTME: Tests for the caching embedder decorator
// ABOUTME: Verifies hit/miss behavior and resilience to cache failures

package embedding

import (
	"context"
	"errors"
	"testing"
)

// memoryCache is a map-backed Cache for tests.
type memoryCache struct {
	data    map[string][]float64
	failGet bool
	failPut bool
	gets    int
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]float64)}
}

func (c *memoryCache) GetCachedEmbedding(model, textHash string) ([]float64, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, errors.New("cache read failed")
	}
	vec, ok := c.data[model+":"+textHash]
	return vec, ok, nil
}

func (c *memoryCache) PutCachedEmbedding(model, textHash string, vector []float64) error {
	c.puts++
	if c.failPut {
		return errors.New("cache write failed")
	}
	c.data[model+":"+textHash] = vector
	return nil
}

// countingEmbedder wraps LexicalEmbedder and counts Embed calls.
type countingEmbedder struct {
	*LexicalEmbedder
	embedded int
}

func (e *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	e.embedded += len(texts)
	return e.LexicalEmbedder.Embed(ctx, texts)
}

func TestCachedEmbedder_SecondCallHitsCache(t *testing.T) {
	inner := &countingEmbedder{LexicalEmbedder: NewLexicalEmbedder(64)}
	cache := newMemoryCache()
	e := NewCachedEmbedder(inner, cache)
	ctx := context.Background()

	first, err := e.EmbedOne(ctx, "the same text")
	if err != nil {
		t.Fatalf("EmbedOne() error = %v", err)
	}
	second, err := e.EmbedOne(ctx, "the same text")
	if err != nil {
		t.Fatalf("EmbedOne() error = %v", err)
	}

	if inner.embedded != 1 {
		t.Errorf("Inner embedder saw %d texts, want 1", inner.embedded)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Cached vector differs at %d", i)
		}
	}
}

func TestCachedEmbedder_BatchMixesHitsAndMisses(t *testing.T) {
	inner := &countingEmbedder{LexicalEmbedder: NewLexicalEmbedder(64)}
	cache := newMemoryCache()
	e := NewCachedEmbedder(inner, cache)
	ctx := context.Background()

	if _, err := e.EmbedOne(ctx, "warm"); err != nil {
		t.Fatalf("EmbedOne() error = %v", err)
	}

	vectors, err := e.Embed(ctx, []string{"cold one", "warm", "cold two"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("Embed() returned %d vectors, want 3", len(vectors))
	}
	// One warm hit, two cold misses on top of the initial warm-up.
	if inner.embedded != 3 {
		t.Errorf("Inner embedder saw %d texts, want 3 (1 warm-up + 2 misses)", inner.embedded)
	}
	for i, vec := range vectors {
		if len(vec) != 64 {
			t.Errorf("Vector %d has length %d, want 64", i, len(vec))
		}
	}
}

func TestCachedEmbedder_CacheFailuresAreNotFatal(t *testing.T) {
	inner := &countingEmbedder{LexicalEmbedder: NewLexicalEmbedder(64)}
	cache := newMemoryCache()
	cache.failGet = true
	cache.failPut = true
	e := NewCachedEmbedder(inner, cache)

	vec, err := e.EmbedOne(context.Background(), "text")
	if err != nil {
		t.Fatalf("EmbedOne() with failing cache error = %v", err)
	}
	if len(vec) != 64 {
		t.Errorf("len(vector) = %d, want 64", len(vec))
	}
}

func TestTextHash_DistinctAndStable(t *testing.T) {
	if TextHash("a") != TextHash("a") {
		t.Error("TextHash not stable for identical input")
	}
	if TextHash("a") == TextHash("b") {
		t.Error("TextHash collides for distinct short inputs")
	}
	if len(TextHash("anything")) != 64 {
		t.Errorf("TextHash length = %d, want 64 hex chars", len(TextHash("anything")))
	}
}
