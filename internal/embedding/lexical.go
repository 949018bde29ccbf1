// ABOUTME: Deterministic local embedder using feature hashing over word tokens
// ABOUTME: Fixed dimension, no network; backs offline mode and tests
package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// DefaultLexicalDimension is the bucket count for the hashing embedder.
const DefaultLexicalDimension = 512

// LexicalEmbedder maps text to a fixed-dimension vector by hashing word
// tokens into buckets with sign hashing and L2-normalizing the counts.
// Texts that share words land close together under cosine similarity, which
// is the property the retrieval engine depends on. The mapping is a pure
// function of the text, so vectors are safely cacheable.
type LexicalEmbedder struct {
	dimension    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewLexicalEmbedder creates a hashing embedder with the given dimension;
// values <= 0 fall back to DefaultLexicalDimension.
func NewLexicalEmbedder(dimension int) *LexicalEmbedder {
	if dimension <= 0 {
		dimension = DefaultLexicalDimension
	}
	return &LexicalEmbedder{
		dimension:    dimension,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name identifies this embedder for cache keying.
func (e *LexicalEmbedder) Name() string { return "lexical" }

// Dimension returns the fixed output vector length.
func (e *LexicalEmbedder) Dimension() int { return e.dimension }

// Embed converts a batch of texts to vectors, preserving order.
func (e *LexicalEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

// EmbedOne converts a single text to a vector.
func (e *LexicalEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

func (e *LexicalEmbedder) embed(text string) []float64 {
	vec := make([]float64, e.dimension)
	for _, tok := range e.tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		bucket := int(sum % uint64(e.dimension))
		// Sign hashing spreads colliding tokens across both directions.
		if (sum>>32)&1 == 1 {
			vec[bucket]++
		} else {
			vec[bucket]--
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (e *LexicalEmbedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to",
		"of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were",
		"be", "been", "being", "it", "this", "that", "these", "those", "from",
		"up", "down", "over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before", "after",
		"above", "below", "out", "off", "own", "same", "too", "very", "can",
		"will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
