// ABOUTME: Typed failures for the chunk-and-retrieve engine
// ABOUTME: Callers match with errors.Is / errors.As; nothing is silently coerced
package retrieval

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed chunking parameters or empty text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable is returned when the embedding backend cannot be
	// reached or fails. The engine never substitutes a zero vector.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrEmptyIndex is returned when a search runs against an unbuilt or empty index.
	ErrEmptyIndex = errors.New("empty index")

	// ErrEmptyCorpus is returned when a corpus was never ingested or chunked to nothing.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrBuildInProgress is returned when a build is already running for the corpus.
	ErrBuildInProgress = errors.New("build in progress")

	// ErrBuildTimeout is returned when waiting for an in-flight build exceeds the
	// configured bound.
	ErrBuildTimeout = errors.New("build timeout")
)

// DimensionMismatchError indicates a vector length inconsistent with the
// index dimension.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
