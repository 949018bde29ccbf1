// ABOUTME: Sliding-window chunker that splits text into overlapping segments
// ABOUTME: Offsets are rune positions verifiable against the source text
package retrieval

import (
	"fmt"
	"strings"

	"github.com/aniruddha1321/Athena/internal/models"
)

// Split partitions text into chunks of chunkSize runes, advancing by
// chunkSize-overlap each step. The final chunk may be shorter and is kept
// unless it is whitespace-only. Chunk IDs are assigned in order starting
// at zero. Split is a pure function of its inputs.
func Split(text, sourceID string, chunkSize, overlap int) ([]models.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidInput)
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, chunk size), got %d", ErrInvalidInput, overlap)
	}

	runes := []rune(text)
	step := chunkSize - overlap

	var chunks []models.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		segment := string(runes[start:end])
		if strings.TrimSpace(segment) != "" {
			chunks = append(chunks, models.Chunk{
				ID:       len(chunks),
				Text:     segment,
				Start:    start,
				End:      end,
				SourceID: sourceID,
			})
		}

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
