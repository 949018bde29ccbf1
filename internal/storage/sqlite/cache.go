// ABOUTME: Embedding cache storage for SQLite
// ABOUTME: Vectors are stored as little-endian float64 blobs keyed by model and text hash
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
)

// EmbedCache persists embedding vectors so repeat ingests of the same text
// skip the embedding backend.
type EmbedCache struct {
	db *DB
}

// NewEmbedCache creates a new EmbedCache
func NewEmbedCache(db *DB) *EmbedCache {
	return &EmbedCache{db: db}
}

// GetCachedEmbedding returns the cached vector for (model, textHash), with
// ok reporting whether it was present.
func (c *EmbedCache) GetCachedEmbedding(model, textHash string) ([]float64, bool, error) {
	var blob []byte
	err := c.db.QueryRow(`
		SELECT vector FROM embedding_cache WHERE model = ? AND text_hash = ?
	`, model, textHash).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached embedding: %w", err)
	}

	vector, err := decodeVector(blob)
	if err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

// PutCachedEmbedding stores or replaces the vector for (model, textHash).
func (c *EmbedCache) PutCachedEmbedding(model, textHash string, vector []float64) error {
	_, err := c.db.Exec(`
		INSERT INTO embedding_cache (model, text_hash, vector)
		VALUES (?, ?, ?)
		ON CONFLICT(model, text_hash) DO UPDATE SET vector = excluded.vector
	`, model, textHash, encodeVector(vector))
	if err != nil {
		return fmt.Errorf("failed to put cached embedding: %w", err)
	}
	return nil
}

// Purge drops all cached vectors for a model, for when the backend or its
// dimension changes.
func (c *EmbedCache) Purge(model string) (int64, error) {
	result, err := c.db.Exec(`DELETE FROM embedding_cache WHERE model = ?`, model)
	if err != nil {
		return 0, fmt.Errorf("failed to purge embedding cache: %w", err)
	}
	return result.RowsAffected()
}

func encodeVector(vector []float64) []byte {
	blob := make([]byte, 8*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

func decodeVector(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("malformed vector blob: %d bytes", len(blob))
	}
	vector := make([]float64, len(blob)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return vector, nil
}
