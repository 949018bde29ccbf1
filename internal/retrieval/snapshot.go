// ABOUTME: Snapshot save/load for built indexes with corruption detection
// ABOUTME: JSON envelope plus CRC32 over the little-endian vector bytes
package retrieval

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"math"
	"os"
	"path/filepath"
)

// snapshotVersion is bumped on incompatible format changes.
const snapshotVersion = 1

// Snapshot is the durable form of a built index: dimension, entry count,
// every (chunk, vector) pair, and a checksum over the vector bytes.
type Snapshot struct {
	Version   int          `json:"version"`
	CorpusID  string       `json:"corpus_id"`
	Dimension int          `json:"dimension"`
	Count     int          `json:"count"`
	Entries   []IndexEntry `json:"entries"`
	Checksum  uint32       `json:"checksum"`
}

// vectorChecksum computes CRC32 (IEEE) over the little-endian byte image of
// all vectors in entry order.
func vectorChecksum(entries []IndexEntry) uint32 {
	h := crc32.NewIEEE()
	var buf [8]byte
	for _, e := range entries {
		for _, v := range e.Vector {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return h.Sum32()
}

// SaveSnapshot writes the index for corpusID to path, creating parent
// directories as needed. The write goes through a temp file and rename so a
// crash never leaves a truncated snapshot behind.
func SaveSnapshot(path, corpusID string, index *VectorIndex) error {
	if index == nil || index.Len() == 0 {
		return fmt.Errorf("%w: nothing to snapshot for corpus %q", ErrEmptyIndex, corpusID)
	}

	entries := index.Entries()
	snap := Snapshot{
		Version:   snapshotVersion,
		CorpusID:  corpusID,
		Dimension: index.Dimension(),
		Count:     len(entries),
		Entries:   entries,
		Checksum:  vectorChecksum(entries),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot from path, verifies its checksum and shape,
// and rebuilds the index. Corrupt or inconsistent snapshots are rejected.
func LoadSnapshot(path string) (string, *VectorIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return "", nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return "", nil, fmt.Errorf("unsupported snapshot version: %d (expected %d)", snap.Version, snapshotVersion)
	}
	if snap.Count != len(snap.Entries) {
		return "", nil, fmt.Errorf("snapshot entry count mismatch: header %d, body %d", snap.Count, len(snap.Entries))
	}
	if got := vectorChecksum(snap.Entries); got != snap.Checksum {
		return "", nil, fmt.Errorf("snapshot checksum mismatch: stored %08x, computed %08x", snap.Checksum, got)
	}

	index, err := BuildIndex(snap.Entries)
	if err != nil {
		return "", nil, fmt.Errorf("rebuilding index from snapshot: %w", err)
	}
	if index.Len() > 0 && index.Dimension() != snap.Dimension {
		return "", nil, fmt.Errorf("snapshot dimension mismatch: header %d, vectors %d", snap.Dimension, index.Dimension())
	}

	return snap.CorpusID, index, nil
}
