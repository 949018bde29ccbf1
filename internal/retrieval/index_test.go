// ABOUTME: Tests for the brute-force vector index
// ABOUTME: Verifies build validation, ranking, tie-breaking, and score bounds

package retrieval

import (
	"errors"
	"math"
	"testing"

	"github.com/aniruddha1321/Athena/internal/models"
)

func entry(id int, text string, vector ...float64) IndexEntry {
	return IndexEntry{
		Chunk:  models.Chunk{ID: id, Text: text, Start: 0, End: len(text), SourceID: "doc"},
		Vector: vector,
	}
}

func TestBuildIndex_Empty(t *testing.T) {
	idx, err := BuildIndex(nil)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}

	_, err = idx.Search([]float64{1, 0}, 3)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Search() on empty index error = %v, want ErrEmptyIndex", err)
	}
}

func TestBuildIndex_DimensionMismatch(t *testing.T) {
	entries := []IndexEntry{
		entry(0, "a", 1, 0, 0),
		entry(1, "b", 0, 1), // wrong length
	}

	_, err := BuildIndex(entries)
	var dm *DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("BuildIndex() error = %v, want DimensionMismatchError", err)
	}
	if dm.Expected != 3 || dm.Actual != 2 {
		t.Errorf("DimensionMismatchError = {%d, %d}, want {3, 2}", dm.Expected, dm.Actual)
	}
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx, err := BuildIndex([]IndexEntry{entry(0, "a", 1, 0)})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	_, err = idx.Search([]float64{1, 0, 0}, 1)
	var dm *DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("Search() error = %v, want DimensionMismatchError", err)
	}
}

func TestSearch_InvalidK(t *testing.T) {
	idx, _ := BuildIndex([]IndexEntry{entry(0, "a", 1, 0)})
	for _, k := range []int{0, -1} {
		if _, err := idx.Search([]float64{1, 0}, k); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Search(k=%d) error = %v, want ErrInvalidInput", k, err)
		}
	}
}

func TestSearch_RankingAndScores(t *testing.T) {
	idx, err := BuildIndex([]IndexEntry{
		entry(0, "east", 1, 0),
		entry(1, "north", 0, 1),
		entry(2, "west", -1, 0),
		entry(3, "northeast", 1, 1),
	})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	results, err := idx.Search([]float64{1, 0}, 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Search() returned %d results, want 4", len(results))
	}

	wantOrder := []int{0, 3, 1, 2} // cos: 1, 0.707, 0, -1
	for i, want := range wantOrder {
		if results[i].Chunk.ID != want {
			t.Errorf("Rank %d chunk ID = %d, want %d", i, results[i].Chunk.ID, want)
		}
		if results[i].Rank != i {
			t.Errorf("Result %d Rank = %d, want %d", i, results[i].Rank, i)
		}
	}

	// Scores are non-increasing and within [0,1].
	for i, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("Result %d score %f out of [0,1]", i, r.Score)
		}
		if i > 0 && r.Score > results[i-1].Score {
			t.Errorf("Scores not non-increasing at rank %d: %f > %f", i, r.Score, results[i-1].Score)
		}
	}

	// Exact self-match scores 1, opposite direction scores 0.
	if math.Abs(results[0].Score-1.0) > 1e-9 {
		t.Errorf("Self-similar score = %f, want 1.0", results[0].Score)
	}
	if math.Abs(results[3].Score-0.0) > 1e-9 {
		t.Errorf("Opposite score = %f, want 0.0", results[3].Score)
	}
}

func TestSearch_TieBrokenByLowerChunkID(t *testing.T) {
	// Two entries with identical vectors: insertion order (lower ID) wins.
	idx, err := BuildIndex([]IndexEntry{
		entry(7, "later", 0, 1),
		entry(3, "earlier", 0, 1),
		entry(5, "middle", 1, 0),
	})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	results, err := idx.Search([]float64{0, 1}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if results[0].Chunk.ID != 3 || results[1].Chunk.ID != 7 {
		t.Errorf("Tie order = [%d, %d], want [3, 7]", results[0].Chunk.ID, results[1].Chunk.ID)
	}
}

func TestSearch_KClampedToEntryCount(t *testing.T) {
	idx, _ := BuildIndex([]IndexEntry{
		entry(0, "a", 1, 0),
		entry(1, "b", 0, 1),
	})

	results, err := idx.Search([]float64{1, 1}, 50)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Search() returned %d results, want 2", len(results))
	}

	seen := make(map[int]bool)
	for _, r := range results {
		if seen[r.Chunk.ID] {
			t.Errorf("Duplicate chunk ID %d in results", r.Chunk.ID)
		}
		seen[r.Chunk.ID] = true
	}
}

func TestSearch_ResultsSurviveRebuild(t *testing.T) {
	entries := []IndexEntry{entry(0, "original", 1, 0)}
	idx, _ := BuildIndex(entries)

	results, err := idx.Search([]float64{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// Mutating the caller's entry slice must not reach prior results.
	entries[0].Chunk.Text = "mutated"
	if _, err := BuildIndex([]IndexEntry{entry(9, "replacement", 0, 1)}); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	if results[0].Chunk.Text != "original" {
		t.Errorf("Prior result text = %q, want original", results[0].Chunk.Text)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}
