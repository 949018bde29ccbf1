// ABOUTME: Core value types shared across the retrieval engine and its consumers
// ABOUTME: Defines Chunk, RetrievalResult, Document, and ChatTurn
package models

import "time"

// Chunk is a bounded, offset-addressable slice of a source text and the unit
// of retrieval. Start and End are rune offsets into the original text, so the
// chunk text is reconstructible from the source. A Chunk is immutable once
// created; IDs are unique and monotonic within a corpus.
type Chunk struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	SourceID string `json:"source_id"`
}

// RetrievalResult is a scored chunk returned from a similarity search.
// Score is a normalized similarity in [0,1]; Rank is the zero-based position
// in the result list. Results are value snapshots and are never mutated by
// later index rebuilds.
type RetrievalResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Document is a single piece of ingested text belonging to a corpus.
type Document struct {
	ID        string    `json:"id"`
	CorpusID  string    `json:"corpus_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CorpusInfo summarizes a registered corpus.
type CorpusInfo struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DocumentCount int       `json:"document_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatTurn records one user/assistant exchange.
type ChatTurn struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	CreatedAt time.Time `json:"created_at"`
}
