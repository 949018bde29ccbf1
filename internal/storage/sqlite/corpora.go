// ABOUTME: Corpus and document storage operations for SQLite
// ABOUTME: A corpus's retrievable text is the concatenation of its documents
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aniruddha1321/Athena/internal/models"
)

// CorpusStore handles corpus and document persistence
type CorpusStore struct {
	db *DB
}

// NewCorpusStore creates a new CorpusStore
func NewCorpusStore(db *DB) *CorpusStore {
	return &CorpusStore{db: db}
}

// CreateCorpus registers a corpus by name and returns it. Creating an
// existing name returns the existing corpus.
func (s *CorpusStore) CreateCorpus(ctx context.Context, name string) (*models.CorpusInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("corpus name is required")
	}

	if existing, err := s.GetCorpusByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	info := &models.CorpusInfo{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO corpora (id, name, created_at) VALUES (?, ?, ?)
	`, info.ID, info.Name, info.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert corpus: %w", err)
	}
	return info, nil
}

// GetCorpusByName retrieves a corpus by name, or nil when absent.
func (s *CorpusStore) GetCorpusByName(ctx context.Context, name string) (*models.CorpusInfo, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT c.id, c.name, c.created_at,
		       (SELECT COUNT(*) FROM documents d WHERE d.corpus_id = c.id)
		FROM corpora c
		WHERE c.name = ?
	`, name)

	var info models.CorpusInfo
	err := row.Scan(&info.ID, &info.Name, &info.CreatedAt, &info.DocumentCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get corpus: %w", err)
	}
	return &info, nil
}

// ListCorpora returns all corpora with document counts, newest first.
func (s *CorpusStore) ListCorpora(ctx context.Context) ([]models.CorpusInfo, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT c.id, c.name, c.created_at,
		       (SELECT COUNT(*) FROM documents d WHERE d.corpus_id = c.id)
		FROM corpora c
		ORDER BY c.created_at DESC, c.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpora: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var corpora []models.CorpusInfo
	for rows.Next() {
		var info models.CorpusInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.CreatedAt, &info.DocumentCount); err != nil {
			return nil, fmt.Errorf("failed to scan corpus: %w", err)
		}
		corpora = append(corpora, info)
	}
	return corpora, rows.Err()
}

// DeleteCorpus removes a corpus and, via cascade, its documents.
func (s *CorpusStore) DeleteCorpus(ctx context.Context, corpusID string) error {
	_, err := s.db.Conn().ExecContext(ctx, `DELETE FROM corpora WHERE id = ?`, corpusID)
	if err != nil {
		return fmt.Errorf("failed to delete corpus: %w", err)
	}
	return nil
}

// AddDocument stores a document under a corpus and returns it.
func (s *CorpusStore) AddDocument(ctx context.Context, corpusID, title, content string) (*models.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("document content is required")
	}

	doc := &models.Document{
		ID:        uuid.NewString(),
		CorpusID:  corpusID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO documents (id, corpus_id, title, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, doc.ID, doc.CorpusID, doc.Title, doc.Content, doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}
	return doc, nil
}

// DocumentsByCorpus returns a corpus's documents in insertion order.
func (s *CorpusStore) DocumentsByCorpus(ctx context.Context, corpusID string) ([]models.Document, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, corpus_id, title, content, created_at
		FROM documents
		WHERE corpus_id = ?
		ORDER BY created_at ASC, id ASC
	`, corpusID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.CorpusID, &doc.Title, &doc.Content, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CorpusText concatenates a corpus's documents into the text the retrieval
// engine ingests. Documents are separated by blank lines so chunk boundaries
// do not glue the tail of one document to the head of the next word.
func (s *CorpusStore) CorpusText(ctx context.Context, corpusID string) (string, error) {
	docs, err := s.DocumentsByCorpus(ctx, corpusID)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	return strings.Join(parts, "\n\n"), nil
}
