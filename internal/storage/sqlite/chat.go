// ABOUTME: Chat history storage operations for SQLite
// ABOUTME: Persists conversation turns per session for recall across runs
package sqlite

import (
	"context"
	"fmt"

	"github.com/aniruddha1321/Athena/internal/models"
)

// ChatStore handles chat turn persistence
type ChatStore struct {
	db *DB
}

// NewChatStore creates a new ChatStore
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// AppendTurn stores one exchange for a session
func (s *ChatStore) AppendTurn(ctx context.Context, sessionID string, turn models.ChatTurn) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO chat_turns (id, session_id, user_message, assistant_message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, turn.ID, sessionID, turn.User, turn.Assistant, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit turns for a session, oldest first
func (s *ChatStore) RecentTurns(ctx context.Context, sessionID string, limit int) ([]models.ChatTurn, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, user_message, assistant_message, created_at
		FROM (
			SELECT id, user_message, assistant_message, created_at
			FROM chat_turns
			WHERE session_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, id ASC
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []models.ChatTurn
	for rows.Next() {
		var turn models.ChatTurn
		if err := rows.Scan(&turn.ID, &turn.User, &turn.Assistant, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// Sessions lists distinct session IDs, most recently active first
func (s *ChatStore) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT session_id, MAX(created_at) AS last_active
		FROM chat_turns
		GROUP BY session_id
		ORDER BY last_active DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []string
	for rows.Next() {
		var id, lastActive string
		if err := rows.Scan(&id, &lastActive); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}
