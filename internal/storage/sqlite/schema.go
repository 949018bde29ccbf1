// ABOUTME: SQLite schema for the research assistant's local storage
// ABOUTME: Corpora, documents, chat history, and the embedding cache
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Registered corpora
CREATE TABLE IF NOT EXISTS corpora (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Documents ingested into a corpus
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    corpus_id TEXT NOT NULL REFERENCES corpora(id) ON DELETE CASCADE,
    title TEXT,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Chat history, one row per exchange
CREATE TABLE IF NOT EXISTS chat_turns (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    user_message TEXT,
    assistant_message TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Memoized embedding vectors keyed by model and text hash
CREATE TABLE IF NOT EXISTS embedding_cache (
    model TEXT NOT NULL,
    text_hash TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (model, text_hash)
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_documents_corpus ON documents(corpus_id);
CREATE INDEX IF NOT EXISTS idx_chat_turns_session ON chat_turns(session_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
