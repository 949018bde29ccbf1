// ABOUTME: Tests for SQLite-backed corpus, chat, and embedding cache stores
// ABOUTME: Runs against in-memory databases
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aniruddha1321/Athena/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCorpusStore_CreateAndGet(t *testing.T) {
	store := NewCorpusStore(testDB(t))
	ctx := context.Background()

	created, err := store.CreateCorpus(ctx, "papers")
	if err != nil {
		t.Fatalf("CreateCorpus() error = %v", err)
	}
	if created.ID == "" || created.Name != "papers" {
		t.Errorf("created = %+v", created)
	}

	got, err := store.GetCorpusByName(ctx, "papers")
	if err != nil {
		t.Fatalf("GetCorpusByName() error = %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Errorf("GetCorpusByName() = %+v, want id %s", got, created.ID)
	}
}

func TestCorpusStore_CreateIsIdempotent(t *testing.T) {
	store := NewCorpusStore(testDB(t))
	ctx := context.Background()

	first, err := store.CreateCorpus(ctx, "notes")
	if err != nil {
		t.Fatalf("CreateCorpus() error = %v", err)
	}
	second, err := store.CreateCorpus(ctx, "notes")
	if err != nil {
		t.Fatalf("CreateCorpus() second call error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("second create returned new corpus %s, want %s", second.ID, first.ID)
	}
}

func TestCorpusStore_EmptyNameRejected(t *testing.T) {
	store := NewCorpusStore(testDB(t))
	if _, err := store.CreateCorpus(context.Background(), "  "); err == nil {
		t.Error("CreateCorpus() with blank name should fail")
	}
}

func TestCorpusStore_DocumentsAndText(t *testing.T) {
	store := NewCorpusStore(testDB(t))
	ctx := context.Background()

	corpus, err := store.CreateCorpus(ctx, "notes")
	if err != nil {
		t.Fatalf("CreateCorpus() error = %v", err)
	}

	if _, err := store.AddDocument(ctx, corpus.ID, "first", "alpha body"); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if _, err := store.AddDocument(ctx, corpus.ID, "second", "beta body"); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	docs, err := store.DocumentsByCorpus(ctx, corpus.ID)
	if err != nil {
		t.Fatalf("DocumentsByCorpus() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("DocumentsByCorpus() returned %d docs, want 2", len(docs))
	}
	if docs[0].Title != "first" || docs[1].Title != "second" {
		t.Errorf("document order = [%s, %s]", docs[0].Title, docs[1].Title)
	}

	text, err := store.CorpusText(ctx, corpus.ID)
	if err != nil {
		t.Fatalf("CorpusText() error = %v", err)
	}
	if text != "alpha body\n\nbeta body" {
		t.Errorf("CorpusText() = %q", text)
	}

	got, err := store.GetCorpusByName(ctx, "notes")
	if err != nil {
		t.Fatalf("GetCorpusByName() error = %v", err)
	}
	if got.DocumentCount != 2 {
		t.Errorf("DocumentCount = %d, want 2", got.DocumentCount)
	}
}

func TestCorpusStore_DeleteCascades(t *testing.T) {
	store := NewCorpusStore(testDB(t))
	ctx := context.Background()

	corpus, err := store.CreateCorpus(ctx, "doomed")
	if err != nil {
		t.Fatalf("CreateCorpus() error = %v", err)
	}
	if _, err := store.AddDocument(ctx, corpus.ID, "", "content"); err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}

	if err := store.DeleteCorpus(ctx, corpus.ID); err != nil {
		t.Fatalf("DeleteCorpus() error = %v", err)
	}

	docs, err := store.DocumentsByCorpus(ctx, corpus.ID)
	if err != nil {
		t.Fatalf("DocumentsByCorpus() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("documents survived corpus deletion: %d", len(docs))
	}
}

func TestCorpusStore_List(t *testing.T) {
	store := NewCorpusStore(testDB(t))
	ctx := context.Background()

	for _, name := range []string{"one", "two"} {
		if _, err := store.CreateCorpus(ctx, name); err != nil {
			t.Fatalf("CreateCorpus(%s) error = %v", name, err)
		}
	}

	corpora, err := store.ListCorpora(ctx)
	if err != nil {
		t.Fatalf("ListCorpora() error = %v", err)
	}
	if len(corpora) != 2 {
		t.Errorf("ListCorpora() returned %d corpora, want 2", len(corpora))
	}
}

func TestChatStore_AppendAndRecent(t *testing.T) {
	store := NewChatStore(testDB(t))
	ctx := context.Background()
	sessionID := uuid.NewString()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		turn := models.ChatTurn{
			ID:        uuid.NewString(),
			User:      "question",
			Assistant: "answer",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.AppendTurn(ctx, sessionID, turn); err != nil {
			t.Fatalf("AppendTurn() error = %v", err)
		}
	}

	turns, err := store.RecentTurns(ctx, sessionID, 2)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("RecentTurns() returned %d turns, want 2", len(turns))
	}
	if !turns[0].CreatedAt.Before(turns[1].CreatedAt) {
		t.Error("RecentTurns() not in chronological order")
	}
}

func TestChatStore_SessionsIsolated(t *testing.T) {
	store := NewChatStore(testDB(t))
	ctx := context.Background()

	a, b := uuid.NewString(), uuid.NewString()
	for _, sessionID := range []string{a, b} {
		turn := models.ChatTurn{ID: uuid.NewString(), User: "u", Assistant: "a", CreatedAt: time.Now().UTC()}
		if err := store.AppendTurn(ctx, sessionID, turn); err != nil {
			t.Fatalf("AppendTurn() error = %v", err)
		}
	}

	turns, err := store.RecentTurns(ctx, a, 10)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(turns) != 1 {
		t.Errorf("session %s has %d turns, want 1", a, len(turns))
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("Sessions() returned %d, want 2", len(sessions))
	}
}

func TestEmbedCache_RoundTrip(t *testing.T) {
	cache := NewEmbedCache(testDB(t))
	vector := []float64{0.5, -1.25, 3.0}

	if _, ok, err := cache.GetCachedEmbedding("lexical", "hash1"); err != nil || ok {
		t.Fatalf("GetCachedEmbedding() before put = ok %v, err %v", ok, err)
	}

	if err := cache.PutCachedEmbedding("lexical", "hash1", vector); err != nil {
		t.Fatalf("PutCachedEmbedding() error = %v", err)
	}

	got, ok, err := cache.GetCachedEmbedding("lexical", "hash1")
	if err != nil {
		t.Fatalf("GetCachedEmbedding() error = %v", err)
	}
	if !ok {
		t.Fatal("GetCachedEmbedding() ok = false after put")
	}
	if len(got) != len(vector) {
		t.Fatalf("vector length = %d, want %d", len(got), len(vector))
	}
	for i := range vector {
		if got[i] != vector[i] {
			t.Errorf("vector[%d] = %f, want %f", i, got[i], vector[i])
		}
	}
}

func TestEmbedCache_ModelsIsolated(t *testing.T) {
	cache := NewEmbedCache(testDB(t))

	if err := cache.PutCachedEmbedding("lexical", "h", []float64{1}); err != nil {
		t.Fatalf("PutCachedEmbedding() error = %v", err)
	}
	if _, ok, err := cache.GetCachedEmbedding("openai", "h"); err != nil || ok {
		t.Errorf("other model hit cache: ok %v, err %v", ok, err)
	}
}

func TestEmbedCache_OverwriteAndPurge(t *testing.T) {
	cache := NewEmbedCache(testDB(t))

	if err := cache.PutCachedEmbedding("lexical", "h", []float64{1}); err != nil {
		t.Fatalf("PutCachedEmbedding() error = %v", err)
	}
	if err := cache.PutCachedEmbedding("lexical", "h", []float64{2}); err != nil {
		t.Fatalf("PutCachedEmbedding() overwrite error = %v", err)
	}

	got, ok, err := cache.GetCachedEmbedding("lexical", "h")
	if err != nil || !ok {
		t.Fatalf("GetCachedEmbedding() = ok %v, err %v", ok, err)
	}
	if got[0] != 2 {
		t.Errorf("vector = %v, want overwritten value 2", got)
	}

	n, err := cache.Purge("lexical")
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Purge() removed %d rows, want 1", n)
	}
	if _, ok, _ := cache.GetCachedEmbedding("lexical", "h"); ok {
		t.Error("vector survived purge")
	}
}

func TestOpen_CreatesFileAndSchema(t *testing.T) {
	path := t.TempDir() + "/sub/athena.db"
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	if _, err := NewCorpusStore(db).CreateCorpus(context.Background(), "x"); err != nil {
		t.Errorf("schema not initialized: %v", err)
	}
}
