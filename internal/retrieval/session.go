// ABOUTME: Retriever orchestrates chunking, embedding, and index search per corpus
// ABOUTME: Builds are copy-on-build with atomic publish; one build per corpus at a time
package retrieval

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aniruddha1321/Athena/internal/models"
)

const (
	// DefaultBuildTimeout bounds how long an ingest waits for an in-flight
	// build on the same corpus before failing with ErrBuildTimeout.
	DefaultBuildTimeout = 30 * time.Second

	// DefaultEmbedBatchSize is the number of chunk texts sent to the
	// embedder per batch call during a build.
	DefaultEmbedBatchSize = 32

	// DefaultEmbedConcurrency is the number of embedding batches in flight
	// at once during a build.
	DefaultEmbedConcurrency = 4
)

// Options configures a Retriever.
type Options struct {
	BuildTimeout     time.Duration
	EmbedBatchSize   int
	EmbedConcurrency int
}

// RetrievalSession bundles one corpus with the index built from it. The
// published index is an immutable snapshot; a rebuild constructs the new
// index in isolation and swaps the pointer, so in-flight searches against
// the old index complete unaffected.
type RetrievalSession struct {
	corpusID string
	index    atomic.Pointer[VectorIndex]
	buildSem chan struct{} // capacity 1: at most one build per corpus

	mu         sync.Mutex
	corpusText string
}

// CorpusID returns the corpus this session was built for.
func (s *RetrievalSession) CorpusID() string { return s.corpusID }

// Index returns the currently published index, or nil before the first build.
func (s *RetrievalSession) Index() *VectorIndex { return s.index.Load() }

// CorpusText returns the text the published index was built from.
func (s *RetrievalSession) CorpusText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corpusText
}

// Retriever answers "what are the k most relevant passages for this query"
// across named corpora. The embedder is injected at construction and shared
// by ingest and query paths so dimensions always agree.
type Retriever struct {
	embedder Embedder
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*RetrievalSession
}

// NewRetriever creates a Retriever using the given embedder.
func NewRetriever(embedder Embedder, opts Options) *Retriever {
	if opts.BuildTimeout <= 0 {
		opts.BuildTimeout = DefaultBuildTimeout
	}
	if opts.EmbedBatchSize <= 0 {
		opts.EmbedBatchSize = DefaultEmbedBatchSize
	}
	if opts.EmbedConcurrency <= 0 {
		opts.EmbedConcurrency = DefaultEmbedConcurrency
	}
	return &Retriever{
		embedder: embedder,
		opts:     opts,
		sessions: make(map[string]*RetrievalSession),
	}
}

// session returns the session for corpusID, creating it when create is set.
func (r *Retriever) session(corpusID string, create bool) *RetrievalSession {
	r.mu.RLock()
	s := r.sessions[corpusID]
	r.mu.RUnlock()
	if s != nil || !create {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s = r.sessions[corpusID]; s == nil {
		s = &RetrievalSession{
			corpusID: corpusID,
			buildSem: make(chan struct{}, 1),
		}
		r.sessions[corpusID] = s
	}
	return s
}

// Session returns the session for corpusID, or nil if never ingested.
func (r *Retriever) Session(corpusID string) *RetrievalSession {
	return r.session(corpusID, false)
}

// Drop discards the session for corpusID. Results already returned from
// searches remain valid; they are value snapshots.
func (r *Retriever) Drop(corpusID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, corpusID)
}

// Ingest chunks text, embeds every chunk, and publishes a fresh index for
// corpusID, replacing any previous one wholesale. If another build for the
// same corpus is in flight, Ingest waits up to the configured build timeout
// and then fails with ErrBuildTimeout. Any failure leaves the previously
// published index untouched.
func (r *Retriever) Ingest(ctx context.Context, corpusID, text string, chunkSize, overlap int) error {
	chunks, err := Split(text, corpusID, chunkSize, overlap)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: corpus %q chunked to nothing", ErrEmptyCorpus, corpusID)
	}

	s := r.session(corpusID, true)

	timer := time.NewTimer(r.opts.BuildTimeout)
	defer timer.Stop()
	select {
	case s.buildSem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrBuildTimeout, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("%w: corpus %q build still in flight after %s",
			ErrBuildTimeout, corpusID, r.opts.BuildTimeout)
	}
	defer func() { <-s.buildSem }()

	return r.build(ctx, s, text, chunks)
}

// TryIngest is the non-waiting variant of Ingest: it fails immediately with
// ErrBuildInProgress when a build for the corpus is already running.
func (r *Retriever) TryIngest(ctx context.Context, corpusID, text string, chunkSize, overlap int) error {
	chunks, err := Split(text, corpusID, chunkSize, overlap)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: corpus %q chunked to nothing", ErrEmptyCorpus, corpusID)
	}

	s := r.session(corpusID, true)
	select {
	case s.buildSem <- struct{}{}:
	default:
		return fmt.Errorf("%w: corpus %q", ErrBuildInProgress, corpusID)
	}
	defer func() { <-s.buildSem }()

	return r.build(ctx, s, text, chunks)
}

// build embeds chunks, constructs the index in isolation, and publishes it.
// The caller must hold the session's build slot.
func (r *Retriever) build(ctx context.Context, s *RetrievalSession, text string, chunks []models.Chunk) error {
	vectors, err := r.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	entries := make([]IndexEntry, len(chunks))
	for i := range chunks {
		entries[i] = IndexEntry{Chunk: chunks[i], Vector: vectors[i]}
	}
	index, err := BuildIndex(entries)
	if err != nil {
		return fmt.Errorf("building index for corpus %q: %w", s.corpusID, err)
	}

	s.mu.Lock()
	s.corpusText = text
	s.mu.Unlock()
	s.index.Store(index)
	return nil
}

// embedChunks embeds chunk texts in batches, preserving chunk order.
// Batches run in parallel, bounded by the configured concurrency.
func (r *Retriever) embedChunks(ctx context.Context, chunks []models.Chunk) ([][]float64, error) {
	vectors := make([][]float64, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.EmbedConcurrency)

	batch := r.opts.EmbedBatchSize
	for start := 0; start < len(chunks); start += batch {
		end := start + batch
		if end > len(chunks) {
			end = len(chunks)
		}
		start, end := start, end

		g.Go(func() error {
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = chunks[i].Text
			}
			batchVectors, err := r.embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
			}
			if len(batchVectors) != end-start {
				return fmt.Errorf("%w: expected %d vectors, got %d",
					ErrEmbeddingUnavailable, end-start, len(batchVectors))
			}
			copy(vectors[start:end], batchVectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Retrieve embeds the query and searches the corpus index, returning up to
// k results. A corpus that was never ingested fails with ErrEmptyCorpus,
// never an empty-list success; k larger than the entry count is clamped.
func (r *Retriever) Retrieve(ctx context.Context, corpusID, query string, k int) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidInput, k)
	}

	s := r.session(corpusID, false)
	if s == nil {
		return nil, fmt.Errorf("%w: corpus %q was never ingested", ErrEmptyCorpus, corpusID)
	}
	index := s.index.Load()
	if index == nil || index.Len() == 0 {
		return nil, fmt.Errorf("%w: corpus %q has no published index", ErrEmptyCorpus, corpusID)
	}

	vector, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	return index.Search(vector, k)
}

// Restore publishes a previously built index (for example one loaded from a
// snapshot) as the session for corpusID.
func (r *Retriever) Restore(corpusID string, index *VectorIndex) error {
	if index == nil || index.Len() == 0 {
		return fmt.Errorf("%w: refusing to restore empty index for corpus %q", ErrEmptyIndex, corpusID)
	}
	if d := r.embedder.Dimension(); d > 0 && index.Dimension() != d {
		return &DimensionMismatchError{Expected: d, Actual: index.Dimension()}
	}
	s := r.session(corpusID, true)
	s.index.Store(index)
	return nil
}
