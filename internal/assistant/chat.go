// ABOUTME: Conversational engine with bounded history and response caching
// ABOUTME: Optionally grounds each turn in corpus context when a corpus is attached
package assistant

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aniruddha1321/Athena/internal/llm"
	"github.com/aniruddha1321/Athena/internal/models"
	"github.com/aniruddha1321/Athena/internal/retrieval"
)

const (
	// DefaultHistoryLimit is how many past turns are included in each prompt.
	DefaultHistoryLimit = 6

	// DefaultChatTopK is how many chunks ground a corpus-attached turn.
	DefaultChatTopK = 3
)

const chatPromptTemplate = `You are a helpful research assistant. Answer the user's message, taking the conversation so far into account.%s

Conversation:
%s
User: %s
Assistant:`

// TurnStore persists chat history across sessions.
type TurnStore interface {
	AppendTurn(ctx context.Context, sessionID string, turn models.ChatTurn) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]models.ChatTurn, error)
}

// ChatEngine holds a rolling conversation. A corpus may be attached, in which
// case each turn is grounded in retrieved context like a QA call.
type ChatEngine struct {
	generator    llm.Generator
	retriever    *retrieval.Retriever
	store        TurnStore // optional
	sessionID    string
	historyLimit int
	topK         int

	mu       sync.Mutex
	corpusID string
	history  []models.ChatTurn
	cache    map[string]string // query hash -> response
}

// NewChatEngine creates a chat session. retriever and store may be nil;
// without a retriever, AttachCorpus has no effect on prompts.
func NewChatEngine(generator llm.Generator, retriever *retrieval.Retriever, store TurnStore, historyLimit int) *ChatEngine {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &ChatEngine{
		generator:    generator,
		retriever:    retriever,
		store:        store,
		sessionID:    uuid.NewString(),
		historyLimit: historyLimit,
		topK:         DefaultChatTopK,
		cache:        make(map[string]string),
	}
}

// SessionID identifies this conversation in the turn store.
func (c *ChatEngine) SessionID() string { return c.sessionID }

// AttachCorpus grounds subsequent turns in the named corpus. Empty detaches.
func (c *ChatEngine) AttachCorpus(corpusID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.corpusID = corpusID
}

// History returns a copy of the in-memory turns.
func (c *ChatEngine) History() []models.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatTurn, len(c.history))
	copy(out, c.history)
	return out
}

// Send generates a reply to message. Repeating an identical message against
// the same corpus hits an in-memory cache instead of the generator.
func (c *ChatEngine) Send(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: empty message", retrieval.ErrInvalidInput)
	}

	c.mu.Lock()
	key := queryKey(c.corpusID, message)
	cached, hit := c.cache[key]
	c.mu.Unlock()

	if hit {
		c.record(ctx, message, cached, key)
		return cached, nil
	}

	prompt, err := c.buildPrompt(ctx, message)
	if err != nil {
		return "", err
	}
	reply, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating chat reply: %w", err)
	}

	c.record(ctx, message, reply, key)
	return reply, nil
}

// record appends the turn to history, the cache, and the store if present.
func (c *ChatEngine) record(ctx context.Context, message, reply, key string) {
	turn := models.ChatTurn{
		ID:        uuid.NewString(),
		User:      message,
		Assistant: reply,
		CreatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.history = append(c.history, turn)
	c.cache[key] = reply
	c.mu.Unlock()

	if c.store != nil {
		// History persistence is best effort; a storage failure must not
		// lose the reply the user already has.
		_ = c.store.AppendTurn(ctx, c.sessionID, turn)
	}
}

// buildPrompt renders recent history, optional corpus context, and the new
// message into a single prompt.
func (c *ChatEngine) buildPrompt(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	corpusID := c.corpusID
	history := c.history
	if len(history) > c.historyLimit {
		history = history[len(history)-c.historyLimit:]
	}
	c.mu.Unlock()

	var contextBlock string
	if corpusID != "" && c.retriever != nil {
		results, err := c.retriever.Retrieve(ctx, corpusID, message, c.topK)
		switch {
		case err == nil:
			parts := make([]string, len(results))
			for i, r := range results {
				parts[i] = r.Chunk.Text
			}
			contextBlock = "\n\nRelevant documents:\n" + strings.Join(parts, contextSeparator)
		default:
			// An unusable corpus degrades to plain chat rather than failing
			// the turn.
			contextBlock = ""
		}
	}

	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.User, turn.Assistant)
	}
	return fmt.Sprintf(chatPromptTemplate, contextBlock, strings.TrimRight(b.String(), "\n"), message), nil
}

// queryKey hashes a corpus-scoped message for cache lookup.
func queryKey(corpusID, message string) string {
	sum := md5.Sum([]byte(corpusID + "\x00" + message))
	return hex.EncodeToString(sum[:])
}
