// ABOUTME: Shared types and HTTP plumbing for the thin web search clients
// ABOUTME: DuckDuckGo and Arxiv are external collaborators, not engine components
package websearch

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single search request.
	DefaultTimeout = 15 * time.Second

	userAgent = "athena-research-assistant/1.0"
)

// Result is one search hit from any backend.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"` // "duckduckgo" or "arxiv"
}

// newHTTPClient returns the shared client configuration for search backends.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Dedupe removes results with duplicate URLs, keeping the first occurrence
// and preserving order.
func Dedupe(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
	}
	return out
}
