// ABOUTME: Arxiv Atom API client for academic paper search
// ABOUTME: Queries export.arxiv.org and truncates abstracts for prompt building
package websearch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	arxivEndpoint = "http://export.arxiv.org/api/query"

	// DefaultArxivMaxChars bounds each abstract included in a prompt.
	DefaultArxivMaxChars = 2000
)

// atomFeed mirrors the subset of the Arxiv Atom response we consume.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	ID        string       `xml:"id"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// Arxiv searches the Arxiv export API.
type Arxiv struct {
	client     *http.Client
	endpoint   string
	maxResults int
	maxChars   int
}

// NewArxiv creates a client returning up to maxResults papers per query,
// with abstracts truncated to maxChars.
func NewArxiv(maxResults, maxChars int, timeout time.Duration) *Arxiv {
	if maxResults <= 0 {
		maxResults = 3
	}
	if maxChars <= 0 {
		maxChars = DefaultArxivMaxChars
	}
	return &Arxiv{
		client:     newHTTPClient(timeout),
		endpoint:   arxivEndpoint,
		maxResults: maxResults,
		maxChars:   maxChars,
	}
}

// Search queries Arxiv and returns papers as results, snippet = truncated
// abstract.
func (a *Arxiv) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", a.maxResults)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building arxiv request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding arxiv feed: %w", err)
	}

	return Dedupe(a.toResults(feed)), nil
}

func (a *Arxiv) toResults(feed atomFeed) []Result {
	results := make([]Result, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		summary := NormalizeSpace(entry.Summary)
		if len(summary) > a.maxChars {
			summary = summary[:a.maxChars]
		}
		results = append(results, Result{
			Title:   NormalizeSpace(entry.Title),
			URL:     strings.TrimSpace(entry.ID),
			Snippet: summary,
			Source:  "arxiv",
		})
	}
	return results
}

// NormalizeSpace collapses the newline-wrapped text Arxiv returns into
// single-spaced prose.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
