// ABOUTME: DuckDuckGo HTML endpoint client for web search results
// ABOUTME: Parses the lite results page; no API key required
package websearch

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

var (
	ddgResultPattern  = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	ddgSnippetPattern = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
)

// DuckDuckGo searches the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	client     *http.Client
	endpoint   string
	maxResults int
}

// NewDuckDuckGo creates a client returning up to maxResults hits per query.
func NewDuckDuckGo(maxResults int, timeout time.Duration) *DuckDuckGo {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &DuckDuckGo{
		client:     newHTTPClient(timeout),
		endpoint:   duckDuckGoEndpoint,
		maxResults: maxResults,
	}
}

// Search runs query and returns deduplicated results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	results := d.parse(string(body))
	if len(results) > d.maxResults {
		results = results[:d.maxResults]
	}
	return results, nil
}

// parse extracts result links and snippets from the HTML page.
func (d *DuckDuckGo) parse(page string) []Result {
	links := ddgResultPattern.FindAllStringSubmatch(page, -1)
	snippets := ddgSnippetPattern.FindAllStringSubmatch(page, -1)

	var results []Result
	for i, link := range links {
		r := Result{
			Title:  cleanFragment(link[2]),
			URL:    resolveDDGLink(link[1]),
			Source: "duckduckgo",
		}
		if i < len(snippets) {
			r.Snippet = cleanFragment(snippets[i][1])
		}
		results = append(results, r)
	}
	return Dedupe(results)
}

// resolveDDGLink unwraps DuckDuckGo's redirect URLs (/l/?uddg=<target>).
func resolveDDGLink(href string) string {
	href = html.UnescapeString(href)
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "" {
		return "https:" + href
	}
	return href
}

// cleanFragment strips tags and entities from an HTML fragment.
func cleanFragment(fragment string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(fragment, "")))
}
