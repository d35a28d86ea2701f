// Package search provides the web-search backend used by specialist agents.
// It queries DuckDuckGo's HTML endpoint and composes multi-query searches
// per analysis domain (product, competitor, sentiment).
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const searchEndpoint = "https://html.duckduckgo.com/html/"

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Client performs web searches with bounded result counts and optional
// raw-capture persistence.
type Client struct {
	httpClient *http.Client
	maxResults int
	dataDir    string
}

// ClientConfig contains configuration for a search Client.
type ClientConfig struct {
	// MaxResults caps hits per query. Zero selects the default of 5.
	MaxResults int
	// DataDir receives raw search captures as JSON files. Empty disables capture.
	DataDir string
	// HTTPClient overrides the default HTTP client (for testing).
	HTTPClient *http.Client
}

// NewClient creates a search client.
func NewClient(cfg ClientConfig) *Client {
	maxResults := cfg.MaxResults
	if maxResults == 0 {
		maxResults = 5
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	return &Client{
		httpClient: httpClient,
		maxResults: maxResults,
		dataDir:    cfg.DataDir,
	}
}

// Search runs a single query and returns up to MaxResults hits.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	form := url.Values{"q": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "marketscope/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	results := parseResults(doc)
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results, nil
}

// parseResults walks the result page DOM collecting title links and snippets.
func parseResults(doc *html.Node) []Result {
	var results []Result
	var current *Result

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			if current != nil {
				results = append(results, *current)
			}
			current = &Result{
				Title: textContent(n),
				URL:   attr(n, "href"),
			}
		}
		if n.Type == html.ElementNode && hasClass(n, "result__snippet") && current != nil {
			current.Snippet = textContent(n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if current != nil {
		results = append(results, *current)
	}
	return results
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// formatResults renders hits as a numbered text block for the model.
func formatResults(header string, results []Result) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	if len(results) == 0 {
		sb.WriteString("(no results)\n")
	}
	return sb.String()
}
