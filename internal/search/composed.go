package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// capture records the raw hits behind one composed search for later inspection.
type capture struct {
	Metadata struct {
		SearchType    string    `json:"search_type"`
		OriginalQuery string    `json:"original_query"`
		Timestamp     time.Time `json:"timestamp"`
	} `json:"metadata"`
	Queries map[string][]Result `json:"queries"`
}

// composed fans a fixed set of queries for one analysis domain and formats
// the combined hits as a text block. Individual query failures are reported
// inline rather than failing the whole search.
func (c *Client) composed(ctx context.Context, searchType, originalQuery string, queries map[string]string) (string, error) {
	var sections []string
	capt := capture{Queries: make(map[string][]Result)}
	capt.Metadata.SearchType = searchType
	capt.Metadata.OriginalQuery = originalQuery
	capt.Metadata.Timestamp = time.Now()

	failures := 0
	for header, query := range queries {
		results, err := c.Search(ctx, query)
		if err != nil {
			failures++
			sections = append(sections, fmt.Sprintf("=== %s ===\n(search failed: %v)\n", header, err))
			continue
		}
		capt.Queries[header] = results
		sections = append(sections, formatResults(fmt.Sprintf("=== %s ===", header), results))
	}

	if failures == len(queries) {
		return "", fmt.Errorf("all %s searches failed", searchType)
	}

	if c.dataDir != "" {
		if err := c.saveCapture(searchType, capt); err != nil {
			log.Printf("[search] failed to save %s capture: %v", searchType, err)
		}
	}

	return strings.Join(sections, "\n"), nil
}

// ProductSearch gathers pricing, availability, and popularity data.
func (c *Client) ProductSearch(ctx context.Context, query string) (string, error) {
	return c.composed(ctx, "product", query, map[string]string{
		"PRICING":      fmt.Sprintf("%s price retail cost MSRP", query),
		"AVAILABILITY": fmt.Sprintf("%s availability stock inventory", query),
		"POPULARITY":   fmt.Sprintf("%s popularity trends demand", query),
	})
}

// CompetitorSearch gathers competitor and market positioning data.
func (c *Client) CompetitorSearch(ctx context.Context, query string) (string, error) {
	return c.composed(ctx, "competitor", query, map[string]string{
		"COMPETITORS": fmt.Sprintf("%s competitors alternatives comparison", query),
		"POSITIONING": fmt.Sprintf("%s market positioning market share", query),
	})
}

// SentimentSearch gathers review and feedback data.
func (c *Client) SentimentSearch(ctx context.Context, query string) (string, error) {
	return c.composed(ctx, "sentiment", query, map[string]string{
		"REVIEWS":    fmt.Sprintf("%s reviews ratings customer feedback", query),
		"COMPLAINTS": fmt.Sprintf("%s complaints problems issues", query),
	})
}
