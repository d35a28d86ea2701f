package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	Content string
	IsError bool
}

// SearchFunc performs a web search for a query and returns formatted results.
type SearchFunc func(ctx context.Context, query string) (string, error)

// WebSearchTool exposes a single web_search tool backed by a SearchFunc.
// Each specialist agent carries its own instance wired to a domain-specific
// search composition.
type WebSearchTool struct {
	search SearchFunc
}

// NewWebSearchTool creates a web search tool around the given search function.
func NewWebSearchTool(search SearchFunc) *WebSearchTool {
	return &WebSearchTool{search: search}
}

// Definitions returns the tool schema for Claude API calls.
func (w *WebSearchTool) Definitions() []anthropic.ToolUnionParam {
	return []anthropic.ToolUnionParam{
		{
			OfTool: &anthropic.ToolParam{
				Name:        "web_search",
				Description: anthropic.String("Search the web for current information. Returns a formatted list of titles, URLs, and snippets."),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "The search query",
						},
					},
					Required: []string{"query"},
				},
			},
		},
	}
}

// Execute runs a tool by name with the given JSON input.
func (w *WebSearchTool) Execute(ctx context.Context, name string, input json.RawMessage) ToolResult {
	if name != "web_search" {
		return ToolResult{Content: fmt.Sprintf("Unknown tool: %s", name), IsError: true}
	}

	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return ToolResult{Content: fmt.Sprintf("Invalid parameters: %v", err), IsError: true}
	}
	if params.Query == "" {
		return ToolResult{Content: "Missing required parameter: query", IsError: true}
	}

	results, err := w.search(ctx, params.Query)
	if err != nil {
		return ToolResult{Content: fmt.Sprintf("Search failed: %v", err), IsError: true}
	}
	if results == "" {
		return ToolResult{Content: "No results found"}
	}

	return ToolResult{Content: results}
}
