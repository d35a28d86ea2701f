package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Runner provides simple text-in/text-out Claude API calls.
// This is used for synthesis and other non-tool tasks.
type Runner struct {
	client *Client
	system string
}

// NewRunner creates a new API runner with an optional system prompt.
func NewRunner(client *Client, system string) *Runner {
	return &Runner{client: client, system: system}
}

// Run executes a prompt and returns the text response.
// No tools are provided - this is for plain text completion tasks.
func (r *Runner) Run(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       r.client.Model(),
		MaxTokens:   r.client.maxTokens,
		Temperature: anthropic.Float(r.client.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if r.system != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: r.system},
		}
	}

	resp, err := r.client.sdk().Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("API call failed: %w", err)
	}

	r.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var result strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.WriteString(variant.Text)
		}
	}

	return result.String(), nil
}
