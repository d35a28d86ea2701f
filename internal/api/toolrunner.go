package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// ToolHandler supplies tool schemas and executes tool calls for a ToolRunner.
type ToolHandler interface {
	Definitions() []anthropic.ToolUnionParam
	Execute(ctx context.Context, name string, input json.RawMessage) ToolResult
}

// ToolRunner runs an agentic loop against the Claude API with a set of tools.
// It iterates until the model ends its turn, feeding tool results back in.
type ToolRunner struct {
	client        *Client
	system        string
	tools         ToolHandler
	maxIterations int
}

// ToolRunnerConfig contains configuration for a ToolRunner.
type ToolRunnerConfig struct {
	Client *Client
	// System is the system prompt for every conversation.
	System string
	// Tools handles tool definitions and execution.
	Tools ToolHandler
	// MaxIterations bounds the tool loop. Zero selects the default.
	MaxIterations int
}

// NewToolRunner creates a new tool-loop runner.
func NewToolRunner(cfg ToolRunnerConfig) *ToolRunner {
	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = 10
	}

	return &ToolRunner{
		client:        cfg.Client,
		system:        cfg.System,
		tools:         cfg.Tools,
		maxIterations: maxIter,
	}
}

// Run executes the tool loop for a prompt and returns the final text response.
func (r *ToolRunner) Run(ctx context.Context, prompt string) (string, error) {
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}

	var tools []anthropic.ToolUnionParam
	if r.tools != nil {
		tools = r.tools.Definitions()
	}

	for iteration := 0; iteration < r.maxIterations; iteration++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		params := anthropic.MessageNewParams{
			Model:       r.client.Model(),
			MaxTokens:   r.client.maxTokens,
			Temperature: anthropic.Float(r.client.temperature),
			Messages:    messages,
			Tools:       tools,
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

		var assistantBlocks []anthropic.ContentBlockParamUnion
		var toolResultBlocks []anthropic.ContentBlockParamUnion

		for _, block := range resp.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(variant.Text))

			case anthropic.ToolUseBlock:
				toolResult := r.tools.Execute(ctx, variant.Name, variant.Input)

				assistantBlocks = append(assistantBlocks,
					anthropic.NewToolUseBlock(variant.ID, variant.Input, variant.Name))
				toolResultBlocks = append(toolResultBlocks,
					anthropic.NewToolResultBlock(variant.ID, toolResult.Content, toolResult.IsError))
			}
		}

		if resp.StopReason == anthropic.StopReasonEndTurn {
			var finalText strings.Builder
			for _, block := range resp.Content {
				if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
					finalText.WriteString(variant.Text)
				}
			}
			return finalText.String(), nil
		}

		messages = append(messages, anthropic.NewAssistantMessage(assistantBlocks...))
		if len(toolResultBlocks) > 0 {
			messages = append(messages, anthropic.NewUserMessage(toolResultBlocks...))
		}
	}

	return "", fmt.Errorf("max iterations (%d) reached without final response", r.maxIterations)
}
