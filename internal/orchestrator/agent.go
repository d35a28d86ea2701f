// Package orchestrator coordinates the concurrent specialist analysis and
// the sequential synthesis step that together produce an analysis report.
package orchestrator

import "context"

// Response is a model reply. Exactly one representation is meaningful:
// Content carries structured replies, Text carries plain ones. Normalize
// picks the right one.
type Response struct {
	// Content is the structured-reply payload, preferred when present.
	Content string
	// Text is the plain-text payload.
	Text string
}

// Normalize returns the response text, preferring Content over Text.
func (r Response) Normalize() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Text
}

// Agent maps a prompt to a response. It stands in for the external
// model/search backend; each task uses its own handle so no handle is
// shared between concurrent tasks.
type Agent interface {
	Invoke(ctx context.Context, prompt string) (Response, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ctx context.Context, prompt string) (Response, error)

// Invoke calls the wrapped function.
func (f AgentFunc) Invoke(ctx context.Context, prompt string) (Response, error) {
	return f(ctx, prompt)
}
