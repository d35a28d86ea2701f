package orchestrator

import (
	"context"

	"marketscope/internal/extract"
)

// rawResponseLimit caps the raw_response copy carried on every record.
// Truncation counts runes so multi-byte text is never split mid-character;
// synthesis truncation uses the same helper.
const rawResponseLimit = 1000

// Execute runs one named task against one agent handle and returns a record.
// It never returns an error and never panics: invocation failure becomes an
// error record tagged with the task name, and extraction failure is already
// data by contract.
func Execute(ctx context.Context, taskName, prompt string, handle Agent) extract.Record {
	resp, err := handle.Invoke(ctx, prompt)
	if err != nil {
		debugLog("[executor] %s agent failed: %v", taskName, err)
		return extract.Record{
			"error":        err.Error(),
			"agent":        taskName,
			"raw_response": "Failed to get response",
		}
	}

	text := resp.Normalize()
	debugLog("[executor] %s raw response: %s", taskName, truncateRunes(text, 200))

	rec := extract.Extract(text)
	rec["agent_name"] = taskName
	rec["raw_response"] = truncateRunes(text, rawResponseLimit)

	return rec
}

// truncateRunes returns s unchanged when it has fewer than limit runes,
// otherwise the first limit runes with an ellipsis marker.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) < limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
