package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"marketscope/internal/extract"
)

// synthesisPrompt is the combined prompt template. Section order is fixed
// (product, competitor, sentiment) so synthesis output is reproducible for
// the same inputs.
const synthesisPrompt = `
MULTI-AGENT ANALYSIS SYNTHESIS REQUEST

PRODUCT: %s

SPECIALIST AGENT RESULTS:

=== PRODUCT INTELLIGENCE ===
%s

=== COMPETITIVE INTELLIGENCE ===
%s

=== CUSTOMER SENTIMENT ===
%s

Please synthesize these specialist findings into a comprehensive strategic analysis.
`

// Synthesize combines the specialist result set into one prompt, performs a
// single synthesis invocation, and extracts its structured output. Missing
// specialist entries default to an empty record. Any failure becomes an
// error record tagged "orchestrator"; this function never returns an error.
func Synthesize(ctx context.Context, registry Registry, query string, results map[string]extract.Record) extract.Record {
	prompt := fmt.Sprintf(synthesisPrompt,
		query,
		prettyRecord(results[AgentProduct]),
		prettyRecord(results[AgentCompetitor]),
		prettyRecord(results[AgentSentiment]),
	)

	handle, err := registry.Get(AgentOrchestrator)
	if err != nil {
		debugLog("[synthesis] failed: %v", err)
		return extract.Record{"error": err.Error(), "agent": AgentOrchestrator}
	}

	resp, err := handle.Invoke(ctx, prompt)
	if err != nil {
		debugLog("[synthesis] failed: %v", err)
		return extract.Record{"error": err.Error(), "agent": AgentOrchestrator}
	}

	text := resp.Normalize()
	rec := extract.Extract(text)
	rec["orchestrator_raw_response"] = truncateRunes(text, rawResponseLimit)

	debugLog("[synthesis] completed")
	return rec
}

// prettyRecord renders a record as indented JSON for the synthesis prompt.
// A nil record renders as an empty object.
func prettyRecord(rec extract.Record) string {
	if rec == nil {
		rec = extract.Record{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
