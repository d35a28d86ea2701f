package orchestrator

import (
	"context"
	"strings"
	"testing"

	"marketscope/internal/extract"
)

func TestSynthesizeBuildsOrderedPrompt(t *testing.T) {
	var captured string
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentOrchestrator: AgentFunc(func(ctx context.Context, prompt string) (Response, error) {
			captured = prompt
			return Response{Text: "{\"summary\": \"done\"}"}, nil
		}),
	}}

	results := map[string]extract.Record{
		AgentProduct:    {"price": "$120"},
		AgentCompetitor: {"rivals": []any{"Puma"}},
		AgentSentiment:  {"mood": "positive"},
	}

	rec := Synthesize(context.Background(), registry, "Adidas Samba", results)
	if extract.IsError(rec) {
		t.Fatalf("unexpected error: %v", rec["error"])
	}

	if !strings.Contains(captured, "PRODUCT: Adidas Samba") {
		t.Error("expected query in synthesis prompt")
	}

	// Section order is fixed: product, competitor, sentiment.
	product := strings.Index(captured, "=== PRODUCT INTELLIGENCE ===")
	competitor := strings.Index(captured, "=== COMPETITIVE INTELLIGENCE ===")
	sentiment := strings.Index(captured, "=== CUSTOMER SENTIMENT ===")
	if product == -1 || competitor == -1 || sentiment == -1 {
		t.Fatal("missing section headers in synthesis prompt")
	}
	if !(product < competitor && competitor < sentiment) {
		t.Error("section headers out of order")
	}

	if !strings.Contains(captured, "\"price\": \"$120\"") {
		t.Error("expected pretty-printed specialist record in prompt")
	}
}

func TestSynthesizeMissingEntriesDefaultEmpty(t *testing.T) {
	var captured string
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentOrchestrator: AgentFunc(func(ctx context.Context, prompt string) (Response, error) {
			captured = prompt
			return Response{Text: "{}"}, nil
		}),
	}}

	rec := Synthesize(context.Background(), registry, "q", map[string]extract.Record{})
	if extract.IsError(rec) {
		t.Fatalf("unexpected error: %v", rec["error"])
	}
	if strings.Count(captured, "{}") != 3 {
		t.Errorf("expected 3 empty records in prompt, got %d", strings.Count(captured, "{}"))
	}
}

func TestSynthesizeInvocationFailure(t *testing.T) {
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentOrchestrator: failWith("model unavailable"),
	}}

	rec := Synthesize(context.Background(), registry, "q", nil)

	if rec["error"] != "model unavailable" {
		t.Errorf("expected error message, got %v", rec["error"])
	}
	if rec["agent"] != AgentOrchestrator {
		t.Errorf("expected orchestrator agent tag, got %v", rec["agent"])
	}
}

func TestSynthesizeMissingAgent(t *testing.T) {
	registry := &fakeRegistry{agents: map[string]Agent{}}

	rec := Synthesize(context.Background(), registry, "q", nil)
	if !extract.IsError(rec) {
		t.Fatal("expected error record when orchestrator agent missing")
	}
	if rec["agent"] != AgentOrchestrator {
		t.Errorf("expected orchestrator agent tag, got %v", rec["agent"])
	}
}

func TestSynthesizeTruncatesRawResponse(t *testing.T) {
	long := "{\"ok\": true}" + strings.Repeat(" padding", 300)
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentOrchestrator: respondWith(long),
	}}

	rec := Synthesize(context.Background(), registry, "q", nil)

	raw, _ := rec["orchestrator_raw_response"].(string)
	if raw == "" {
		t.Fatal("expected orchestrator_raw_response")
	}
	if !strings.HasSuffix(raw, "...") {
		t.Error("expected ellipsis marker on truncated synthesis text")
	}
	if got := len([]rune(strings.TrimSuffix(raw, "..."))); got != 1000 {
		t.Errorf("expected 1000 runes before marker, got %d", got)
	}
}

func TestSynthesizeRunsOnErrorInputs(t *testing.T) {
	// Synthesis still runs when every specialist failed.
	var captured string
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentOrchestrator: AgentFunc(func(ctx context.Context, prompt string) (Response, error) {
			captured = prompt
			return Response{Text: "{\"assessment\": \"insufficient data\"}"}, nil
		}),
	}}

	results := map[string]extract.Record{
		AgentProduct:    {"error": "No JSON found", "raw_text": ""},
		AgentCompetitor: {"error": "No JSON found", "raw_text": ""},
		AgentSentiment:  {"error": "No JSON found", "raw_text": ""},
	}

	rec := Synthesize(context.Background(), registry, "Test Product", results)
	if extract.IsError(rec) {
		t.Fatalf("unexpected error: %v", rec["error"])
	}
	if !strings.Contains(captured, "No JSON found") {
		t.Error("expected specialist error records embedded in prompt")
	}
}
