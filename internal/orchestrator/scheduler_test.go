package orchestrator

import (
	"context"
	"strings"
	"testing"

	"marketscope/internal/extract"
)

func TestSpecialistTasks(t *testing.T) {
	tasks := SpecialistTasks("Adidas Samba sneakers")

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	expected := map[string]string{
		AgentProduct:    "Analyze product data for Adidas Samba sneakers. Focus on pricing, availability, and popularity.",
		AgentCompetitor: "Analyze competitive landscape for Adidas Samba sneakers. Identify competitors and market positioning.",
		AgentSentiment:  "Analyze customer sentiment for Adidas Samba sneakers. Extract themes from reviews and feedback.",
	}

	order := []string{AgentProduct, AgentCompetitor, AgentSentiment}
	for i, task := range tasks {
		if task.Name != order[i] {
			t.Errorf("task %d: expected %s, got %s", i, order[i], task.Name)
		}
		if task.Prompt != expected[task.Name] {
			t.Errorf("%s: unexpected prompt %q", task.Name, task.Prompt)
		}
	}
}

func TestRunAllSuccess(t *testing.T) {
	registry := allSpecialists(respondWith("{\"finding\": \"ok\"}"))
	scheduler := NewScheduler(registry)

	results := scheduler.RunAll(context.Background(), "Test Product")

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, name := range SpecialistNames {
		rec, ok := results[name]
		if !ok {
			t.Fatalf("missing result for %s", name)
		}
		if extract.IsError(rec) {
			t.Errorf("%s: unexpected error %v", name, rec["error"])
		}
		if rec["finding"] != "ok" {
			t.Errorf("%s: unexpected finding %v", name, rec["finding"])
		}
	}
}

func TestRunAllOneTaskFails(t *testing.T) {
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentProduct:    respondWith("{\"price\": \"$120\"}"),
		AgentCompetitor: failWith("rate limited"),
		AgentSentiment:  respondWith("{\"sentiment\": \"positive\"}"),
	}}
	scheduler := NewScheduler(registry)

	results := scheduler.RunAll(context.Background(), "Test Product")

	success := 0
	for _, rec := range results {
		if !extract.IsError(rec) {
			success++
		}
	}
	if success != 2 {
		t.Errorf("expected 2 success entries, got %d", success)
	}

	failed := results[AgentCompetitor]
	if failed["error"] != "rate limited" {
		t.Errorf("expected rate limited error, got %v", failed["error"])
	}
	if failed["agent"] != AgentCompetitor {
		t.Errorf("expected failure tagged with task name, got %v", failed["agent"])
	}

	// Siblings unaffected in content.
	if results[AgentProduct]["price"] != "$120" {
		t.Errorf("product result affected by sibling failure: %v", results[AgentProduct])
	}
	if results[AgentSentiment]["sentiment"] != "positive" {
		t.Errorf("sentiment result affected by sibling failure: %v", results[AgentSentiment])
	}
}

func TestRunAllWorkerPanicIsolated(t *testing.T) {
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentProduct:    respondWith("{\"ok\": true}"),
		AgentCompetitor: panicWith("worker blew up"),
		AgentSentiment:  respondWith("{\"ok\": true}"),
	}}
	scheduler := NewScheduler(registry)

	results := scheduler.RunAll(context.Background(), "Test Product")

	if len(results) != 3 {
		t.Fatalf("expected all 3 terminal states, got %d", len(results))
	}

	failed := results[AgentCompetitor]
	if !extract.IsError(failed) {
		t.Fatal("expected error record for panicking worker")
	}
	if !strings.Contains(failed["error"].(string), "worker blew up") {
		t.Errorf("expected panic message, got %v", failed["error"])
	}
	if failed["agent"] != AgentCompetitor {
		t.Errorf("expected agent tag, got %v", failed["agent"])
	}

	if extract.IsError(results[AgentProduct]) || extract.IsError(results[AgentSentiment]) {
		t.Error("sibling tasks affected by panic")
	}
}

func TestRunAllMissingAgent(t *testing.T) {
	registry := &fakeRegistry{agents: map[string]Agent{
		AgentProduct: respondWith("{}"),
	}}
	scheduler := NewScheduler(registry)

	results := scheduler.RunAll(context.Background(), "Test Product")

	if len(results) != 3 {
		t.Fatalf("expected 3 results even with missing agents, got %d", len(results))
	}
	if !extract.IsError(results[AgentCompetitor]) {
		t.Error("expected error record for unregistered competitor agent")
	}
	if !extract.IsError(results[AgentSentiment]) {
		t.Error("expected error record for unregistered sentiment agent")
	}
}

func TestRunAllUnparseableResponses(t *testing.T) {
	// All agents answer with prose that contains no JSON.
	registry := allSpecialists(respondWith(""))
	scheduler := NewScheduler(registry)

	results := scheduler.RunAll(context.Background(), "Test Product")

	for _, name := range SpecialistNames {
		if results[name]["error"] != "No JSON found" {
			t.Errorf("%s: expected No JSON found, got %v", name, results[name]["error"])
		}
	}
}
