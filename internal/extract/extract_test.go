package extract

import (
	"strings"
	"testing"
)

func TestExtractFencedBlock(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"price\": \"$120\", \"stock\": \"in\"}\n```\nLet me know if you need more."
	rec := Extract(text)

	if IsError(rec) {
		t.Fatalf("unexpected error: %v", rec["error"])
	}
	if rec["price"] != "$120" {
		t.Errorf("expected price $120, got %v", rec["price"])
	}
	if rec["stock"] != "in" {
		t.Errorf("expected stock in, got %v", rec["stock"])
	}
}

func TestExtractFencedBlockCaseInsensitive(t *testing.T) {
	text := "```JSON\n{\"ok\": true}\n```"
	rec := Extract(text)

	if IsError(rec) {
		t.Fatalf("unexpected error: %v", rec["error"])
	}
	if rec["ok"] != true {
		t.Errorf("expected ok=true, got %v", rec["ok"])
	}
}

func TestExtractFencedBlockNoCloser(t *testing.T) {
	// Missing closing fence: take to end of text.
	text := "```json\n{\"a\": 1}"
	rec := Extract(text)

	if IsError(rec) {
		t.Fatalf("unexpected error: %v", rec["error"])
	}
	if rec["a"] != float64(1) {
		t.Errorf("expected a=1, got %v", rec["a"])
	}
}

func TestExtractFencedSameValueRegardlessOfProse(t *testing.T) {
	variants := []string{
		"```json\n{\"k\": \"v\"}\n```",
		"prose before\n```json\n{\"k\": \"v\"}\n```",
		"```json\n{\"k\": \"v\"}\n```\nprose after",
		"before ```json\n{\"k\": \"v\"}\n``` after",
	}
	for _, text := range variants {
		rec := Extract(text)
		if IsError(rec) {
			t.Errorf("%q: unexpected error %v", text, rec["error"])
			continue
		}
		if rec["k"] != "v" {
			t.Errorf("%q: expected k=v, got %v", text, rec["k"])
		}
	}
}

func TestExtractBareObject(t *testing.T) {
	text := "Sure! The result is {\"nested\": {\"deep\": [1, 2]}, \"n\": 3} as requested."
	rec := Extract(text)

	if IsError(rec) {
		t.Fatalf("unexpected error: %v", rec["error"])
	}
	nested, ok := rec["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested object, got %T", rec["nested"])
	}
	if _, ok := nested["deep"]; !ok {
		t.Error("expected deep key in nested object")
	}
}

func TestExtractNoJSON(t *testing.T) {
	text := "I could not find any data for that product."
	rec := Extract(text)

	if rec["error"] != "No JSON found" {
		t.Errorf("expected No JSON found, got %v", rec["error"])
	}
	if rec["raw_text"] != text {
		t.Errorf("raw_text not preserved: %v", rec["raw_text"])
	}
}

func TestExtractEmptyText(t *testing.T) {
	rec := Extract("")
	if rec["error"] != "No JSON found" {
		t.Errorf("expected No JSON found, got %v", rec["error"])
	}
	if rec["raw_text"] != "" {
		t.Errorf("expected empty raw_text, got %v", rec["raw_text"])
	}
}

func TestExtractUnbalancedBraces(t *testing.T) {
	text := "result: {\"a\": {\"b\": 1}"
	rec := Extract(text)

	if rec["error"] != "Could not parse JSON" {
		t.Errorf("expected Could not parse JSON, got %v", rec["error"])
	}
	if rec["raw_text"] != text {
		t.Errorf("raw_text not preserved exactly: %v", rec["raw_text"])
	}
}

func TestExtractDecodeError(t *testing.T) {
	text := "{not valid json}"
	rec := Extract(text)

	errMsg, _ := rec["error"].(string)
	if !strings.HasPrefix(errMsg, "JSON decode error:") {
		t.Errorf("expected JSON decode error prefix, got %v", rec["error"])
	}
	if rec["raw_text"] != text {
		t.Errorf("raw_text not preserved: %v", rec["raw_text"])
	}
}

func TestExtractFencedDecodeError(t *testing.T) {
	text := "```json\nnot json at all\n```"
	rec := Extract(text)

	errMsg, _ := rec["error"].(string)
	if !strings.HasPrefix(errMsg, "JSON decode error:") {
		t.Errorf("expected JSON decode error prefix, got %v", rec["error"])
	}
}

func TestExtractIdempotentOnErrorRawText(t *testing.T) {
	// Re-running extraction on a prior error's raw_text must classify the
	// same way, since raw_text is the unmodified input.
	inputs := []string{
		"no braces here",
		"open only {\"a\": 1",
		"{broken",
	}
	for _, text := range inputs {
		first := Extract(text)
		raw, ok := first["raw_text"].(string)
		if !ok {
			t.Fatalf("%q: missing raw_text", text)
		}
		second := Extract(raw)
		if first["error"] != second["error"] {
			t.Errorf("%q: classification changed: %v vs %v", text, first["error"], second["error"])
		}
	}
}

func TestExtractNonObjectJSON(t *testing.T) {
	rec := Extract("```json\nnull\n```")
	if !IsError(rec) {
		t.Error("expected error record for null JSON")
	}
}

func TestIsError(t *testing.T) {
	if !IsError(Record{"error": "boom"}) {
		t.Error("expected IsError true")
	}
	if IsError(Record{"result": "fine"}) {
		t.Error("expected IsError false")
	}
	// Presence of the key counts, even with an empty value.
	if !IsError(Record{"error": ""}) {
		t.Error("expected IsError true for empty error value")
	}
}
