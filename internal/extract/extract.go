// Package extract recovers structured records from free-form model output.
// Model responses are not guaranteed to contain clean JSON, so extraction
// degrades to a diagnostic record instead of returning an error.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is the structured output recovered from a model response.
// A record always carries either domain fields or an "error" key plus
// the verbatim source text under "raw_text". Callers treat the absence
// of "error" as the success signal.
type Record = map[string]any

const jsonFence = "```json"

// Extract recovers a Record from free-form text. It tries, in order:
// a ```json fenced block, then the first balanced top-level JSON object.
// It never panics past its own boundary; every failure mode is captured
// as an error field on the returned record.
func Extract(text string) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			rec = Record{
				"error":    fmt.Sprintf("Extraction error: %v", r),
				"raw_text": text,
			}
		}
	}()

	// Fenced block takes priority over bare braces.
	if idx := strings.Index(strings.ToLower(text), jsonFence); idx != -1 {
		start := idx + len(jsonFence)
		body := text[start:]
		if end := strings.Index(body, "```"); end != -1 {
			body = body[:end]
		}
		return decode(strings.TrimSpace(body), text)
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return Record{"error": "No JSON found", "raw_text": text}
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return decode(text[start:i+1], text)
			}
		}
	}

	return Record{"error": "Could not parse JSON", "raw_text": text}
}

// decode unmarshals candidate JSON, converting failure to an error record
// that preserves the original text.
func decode(candidate, original string) Record {
	var rec Record
	if err := json.Unmarshal([]byte(candidate), &rec); err != nil {
		return Record{
			"error":    fmt.Sprintf("JSON decode error: %s", err),
			"raw_text": original,
		}
	}
	if rec == nil {
		// "null" decodes without error; treat it like any other non-object.
		return Record{
			"error":    "JSON decode error: expected object",
			"raw_text": original,
		}
	}
	return rec
}

// IsError reports whether a record carries an error field.
func IsError(rec Record) bool {
	_, ok := rec["error"]
	return ok
}
