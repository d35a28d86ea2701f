// Package render formats analysis reports for terminal output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"marketscope/internal/extract"
	"marketscope/internal/orchestrator"
)

// sectionTitles maps specialist names to display headers.
var sectionTitles = map[string]string{
	orchestrator.AgentProduct:    "Product Intelligence",
	orchestrator.AgentCompetitor: "Competitive Intelligence",
	orchestrator.AgentSentiment:  "Customer Sentiment",
}

// PrintSummary writes a human-readable rendition of a report to w.
func PrintSummary(w io.Writer, report orchestrator.Report) {
	bold := color.New(color.Bold)

	fmt.Fprintf(w, "\n%s %s\n", bold.Sprint("Query:"), report.Query)
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Session:"), report.SessionID)

	if report.Failed() {
		fmt.Fprintf(w, "\n%s %s\n", color.RedString("✗"), report.Error)
		printExecutionSummary(w, report.ExecutionSummary)
		return
	}

	names := make([]string, 0, len(report.SpecialistResults))
	for name := range report.SpecialistResults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec := report.SpecialistResults[name]
		title := sectionTitles[name]
		if title == "" {
			title = name
		}
		if extract.IsError(rec) {
			fmt.Fprintf(w, "\n%s %s: %v\n", color.RedString("✗"), title, rec["error"])
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n", color.GreenString("✓"), bold.Sprint(title))
		printRecord(w, rec)
	}

	fmt.Fprintf(w, "\n%s\n", bold.Sprint("Synthesis"))
	if extract.IsError(report.Synthesis) {
		fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), report.Synthesis["error"])
	} else {
		printRecord(w, report.Synthesis)
	}

	printExecutionSummary(w, report.ExecutionSummary)
}

// printRecord renders a record's structured fields, skipping the raw
// response metadata injected during execution.
func printRecord(w io.Writer, rec extract.Record) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		if k == "raw_response" || k == "orchestrator_raw_response" || k == "agent_name" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, formatValue(rec[k]))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "-"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func printExecutionSummary(w io.Writer, summary orchestrator.ExecutionSummary) {
	status := color.GreenString("✓")
	if !summary.OrchestrationSuccess {
		status = color.RedString("✗")
	}
	telemetry := "off"
	if summary.TelemetryEnabled {
		telemetry = "on"
		if !summary.TelemetryContextSet {
			telemetry = "on (no session context)"
		}
	}

	fmt.Fprintf(w, "\n%s agents %d/%d, synthesis %s, telemetry %s\n",
		status, summary.AgentsCompleted, summary.TotalAgents,
		map[bool]string{true: "ok", false: "failed"}[summary.OrchestrationSuccess],
		telemetry)
}
