package orchestrator

import (
	"marketscope/internal/extract"
)

// totalAgents is the fixed specialist count.
const totalAgents = 3

// ExecutionSummary carries derived run metadata. Every field is recomputed
// from the result set, never trusted from upstream text.
type ExecutionSummary struct {
	AgentsCompleted      int  `json:"agents_completed"`
	TotalAgents          int  `json:"total_agents"`
	OrchestrationSuccess bool `json:"orchestration_success"`
	TelemetryEnabled     bool `json:"telemetry_enabled"`
	TelemetryContextSet  bool `json:"telemetry_context_set"`
}

// Report is the combined outcome of one analysis run.
type Report struct {
	Query             string                    `json:"query"`
	SessionID         string                    `json:"session_id"`
	Timestamp         string                    `json:"timestamp"`
	SpecialistResults map[string]extract.Record `json:"specialist_results,omitempty"`
	Synthesis         extract.Record            `json:"synthesis,omitempty"`
	Error             string                    `json:"error,omitempty"`
	ExecutionSummary  ExecutionSummary          `json:"execution_summary"`
}

// Failed reports whether the run failed before any task could start.
func (r Report) Failed() bool {
	return r.Error != ""
}

// summarize derives the execution summary from a result set and synthesis
// record. agents_completed counts entries without an error key.
func summarize(results map[string]extract.Record, synthesis extract.Record) ExecutionSummary {
	completed := 0
	for _, rec := range results {
		if !extract.IsError(rec) {
			completed++
		}
	}

	return ExecutionSummary{
		AgentsCompleted:      completed,
		TotalAgents:          totalAgents,
		OrchestrationSuccess: synthesis != nil && !extract.IsError(synthesis),
	}
}
