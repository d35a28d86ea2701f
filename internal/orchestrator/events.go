package orchestrator

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventRunStarted indicates an analysis run has started.
	EventRunStarted EventType = "run_started"
	// EventAgentStarted indicates a specialist task has started execution.
	EventAgentStarted EventType = "agent_started"
	// EventAgentCompleted indicates a specialist task completed successfully.
	EventAgentCompleted EventType = "agent_completed"
	// EventAgentFailed indicates a specialist task failed.
	EventAgentFailed EventType = "agent_failed"
	// EventSynthesisStarted indicates the synthesis step has started.
	EventSynthesisStarted EventType = "synthesis_started"
	// EventSynthesisCompleted indicates the synthesis step completed.
	EventSynthesisCompleted EventType = "synthesis_completed"
	// EventRunDone indicates the entire run is complete.
	EventRunDone EventType = "run_done"
)

// Event represents an event emitted during an analysis run.
// These events feed the TUI and the log surface.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// RunID identifies the run this event belongs to.
	RunID string
	// AgentName is the specialist name, if applicable.
	AgentName string
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emitter publishes events without ever blocking the run: a full or absent
// channel drops the event.
type emitter struct {
	runID  string
	events chan<- Event
}

func newEmitter(events chan<- Event) *emitter {
	return &emitter{
		runID:  uuid.New().String()[:8],
		events: events,
	}
}

func (e *emitter) emit(eventType EventType, agentName, message, errMsg string) {
	if e == nil || e.events == nil {
		return
	}
	event := Event{
		Type:      eventType,
		RunID:     e.runID,
		AgentName: agentName,
		Message:   message,
		Err:       errMsg,
		Timestamp: time.Now(),
	}
	select {
	case e.events <- event:
	default:
	}
}
