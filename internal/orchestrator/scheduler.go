package orchestrator

import (
	"context"
	"fmt"

	"marketscope/internal/extract"
)

// Task is one named specialist analysis with its rendered prompt.
type Task struct {
	Name   string
	Prompt string
}

// SpecialistTasks builds the fixed specialist task set for a query.
func SpecialistTasks(query string) []Task {
	return []Task{
		{AgentProduct, fmt.Sprintf("Analyze product data for %s. Focus on pricing, availability, and popularity.", query)},
		{AgentCompetitor, fmt.Sprintf("Analyze competitive landscape for %s. Identify competitors and market positioning.", query)},
		{AgentSentiment, fmt.Sprintf("Analyze customer sentiment for %s. Extract themes from reviews and feedback.", query)},
	}
}

// Scheduler fans the specialist tasks out to concurrent workers and collects
// their records. Pool size equals task count, so no task ever queues.
type Scheduler struct {
	registry Registry
	emitter  *emitter
}

// NewScheduler creates a scheduler over a registry.
func NewScheduler(registry Registry) *Scheduler {
	return &Scheduler{registry: registry}
}

// taskOutcome carries one worker's terminal state back to the collector.
type taskOutcome struct {
	name string
	rec  extract.Record
}

// RunAll executes all specialist tasks concurrently and returns the result
// set keyed by task name. It returns only after every task reaches a
// terminal state; one task's failure never cancels or blocks its siblings.
func (s *Scheduler) RunAll(ctx context.Context, query string) map[string]extract.Record {
	tasks := SpecialistTasks(query)
	outcomes := make(chan taskOutcome, len(tasks))

	for _, task := range tasks {
		go s.runTask(ctx, task, outcomes)
	}

	results := make(map[string]extract.Record, len(tasks))
	for range tasks {
		outcome := <-outcomes
		results[outcome.name] = outcome.rec

		if extract.IsError(outcome.rec) {
			debugLog("[scheduler] %s agent finished with error: %v", outcome.name, outcome.rec["error"])
			s.emitter.emit(EventAgentFailed, outcome.name, "", fmt.Sprint(outcome.rec["error"]))
		} else {
			debugLog("[scheduler] %s agent completed successfully", outcome.name)
			s.emitter.emit(EventAgentCompleted, outcome.name, "completed", "")
		}
	}

	return results
}

// runTask executes one task, converting even a worker panic into an error
// record so the collector always receives exactly one outcome per task.
func (s *Scheduler) runTask(ctx context.Context, task Task, outcomes chan<- taskOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcomes <- taskOutcome{
				name: task.Name,
				rec:  extract.Record{"error": fmt.Sprint(r), "agent": task.Name},
			}
		}
	}()

	s.emitter.emit(EventAgentStarted, task.Name, "started", "")

	handle, err := s.registry.Get(task.Name)
	if err != nil {
		outcomes <- taskOutcome{
			name: task.Name,
			rec:  extract.Record{"error": err.Error(), "agent": task.Name},
		}
		return
	}

	outcomes <- taskOutcome{name: task.Name, rec: Execute(ctx, task.Name, task.Prompt, handle)}
}
