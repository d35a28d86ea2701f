package orchestrator

import (
	"context"
	"fmt"
	"time"

	"marketscope/internal/telemetry"
)

// Coordinator sequences one analysis run: correlation attach, concurrent
// specialists, sequential synthesis, report assembly, correlation detach.
// Detach is guaranteed on every exit path.
type Coordinator struct {
	newRegistry RegistryFactory
	correlator  telemetry.Correlator
	events      chan Event
	logger      *DebugLogger
}

// CoordinatorConfig contains configuration for a Coordinator.
type CoordinatorConfig struct {
	// NewRegistry constructs the per-run agent registry. Required.
	NewRegistry RegistryFactory
	// Correlator tags runs for external observability. Nil disables correlation.
	Correlator telemetry.Correlator
	// Logger receives debug output. Nil disables debug logging.
	Logger *DebugLogger
	// EventBuffer sizes the event channel. Zero selects the default.
	EventBuffer int
}

// NewCoordinator creates a run coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	correlator := cfg.Correlator
	if correlator == nil {
		correlator = telemetry.Nop{}
	}

	buffer := cfg.EventBuffer
	if buffer == 0 {
		buffer = 100
	}

	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger()
	}
	SetPackageLogger(logger)

	return &Coordinator{
		newRegistry: cfg.NewRegistry,
		correlator:  correlator,
		events:      make(chan Event, buffer),
		logger:      logger,
	}
}

// Events returns the channel carrying run progress events.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// Run executes a coordinated analysis for a query. An empty sessionID is
// replaced with a generated one. A failed run still returns a well-formed
// report; only total inability to start produces an error-only report.
func (c *Coordinator) Run(ctx context.Context, query, sessionID string) Report {
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%s", time.Now().Format("20060102-150405"))
	}

	c.logger.Log("starting analysis for %q (session %s)", query, sessionID)

	em := newEmitter(c.events)
	em.emit(EventRunStarted, "", query, "")

	ctx, token := c.correlator.Attach(ctx, sessionID)
	defer c.correlator.Detach(token, sessionID)

	registry, err := c.newRegistry()
	if err != nil {
		c.logger.Log("analysis failed: %v", err)
		em.emit(EventRunDone, "", "", err.Error())
		return Report{
			Query:     query,
			SessionID: sessionID,
			Timestamp: time.Now().Format(time.RFC3339),
			Error:     fmt.Sprintf("initialize agents: %v", err),
			ExecutionSummary: ExecutionSummary{
				AgentsCompleted:      0,
				TotalAgents:          totalAgents,
				OrchestrationSuccess: false,
				TelemetryEnabled:     c.correlator.Enabled(),
				TelemetryContextSet:  false,
			},
		}
	}

	scheduler := NewScheduler(registry)
	scheduler.emitter = em
	specialistResults := scheduler.RunAll(ctx, query)

	em.emit(EventSynthesisStarted, AgentOrchestrator, "synthesizing", "")
	synthesis := Synthesize(ctx, registry, query, specialistResults)
	em.emit(EventSynthesisCompleted, AgentOrchestrator, "", "")

	summary := summarize(specialistResults, synthesis)
	summary.TelemetryEnabled = c.correlator.Enabled()
	summary.TelemetryContextSet = token != nil

	report := Report{
		Query:             query,
		SessionID:         sessionID,
		Timestamp:         time.Now().Format(time.RFC3339),
		SpecialistResults: specialistResults,
		Synthesis:         synthesis,
		ExecutionSummary:  summary,
	}

	c.logger.Log("analysis completed: %d/%d agents, orchestration success=%v",
		summary.AgentsCompleted, summary.TotalAgents, summary.OrchestrationSuccess)
	em.emit(EventRunDone, "", "", "")

	return report
}
