package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"marketscope/internal/telemetry"
)

// fakeRegistry serves canned agents by name.
type fakeRegistry struct {
	agents map[string]Agent
}

func (r *fakeRegistry) Get(name string) (Agent, error) {
	agent, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("no agent registered for %q", name)
	}
	return agent, nil
}

// respondWith returns an agent that always answers with the given text.
func respondWith(text string) Agent {
	return AgentFunc(func(ctx context.Context, prompt string) (Response, error) {
		return Response{Text: text}, nil
	})
}

// failWith returns an agent whose invocation always fails.
func failWith(msg string) Agent {
	return AgentFunc(func(ctx context.Context, prompt string) (Response, error) {
		return Response{}, fmt.Errorf("%s", msg)
	})
}

// panicWith returns an agent that panics, simulating a worker-level fault.
func panicWith(msg string) Agent {
	return AgentFunc(func(ctx context.Context, prompt string) (Response, error) {
		panic(msg)
	})
}

// countingCorrelator records attach/detach pairing for tests.
type countingCorrelator struct {
	mu         sync.Mutex
	enabled    bool
	attaches   int
	detaches   int
	lastSessID string
}

func (c *countingCorrelator) Enabled() bool { return c.enabled }

func (c *countingCorrelator) Attach(ctx context.Context, sessionID string) (context.Context, *telemetry.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSessID = sessionID
	if !c.enabled {
		return ctx, nil
	}
	c.attaches++
	return ctx, &telemetry.Token{}
}

func (c *countingCorrelator) Detach(token *telemetry.Token, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == nil {
		return
	}
	c.detaches++
}

// allSpecialists builds a registry covering the three specialists plus the
// synthesis agent, all answering with the same canned agent.
func allSpecialists(agent Agent) *fakeRegistry {
	return &fakeRegistry{agents: map[string]Agent{
		AgentProduct:      agent,
		AgentCompetitor:   agent,
		AgentSentiment:    agent,
		AgentOrchestrator: agent,
	}}
}
