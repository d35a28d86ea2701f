package orchestrator

import (
	"context"
	"fmt"

	"marketscope/internal/api"
	"marketscope/internal/config"
	"marketscope/internal/search"
)

// Specialist task names. These are the fixed keys of every result set.
const (
	AgentProduct    = "product"
	AgentCompetitor = "competitor"
	AgentSentiment  = "sentiment"
	// AgentOrchestrator is the synthesis agent name.
	AgentOrchestrator = "orchestrator"
)

// SpecialistNames lists the specialist task names in construction order.
var SpecialistNames = []string{AgentProduct, AgentCompetitor, AgentSentiment}

// Registry hands out agent handles by task name.
type Registry interface {
	Get(name string) (Agent, error)
}

// RegistryFactory constructs a fresh registry for one run. Construction
// failure is fatal for the run: no task can start without handles.
type RegistryFactory func() (Registry, error)

// AgentRegistry builds and owns the per-run agent handles. Each specialist
// gets its own tool-loop runner wired to a domain-specific search; the
// synthesis agent is a plain text runner.
type AgentRegistry struct {
	agents map[string]Agent
}

// NewAgentRegistry creates handles for the three specialists and the
// synthesis agent.
func NewAgentRegistry(client *api.Client, searcher *search.Client, prompts config.Prompts) (*AgentRegistry, error) {
	if client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if searcher == nil {
		return nil, fmt.Errorf("search client is required")
	}

	specialists := []struct {
		name   string
		system string
		search api.SearchFunc
	}{
		{AgentProduct, prompts.Product, searcher.ProductSearch},
		{AgentCompetitor, prompts.Competitor, searcher.CompetitorSearch},
		{AgentSentiment, prompts.Sentiment, searcher.SentimentSearch},
	}

	agents := make(map[string]Agent, len(specialists)+1)
	for _, s := range specialists {
		runner := api.NewToolRunner(api.ToolRunnerConfig{
			Client: client,
			System: s.system,
			Tools:  api.NewWebSearchTool(s.search),
		})
		agents[s.name] = toolAgent{runner}
	}

	agents[AgentOrchestrator] = textAgent{api.NewRunner(client, prompts.Orchestrator)}

	return &AgentRegistry{agents: agents}, nil
}

// Get returns the handle for a task name.
func (r *AgentRegistry) Get(name string) (Agent, error) {
	agent, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("no agent registered for %q", name)
	}
	return agent, nil
}

// toolAgent adapts a tool-loop runner to the Agent interface.
type toolAgent struct {
	runner *api.ToolRunner
}

func (a toolAgent) Invoke(ctx context.Context, prompt string) (Response, error) {
	text, err := a.runner.Run(ctx, prompt)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: text}, nil
}

// textAgent adapts a plain runner to the Agent interface.
type textAgent struct {
	runner *api.Runner
}

func (a textAgent) Invoke(ctx context.Context, prompt string) (Response, error) {
	text, err := a.runner.Run(ctx, prompt)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: text}, nil
}
