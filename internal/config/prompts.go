package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prompts holds the system prompts for the three specialists and the
// synthesis agent. Zero-value fields fall back to the built-in defaults.
type Prompts struct {
	Product      string `yaml:"product"`
	Competitor   string `yaml:"competitor"`
	Sentiment    string `yaml:"sentiment"`
	Orchestrator string `yaml:"orchestrator"`
}

const (
	defaultProductPrompt = `You are a product intelligence analyst. Use the web_search tool to gather
current pricing, availability, and popularity data for the product in question.
Respond with a single JSON object inside a ` + "```json" + ` fence containing
price_analysis, availability, and popularity fields. Include sources where possible.`

	defaultCompetitorPrompt = `You are a competitive intelligence analyst. Use the web_search tool to
identify direct competitors, their offerings, and market positioning for the product
in question. Respond with a single JSON object inside a ` + "```json" + ` fence containing
competitors (a list) and market_positioning fields.`

	defaultSentimentPrompt = `You are a customer sentiment analyst. Use the web_search tool to find
reviews, complaints, and discussion about the product in question. Respond with a
single JSON object inside a ` + "```json" + ` fence containing overall_sentiment,
positive_themes, and negative_themes fields.`

	defaultOrchestratorPrompt = `You are a strategic analyst synthesizing findings from specialist agents.
Combine the product, competitor, and sentiment sections into one coherent assessment.
Respond with a single JSON object inside a ` + "```json" + ` fence containing
executive_summary, key_findings, and recommendations fields.`
)

// DefaultPrompts returns the built-in specialist prompts.
func DefaultPrompts() Prompts {
	return Prompts{
		Product:      defaultProductPrompt,
		Competitor:   defaultCompetitorPrompt,
		Sentiment:    defaultSentimentPrompt,
		Orchestrator: defaultOrchestratorPrompt,
	}
}

// LoadPrompts returns the specialist prompts, applying overrides from the
// YAML file referenced by cfg.Prompts.File when set. Fields absent from the
// override file keep their defaults.
func LoadPrompts(cfg *Config) (Prompts, error) {
	prompts := DefaultPrompts()
	if cfg == nil || cfg.Prompts.File == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(cfg.Prompts.File)
	if err != nil {
		return prompts, fmt.Errorf("reading prompts file: %w", err)
	}

	var override Prompts
	if err := yaml.Unmarshal(data, &override); err != nil {
		return prompts, fmt.Errorf("parsing prompts file %s: %w", cfg.Prompts.File, err)
	}

	if override.Product != "" {
		prompts.Product = override.Product
	}
	if override.Competitor != "" {
		prompts.Competitor = override.Competitor
	}
	if override.Sentiment != "" {
		prompts.Sentiment = override.Sentiment
	}
	if override.Orchestrator != "" {
		prompts.Orchestrator = override.Orchestrator
	}

	return prompts, nil
}
