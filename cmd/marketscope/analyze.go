package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"marketscope/internal/api"
	"marketscope/internal/config"
	"marketscope/internal/orchestrator"
	"marketscope/internal/render"
	"marketscope/internal/search"
	"marketscope/internal/state"
	"marketscope/internal/telemetry"
	"marketscope/internal/tui"
)

var (
	analyzeSession     string
	analyzeSave        bool
	analyzeTUI         bool
	analyzeNoTelemetry bool
	analyzeJSON        bool
	analyzeDebugLog    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <product query>",
	Short: "Run a full multi-agent analysis for a product query",
	Long: `Analyze runs three specialists concurrently against the query, each
with its own web-search tool, then synthesizes their findings.

The run is resilient: individual specialist failures appear as error
entries in the report instead of aborting the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSession, "session", "", "Session ID for trace correlation (generated when empty)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Persist the report to the local database")
	analyzeCmd.Flags().BoolVar(&analyzeTUI, "tui", false, "Show live progress while the run executes")
	analyzeCmd.Flags().BoolVar(&analyzeNoTelemetry, "no-telemetry", false, "Disable trace correlation for this run")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the raw report JSON instead of the summary")
	analyzeCmd.Flags().StringVar(&analyzeDebugLog, "debug-log", "", "Write debug output to this file")
}

func runAnalyze(ctx context.Context, query string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	coordinator, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var report orchestrator.Report
	if analyzeTUI {
		report, err = tui.Run(query, coordinator.Events(), func() orchestrator.Report {
			return coordinator.Run(ctx, query, analyzeSession)
		})
		if err != nil {
			return err
		}
	} else {
		go drainEvents(coordinator.Events())
		report = coordinator.Run(ctx, query, analyzeSession)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		fmt.Println(string(data))
	} else {
		render.PrintSummary(os.Stdout, report)
	}

	if analyzeSave {
		id, err := saveReport(cfg, report)
		if err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		fmt.Printf("\nSaved report %s\n", id)
	}

	return nil
}

// buildCoordinator wires config into the full run pipeline.
func buildCoordinator(cfg *config.Config) (*orchestrator.Coordinator, error) {
	prompts, err := config.LoadPrompts(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Model.ID),
		MaxTokens:     int64(cfg.Model.MaxTokens),
		Temperature:   cfg.Model.Temperature,
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Bedrock.Enabled,
		AWSRegion:     cfg.Bedrock.Region,
		AWSProfile:    cfg.Bedrock.Profile,
	})
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	searcher := search.NewClient(search.ClientConfig{
		MaxResults: cfg.Search.MaxResults,
		DataDir:    cfg.Search.DataDir,
	})

	correlator := telemetry.NewBaggage(telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled && !analyzeNoTelemetry,
		ExperimentID: cfg.Telemetry.ExperimentID,
		Topic:        cfg.Telemetry.Topic,
	})

	var logger *orchestrator.DebugLogger
	if analyzeDebugLog != "" {
		logger, err = orchestrator.NewDebugLogger(analyzeDebugLog)
		if err != nil {
			return nil, fmt.Errorf("opening debug log: %w", err)
		}
	}

	return orchestrator.NewCoordinator(orchestrator.CoordinatorConfig{
		NewRegistry: func() (orchestrator.Registry, error) {
			return orchestrator.NewAgentRegistry(client, searcher, prompts)
		},
		Correlator: correlator,
		Logger:     logger,
	}), nil
}

// drainEvents keeps the event channel from filling when no TUI consumes it.
func drainEvents(events <-chan orchestrator.Event) {
	for range events {
	}
}

// saveReport persists a report and returns its row ID.
func saveReport(cfg *config.Config, report orchestrator.Report) (string, error) {
	var db *state.DB
	var err error
	if cfg.Storage.DBPath != "" {
		db, err = state.Open(cfg.Storage.DBPath)
	} else {
		db, err = state.OpenDefault()
	}
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.SaveReport(report)
}
