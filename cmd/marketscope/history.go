package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"marketscope/internal/config"
	"marketscope/internal/render"
	"marketscope/internal/state"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [report-id]",
	Short: "List or show saved reports",
	Long: `Without arguments, lists the most recent saved reports.
With a report ID, shows the full report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := openDB(cfg)
		if err != nil {
			return fmt.Errorf("opening report database: %w", err)
		}
		defer db.Close()

		if len(args) == 1 {
			return showReport(db, args[0])
		}
		return listReports(db)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum reports to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the raw report JSON instead of the summary")
}

func openDB(cfg *config.Config) (*state.DB, error) {
	if cfg.Storage.DBPath != "" {
		return state.Open(cfg.Storage.DBPath)
	}
	return state.OpenDefault()
}

func listReports(db *state.DB) error {
	rows, err := db.ListReports(historyLimit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No saved reports.")
		return nil
	}

	for _, row := range rows {
		status := "ok"
		if !row.OrchestrationSuccess {
			status = "failed"
		}
		fmt.Printf("%s  %s  %d/%d agents  %s  %s\n",
			row.ID, row.CreatedAt, row.AgentsCompleted, row.TotalAgents, status, row.Query)
	}
	return nil
}

func showReport(db *state.DB, id string) error {
	report, err := db.GetReport(id)
	if err != nil {
		return err
	}

	if historyJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	render.PrintSummary(os.Stdout, report)
	return nil
}
