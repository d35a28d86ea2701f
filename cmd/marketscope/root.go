package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marketscope",
	Short: "Concurrent multi-agent product analysis",
	Long: `Marketscope analyzes a product query with three concurrent Claude
specialists (product, competitor, sentiment) backed by live web search,
then synthesizes their structured findings into a single report.

Specialist failures degrade gracefully: a run always produces a report,
with per-agent errors recorded inline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
