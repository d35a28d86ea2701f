package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"marketscope/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify marketscope configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/marketscope/config.yaml
Project-specific overrides can be placed in .marketscope.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("bedrock.enabled: %t\n", cfg.Bedrock.Enabled)
	fmt.Printf("bedrock.region: %s\n", cfg.Bedrock.Region)
	fmt.Printf("bedrock.profile: %s\n", cfg.Bedrock.Profile)
	fmt.Printf("model.id: %s\n", cfg.Model.ID)
	fmt.Printf("model.max_tokens: %d\n", cfg.Model.MaxTokens)
	fmt.Printf("model.temperature: %g\n", cfg.Model.Temperature)
	fmt.Printf("telemetry.enabled: %t\n", cfg.Telemetry.Enabled)
	fmt.Printf("telemetry.experiment_id: %s\n", cfg.Telemetry.ExperimentID)
	fmt.Printf("telemetry.topic: %s\n", cfg.Telemetry.Topic)
	fmt.Printf("search.max_results: %d\n", cfg.Search.MaxResults)
	fmt.Printf("search.data_dir: %s\n", cfg.Search.DataDir)
	fmt.Printf("storage.db_path: %s\n", cfg.Storage.DBPath)
	fmt.Printf("prompts.file: %s\n", cfg.Prompts.File)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "bedrock.enabled":
		return strconv.FormatBool(cfg.Bedrock.Enabled), nil
	case "bedrock.region":
		return cfg.Bedrock.Region, nil
	case "bedrock.profile":
		return cfg.Bedrock.Profile, nil
	case "model.id":
		return cfg.Model.ID, nil
	case "model.max_tokens":
		return strconv.Itoa(cfg.Model.MaxTokens), nil
	case "model.temperature":
		return strconv.FormatFloat(cfg.Model.Temperature, 'g', -1, 64), nil
	case "telemetry.enabled":
		return strconv.FormatBool(cfg.Telemetry.Enabled), nil
	case "telemetry.experiment_id":
		return cfg.Telemetry.ExperimentID, nil
	case "telemetry.topic":
		return cfg.Telemetry.Topic, nil
	case "search.max_results":
		return strconv.Itoa(cfg.Search.MaxResults), nil
	case "search.data_dir":
		return cfg.Search.DataDir, nil
	case "storage.db_path":
		return cfg.Storage.DBPath, nil
	case "prompts.file":
		return cfg.Prompts.File, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "bedrock.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.Bedrock.Enabled = b
	case "bedrock.region":
		cfg.Bedrock.Region = value
	case "bedrock.profile":
		cfg.Bedrock.Profile = value
	case "model.id":
		cfg.Model.ID = value
	case "model.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid token count: %s", value)
		}
		cfg.Model.MaxTokens = n
	case "model.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("invalid temperature: %s", value)
		}
		cfg.Model.Temperature = f
	case "telemetry.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		cfg.Telemetry.Enabled = b
	case "telemetry.experiment_id":
		cfg.Telemetry.ExperimentID = value
	case "telemetry.topic":
		cfg.Telemetry.Topic = value
	case "search.max_results":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid result count: %s", value)
		}
		cfg.Search.MaxResults = n
	case "search.data_dir":
		cfg.Search.DataDir = value
	case "storage.db_path":
		cfg.Storage.DBPath = value
	case "prompts.file":
		cfg.Prompts.File = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
