// Package config handles configuration loading and management for marketscope.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for marketscope.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Bedrock   BedrockConfig   `mapstructure:"bedrock"`
	Model     ModelConfig     `mapstructure:"model"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Search    SearchConfig    `mapstructure:"search"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
}

// AnthropicConfig holds direct Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// BedrockConfig holds AWS Bedrock settings. When Enabled is true the client
// authenticates through the AWS credential chain instead of an API key.
type BedrockConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// ModelConfig holds model invocation parameters.
type ModelConfig struct {
	ID          string  `mapstructure:"id"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// TelemetryConfig holds trace-correlation settings.
// ExperimentID and Topic become baggage members on every correlated run.
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ExperimentID string `mapstructure:"experiment_id"`
	Topic        string `mapstructure:"topic"`
}

// SearchConfig holds web-search settings for the specialist tools.
type SearchConfig struct {
	MaxResults int `mapstructure:"max_results"`
	// DataDir receives raw search captures as JSON. Empty disables capture.
	DataDir string `mapstructure:"data_dir"`
}

// StorageConfig holds report persistence settings.
type StorageConfig struct {
	// DBPath overrides the default report database location.
	DBPath string `mapstructure:"db_path"`
}

// PromptsConfig points at an optional YAML file overriding the built-in
// specialist system prompts.
type PromptsConfig struct {
	File string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, AWS_DEFAULT_REGION, MARKETSCOPE_MODEL_ID)
// 2. Project config (.marketscope.yaml in current directory or parent)
// 3. User config (~/.config/marketscope/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()

	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("bedrock.region", "AWS_DEFAULT_REGION")
	v.BindEnv("model.id", "MARKETSCOPE_MODEL_ID", "BEDROCK_MODEL_ID")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Watch reloads configuration whenever the user config file changes and
// invokes onChange with the fresh config. Reload errors keep the previous
// config and are logged.
func Watch(onChange func(*Config)) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Printf("[config] reload failed for %s: %v", e.Name, err)
			return
		}
		cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
		onChange(cfg)
	})
	v.WatchConfig()
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("bedrock.enabled", cfg.Bedrock.Enabled)
	v.Set("bedrock.region", cfg.Bedrock.Region)
	v.Set("bedrock.profile", cfg.Bedrock.Profile)
	v.Set("model.id", cfg.Model.ID)
	v.Set("model.max_tokens", cfg.Model.MaxTokens)
	v.Set("model.temperature", cfg.Model.Temperature)
	v.Set("telemetry.enabled", cfg.Telemetry.Enabled)
	v.Set("telemetry.experiment_id", cfg.Telemetry.ExperimentID)
	v.Set("telemetry.topic", cfg.Telemetry.Topic)
	v.Set("search.max_results", cfg.Search.MaxResults)
	v.Set("search.data_dir", cfg.Search.DataDir)
	v.Set("storage.db_path", cfg.Storage.DBPath)
	v.Set("prompts.file", cfg.Prompts.File)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")

	v.SetDefault("bedrock.enabled", false)
	v.SetDefault("bedrock.region", "us-west-2")
	v.SetDefault("bedrock.profile", "")

	v.SetDefault("model.id", "")
	v.SetDefault("model.max_tokens", 4096)
	v.SetDefault("model.temperature", 0.3)

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.experiment_id", "ecommerce-agent-v2")
	v.SetDefault("telemetry.topic", "business-ecommerce")

	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.data_dir", "")

	v.SetDefault("storage.db_path", "")

	v.SetDefault("prompts.file", "")
}

// getUserConfigDir returns the XDG config directory for marketscope.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "marketscope")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "marketscope")
	}
	return filepath.Join(home, ".config", "marketscope")
}

// findProjectConfig searches for .marketscope.yaml in the current directory and parents.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ".marketscope.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnv expands ${VAR} references in a config value.
func expandEnv(s string) string {
	if strings.Contains(s, "${") {
		return os.ExpandEnv(s)
	}
	return s
}
