package main

import (
	"fmt"
	"os"
	"time"

	"github.com/marisa/noteflow/internal/config"
	"github.com/marisa/noteflow/internal/dispatch"
	"github.com/marisa/noteflow/internal/pipeline"
	"github.com/marisa/noteflow/internal/prompts"
)

// apiKeyEnvVar names the environment variable holding the key for a provider.
func apiKeyEnvVar(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return "ANTHROPIC_API_KEY"
	}
}

// resolveAPIKey returns the configured key, falling back to the provider's
// environment variable when no flag or config value was given.
func resolveAPIKey(value, provider string) (string, error) {
	if value == "" {
		value = os.Getenv(apiKeyEnvVar(provider))
	}
	if value == "" {
		return "", fmt.Errorf("%s environment variable or --api-key flag is required", apiKeyEnvVar(provider))
	}
	if len(value) < 10 {
		return "", fmt.Errorf("API key appears to be invalid (too short)")
	}
	return value, nil
}

// defaultConfig holds the fallback values applied after the config file and
// flag overrides have been merged.
func defaultConfig() config.Config {
	return config.Config{
		OutputDir:              "./output",
		Provider:               "anthropic",
		Prompt:                 prompts.DefaultAnalyze(),
		MaxRetries:             dispatch.DefaultMaxRetries,
		RetryDelaySeconds:      1,
		RequestIntervalSeconds: 1,
		TimeoutSeconds:         120,
	}
}

// pipelineOptions translates the merged configuration into pipeline options.
func pipelineOptions(cfg config.Config) pipeline.RunOptions {
	return pipeline.RunOptions{
		NotesDir:        cfg.NotesDir,
		NotesFolder:     cfg.NotesFolder,
		OutputDir:       cfg.OutputDir,
		Prompt:          cfg.Prompt,
		APIKey:          cfg.APIKey,
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		BaseURL:         cfg.BaseURL,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      time.Duration(cfg.RetryDelaySeconds) * time.Second,
		RequestInterval: time.Duration(cfg.RequestIntervalSeconds) * time.Second,
		Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
		SkipVerify:      cfg.SkipVerify,
		Verbose:         cfg.Verbose,
	}
}
