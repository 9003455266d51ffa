// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	NotesDir  string `json:"notes_dir,omitempty"`  // Note vault root directory
	OutputDir string `json:"output_dir,omitempty"` // Directory for artifacts and results

	// Export
	NotesFolder string `json:"notes_folder,omitempty"` // Single folder to export (empty means all)

	// Dispatch
	Prompt   string `json:"prompt,omitempty"`                                                    // Instruction text sent with every artifact
	APIKey   string `json:"api_key,omitempty" validate:"omitempty,min=10"`                       // Analysis API key
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=anthropic openai gemini"` // Analysis API backend
	Model    string `json:"model,omitempty"`                                                     // Model name override
	BaseURL  string `json:"base_url,omitempty" validate:"omitempty,url"`                         // API base URL override

	// Limits
	MaxRetries             int `json:"max_retries,omitempty" validate:"min=0"`              // Retries per artifact after the first attempt
	RetryDelaySeconds      int `json:"retry_delay_seconds,omitempty" validate:"min=0"`      // Backoff base delay, doubling per retry
	RequestIntervalSeconds int `json:"request_interval_seconds,omitempty" validate:"min=0"` // Pause between artifacts
	TimeoutSeconds         int `json:"timeout_seconds,omitempty" validate:"min=0"`          // Per-request timeout

	// Behavior
	SkipVerify bool `json:"skip_verify,omitempty"` // Skip the API key verification request
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Validate the notes directory exists (if specified)
	if c.NotesDir != "" {
		info, err := os.Stat(c.NotesDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: notes directory not found: %s", c.NotesDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.NotesDir == "" {
		result.NotesDir = defaults.NotesDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.NotesFolder == "" {
		result.NotesFolder = defaults.NotesFolder
	}
	if result.Prompt == "" {
		result.Prompt = defaults.Prompt
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}

	// Int fields: use default if zero
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.RetryDelaySeconds == 0 {
		result.RetryDelaySeconds = defaults.RetryDelaySeconds
	}
	if result.RequestIntervalSeconds == 0 {
		result.RequestIntervalSeconds = defaults.RequestIntervalSeconds
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
