package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"notes_dir": "/home/user/notes",
		"output_dir": "./out",
		"notes_folder": "Journal",
		"provider": "anthropic",
		"max_retries": 5,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/home/user/notes", cfg.NotesDir)
	assert.Equal(t, "./out", cfg.OutputDir)
	assert.Equal(t, "Journal", cfg.NotesFolder)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &Config{
		Provider: "cohere",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Provider")
}

func TestValidate_ShortAPIKey(t *testing.T) {
	cfg := &Config{
		APIKey: "short",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey")
}

func TestValidate_NegativeRetries(t *testing.T) {
	cfg := &Config{
		MaxRetries: -1,
	}

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidate_MissingNotesDir(t *testing.T) {
	cfg := &Config{
		NotesDir: filepath.Join(t.TempDir(), "does-not-exist"),
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "notes directory not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		NotesDir:   t.TempDir(),
		Provider:   "openai",
		APIKey:     "sk-test-key-123",
		MaxRetries: 3,
		BaseURL:    "http://localhost:8080",
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyConfig(t *testing.T) {
	// All fields optional; an empty config is valid before merging.
	assert.NoError(t, (&Config{}).Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		OutputDir:              "./output",
		Provider:               "anthropic",
		MaxRetries:             3,
		RetryDelaySeconds:      1,
		RequestIntervalSeconds: 1,
		TimeoutSeconds:         120,
	}

	partial := Config{
		NotesDir: "/vault",
		Provider: "gemini",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "/vault", merged.NotesDir)
	assert.Equal(t, "gemini", merged.Provider)

	// Default values should fill in empty fields
	assert.Equal(t, "./output", merged.OutputDir)
	assert.Equal(t, 3, merged.MaxRetries)
	assert.Equal(t, 1, merged.RetryDelaySeconds)
	assert.Equal(t, 120, merged.TimeoutSeconds)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{
		NotesDir:    "/vault",
		NotesFolder: "Journal",
	}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "/vault", merged.NotesDir)
	assert.Equal(t, "Journal", merged.NotesFolder)
}
