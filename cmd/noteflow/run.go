package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marisa/noteflow/internal/config"
	"github.com/marisa/noteflow/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full export and analysis pipeline end-to-end",
	Long: `Orchestrates the entire process: note enumeration -> text export -> manifest -> serial dispatch to the analysis API -> response persistence.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath      string
	runNotesDir        string
	runNotesFolder     string
	runOutputDir       string
	runPrompt          string
	runAPIKey          string
	runProvider        string
	runModel           string
	runBaseURL         string
	runMaxRetries      int
	runRetryDelay      int
	runRequestInterval int
	runTimeout         int
	runSkipVerify      bool
	runVerbose         bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runNotesDir, "notes-dir", "n", "", "Path to the notes directory")
	runCommand.Flags().StringVarP(&runNotesFolder, "notes-folder", "f", "", "Export only this folder (case-sensitive, default all notes)")
	runCommand.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Output directory for artifacts and responses")
	runCommand.Flags().StringVar(&runPrompt, "prompt", "", "Prompt sent with each note body")
	runCommand.Flags().StringVar(&runProvider, "provider", "", "Analysis provider: anthropic, openai or gemini")
	runCommand.Flags().StringVar(&runModel, "model", "", "Model name (defaults to the provider default)")
	runCommand.Flags().StringVar(&runBaseURL, "base-url", "", "Override the provider API base URL")
	runCommand.Flags().IntVar(&runMaxRetries, "max-retries", 0, "Retries per artifact after the first attempt")
	runCommand.Flags().IntVar(&runRetryDelay, "retry-delay", 0, "Initial retry backoff in seconds (doubles per retry)")
	runCommand.Flags().IntVar(&runRequestInterval, "request-interval", 0, "Pause between artifacts in seconds")
	runCommand.Flags().IntVar(&runTimeout, "timeout", 0, "Per-request timeout in seconds")
	runCommand.Flags().BoolVar(&runSkipVerify, "skip-verify", false, "Skip the API key verification request")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from the provider's env var
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "API key (optional, defaults to the provider env var)")

	// Note: --notes-dir is not marked required; we validate after merging config

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("notes-dir") {
		cfg.NotesDir = runNotesDir
	}
	if cmd.Flags().Changed("notes-folder") {
		cfg.NotesFolder = runNotesFolder
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("prompt") {
		cfg.Prompt = runPrompt
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = runProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = runBaseURL
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = runMaxRetries
	}
	if cmd.Flags().Changed("retry-delay") {
		cfg.RetryDelaySeconds = runRetryDelay
	}
	if cmd.Flags().Changed("request-interval") {
		cfg.RequestIntervalSeconds = runRequestInterval
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = runTimeout
	}
	if cmd.Flags().Changed("skip-verify") {
		cfg.SkipVerify = runSkipVerify
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(defaultConfig())

	// Merging cannot tell an explicit zero from an unset int, so numeric
	// flags where zero is meaningful win again after the merge.
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = runMaxRetries
	}
	if cmd.Flags().Changed("request-interval") {
		cfg.RequestIntervalSeconds = runRequestInterval
	}

	// Step 4: Validate required fields
	if cfg.NotesDir == "" {
		return fmt.Errorf("--notes-dir must be provided (via flag or config)")
	}

	// Step 5: API key handling
	apiKey, err := resolveAPIKey(cfg.APIKey, cfg.Provider)
	if err != nil {
		return err
	}
	cfg.APIKey = apiKey

	return pipeline.Run(ctx, pipelineOptions(cfg))
}
