package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/marisa/noteflow/internal/analysis"
	"github.com/marisa/noteflow/internal/dispatch"
	"github.com/marisa/noteflow/internal/manifest"
	"github.com/marisa/noteflow/internal/prompts"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Submit previously exported artifacts to the analysis API",
	Long:  "Read the artifact manifest produced by the export stage and submit each text artifact to the analysis API, one at a time, storing responses next to the artifacts.",
	RunE:  runDispatch,
}

var (
	dispatchManifest        string
	dispatchOut             string
	dispatchPrompt          string
	dispatchAPIKey          string
	dispatchProvider        string
	dispatchModel           string
	dispatchBaseURL         string
	dispatchMaxRetries      int
	dispatchRetryDelay      int
	dispatchRequestInterval int
	dispatchTimeout         int
	dispatchSkipVerify      bool
	dispatchVerbose         bool
)

func init() {
	dispatchCmd.Flags().StringVar(&dispatchManifest, "manifest", "", "Path to the artifact manifest (default <output-dir>/"+manifest.FileName+")")
	dispatchCmd.Flags().StringVarP(&dispatchOut, "output-dir", "o", "./output", "Output directory")
	dispatchCmd.Flags().StringVar(&dispatchPrompt, "prompt", "", "Prompt sent with each note body")
	dispatchCmd.Flags().StringVar(&dispatchAPIKey, "api-key", "", "API key (optional, defaults to the provider env var)")
	dispatchCmd.Flags().StringVar(&dispatchProvider, "provider", "anthropic", "Analysis provider: anthropic, openai or gemini")
	dispatchCmd.Flags().StringVar(&dispatchModel, "model", "", "Model name (defaults to the provider default)")
	dispatchCmd.Flags().StringVar(&dispatchBaseURL, "base-url", "", "Override the provider API base URL")
	dispatchCmd.Flags().IntVar(&dispatchMaxRetries, "max-retries", dispatch.DefaultMaxRetries, "Retries per artifact after the first attempt")
	dispatchCmd.Flags().IntVar(&dispatchRetryDelay, "retry-delay", 1, "Initial retry backoff in seconds (doubles per retry)")
	dispatchCmd.Flags().IntVar(&dispatchRequestInterval, "request-interval", 1, "Pause between artifacts in seconds")
	dispatchCmd.Flags().IntVar(&dispatchTimeout, "timeout", 0, "Per-request timeout in seconds")
	dispatchCmd.Flags().BoolVar(&dispatchSkipVerify, "skip-verify", false, "Skip the API key verification request")
	dispatchCmd.Flags().BoolVarP(&dispatchVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	manifestPath := dispatchManifest
	if manifestPath == "" {
		manifestPath = filepath.Join(dispatchOut, manifest.FileName)
	}

	// Read the manifest before building a client so an empty batch never
	// contacts the API.
	entries, err := manifest.Read(manifestPath)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stdout, "No artifacts listed in %s; nothing to dispatch.\n", manifestPath)
		return nil
	}

	apiKey, err := resolveAPIKey(dispatchAPIKey, dispatchProvider)
	if err != nil {
		return err
	}

	cfg := analysis.DefaultConfig()
	cfg.Provider = analysis.Provider(dispatchProvider)
	if dispatchModel != "" {
		cfg.Model = dispatchModel
	}
	if dispatchBaseURL != "" {
		cfg.BaseURL = dispatchBaseURL
	}
	if dispatchTimeout > 0 {
		cfg.Timeout = time.Duration(dispatchTimeout) * time.Second
	}

	client, err := analysis.NewClient(ctx, cfg, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	if !dispatchSkipVerify {
		if err := client.Verify(ctx); err != nil {
			return fmt.Errorf("API key verification failed: %w", err)
		}
	}

	prompt := dispatchPrompt
	if prompt == "" {
		prompt = prompts.DefaultAnalyze()
	}

	result, err := dispatch.Run(ctx, client, dispatch.Options{
		ManifestPath:    manifestPath,
		OutputDir:       dispatchOut,
		Prompt:          prompt,
		MaxRetries:      dispatchMaxRetries,
		RetryDelay:      time.Duration(dispatchRetryDelay) * time.Second,
		RequestInterval: time.Duration(dispatchRequestInterval) * time.Second,
		Verbose:         dispatchVerbose,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Dispatch complete: %d succeeded, %d failed, %d total\n", result.Succeeded, result.Failed, result.Total)

	return nil
}
