// Package pipeline provides the high-level orchestration for the note
// export and analysis process.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/marisa/noteflow/internal/analysis"
	"github.com/marisa/noteflow/internal/dispatch"
	"github.com/marisa/noteflow/internal/export"
	"github.com/marisa/noteflow/internal/notes"
	"github.com/marisa/noteflow/internal/observability"
)

// SummaryFileName is the per-run report written to the output directory.
const SummaryFileName = "run_summary.json"

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	NotesDir        string
	NotesFolder     string
	OutputDir       string
	Prompt          string
	APIKey          string
	Provider        string
	Model           string
	BaseURL         string
	MaxRetries      int
	RetryDelay      time.Duration
	RequestInterval time.Duration
	Timeout         time.Duration
	SkipVerify      bool
	Verbose         bool
}

// RunSummary is the machine-readable record of one pipeline run.
type RunSummary struct {
	RunID          string              `json:"run_id"`
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     time.Time           `json:"finished_at"`
	NotesTotal     int                 `json:"notes_total"`
	Exported       int                 `json:"exported"`
	ExportFailures []export.FailedNote `json:"export_failures,omitempty"`
	Dispatch       *dispatch.Result    `json:"dispatch,omitempty"`
}

// Run executes the full export-then-dispatch pipeline. Per-note and
// per-artifact failures are reported and skipped; only structural failures
// (unreadable vault, missing folder, unwritable output, unverifiable key)
// abort the run.
func Run(ctx context.Context, opts RunOptions) error {

	// Initialize observability printer for verbose output
	printer := observability.NewPrinter(os.Stdout)

	summary := &RunSummary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	if opts.Verbose {
		fmt.Printf("[VERBOSE] Run ID: %s\n", summary.RunID)
	}

	// Step 1: Export note bodies to text artifacts
	fmt.Printf("Step 1/2: Exporting notes from %s...\n", opts.NotesDir)
	store, err := notes.NewVaultStore(opts.NotesDir)
	if err != nil {
		return fmt.Errorf("opening notes vault failed: %w", err)
	}

	exportSummary, err := export.NewExporter(store, opts.OutputDir).Run(ctx, opts.NotesFolder)
	if err != nil {
		return fmt.Errorf("exporting notes failed: %w", err)
	}
	summary.NotesTotal = exportSummary.Total
	summary.Exported = exportSummary.Exported
	summary.ExportFailures = exportSummary.Failed

	fmt.Printf("Exported %d of %d notes to %s\n", exportSummary.Exported, exportSummary.Total, exportSummary.TextDir)
	if opts.Verbose {
		printer.PrintExportSummary(exportSummary)
	}

	// Nothing exported means nothing to dispatch; skip client setup entirely
	// so an empty vault never touches the API.
	if exportSummary.Exported == 0 {
		fmt.Printf("No artifacts to dispatch.\n")
		summary.Dispatch = &dispatch.Result{}
		finishRun(opts.OutputDir, summary)
		return nil
	}

	// Step 2: Dispatch artifacts to the analysis API
	fmt.Printf("Step 2/2: Dispatching %d artifacts for analysis...\n", exportSummary.Exported)
	client, err := analysis.NewClient(ctx, analysisConfig(opts), opts.APIKey)
	if err != nil {
		return fmt.Errorf("creating analysis client failed: %w", err)
	}
	defer client.Close()

	if opts.Verbose {
		fmt.Printf("[VERBOSE] Using model %s\n", client.Model())
	}

	if !opts.SkipVerify {
		if err := client.Verify(ctx); err != nil {
			return fmt.Errorf("API key verification failed: %w", err)
		}
		if opts.Verbose {
			fmt.Printf("[VERBOSE] API key verified\n")
		}
	}

	result, err := dispatch.Run(ctx, client, dispatch.Options{
		ManifestPath:    exportSummary.ManifestPath,
		OutputDir:       opts.OutputDir,
		Prompt:          opts.Prompt,
		MaxRetries:      opts.MaxRetries,
		RetryDelay:      opts.RetryDelay,
		RequestInterval: opts.RequestInterval,
		Verbose:         opts.Verbose,
	})
	if err != nil {
		return fmt.Errorf("dispatching artifacts failed: %w", err)
	}
	summary.Dispatch = result

	fmt.Printf("Dispatch complete: %d succeeded, %d failed, %d total\n", result.Succeeded, result.Failed, result.Total)
	if opts.Verbose {
		printer.PrintDispatchResult(result)
	}

	finishRun(opts.OutputDir, summary)
	return nil
}

// analysisConfig translates pipeline options into an analysis client config,
// leaving unset fields to the provider defaults.
func analysisConfig(opts RunOptions) *analysis.Config {
	cfg := analysis.DefaultConfig()
	if opts.Provider != "" {
		cfg.Provider = analysis.Provider(opts.Provider)
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	return cfg
}

// finishRun stamps the summary and persists it next to the run artifacts.
// A summary write failure is reported but never fails the run.
func finishRun(outputDir string, summary *RunSummary) {
	summary.FinishedAt = time.Now()

	path := filepath.Join(outputDir, SummaryFileName)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		fmt.Printf("Warning: failed to encode run summary: %v\n", err)
	} else if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		fmt.Printf("Warning: failed to write run summary: %v\n", err)
	}

	fmt.Printf("Done! Results stored in %s.\n", outputDir)
}
