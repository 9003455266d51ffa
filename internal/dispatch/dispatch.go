// Package dispatch reads the export manifest and submits each text artifact
// to the analysis API, persisting successful responses as result files.
package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marisa/noteflow/internal/analysis"
	"github.com/marisa/noteflow/internal/manifest"
)

const (
	// ResponsesDirName is the output subdirectory holding analysis results.
	ResponsesDirName = "claude_responses"

	// DefaultMaxRetries bounds retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the backoff base, doubling per retry.
	DefaultRetryDelay = time.Second
	// DefaultRequestInterval is the pause between artifacts to stay under
	// rate limits.
	DefaultRequestInterval = time.Second
)

// Options configures a dispatch run.
type Options struct {
	ManifestPath    string
	OutputDir       string
	Prompt          string
	MaxRetries      int
	RetryDelay      time.Duration
	RequestInterval time.Duration
	Verbose         bool
}

// ItemResult records one artifact's outcome.
type ItemResult struct {
	Artifact     string `json:"artifact"`
	State        State  `json:"state"`
	Attempts     int    `json:"attempts"`
	ResponsePath string `json:"response_path,omitempty"`
	TextPath     string `json:"text_path,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Result aggregates a dispatch run.
type Result struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Total     int          `json:"total"`
	Items     []ItemResult `json:"items,omitempty"`
}

// Run dispatches every manifest entry, strictly serially and in manifest
// order. A missing manifest is fatal; an empty manifest is a no-op success
// that never contacts the API. Per-item failures are recorded and the batch
// continues.
func Run(ctx context.Context, client analysis.Client, opts Options) (*Result, error) {
	entries, err := manifest.Read(opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	result := &Result{Total: len(entries)}
	if len(entries) == 0 {
		fmt.Printf("No artifacts listed in %s; nothing to dispatch.\n", opts.ManifestPath)
		return result, nil
	}

	responsesDir := filepath.Join(opts.OutputDir, ResponsesDirName)
	if err := os.MkdirAll(responsesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create responses directory: %w", err)
	}

	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	for i, artifact := range entries {
		fmt.Printf("Dispatching %d/%d: %s\n", i+1, len(entries), filepath.Base(artifact))

		item := dispatchOne(ctx, client, artifact, responsesDir, opts.Prompt, maxRetries, retryDelay)
		if item.State == StateSucceeded {
			result.Succeeded++
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Saved %s (%d attempt(s))\n", item.ResponsePath, item.Attempts)
			}
		} else {
			result.Failed++
			fmt.Printf("Warning: dispatch failed for %s after %d attempt(s): %s\n",
				filepath.Base(artifact), item.Attempts, item.Error)
		}
		result.Items = append(result.Items, item)

		// Brief pause between artifacts, but not after the last one.
		if opts.RequestInterval > 0 && i < len(entries)-1 {
			if err := sleepCtx(ctx, opts.RequestInterval); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

// dispatchOne reads one artifact and drives it through the retry state
// machine, persisting result files on success.
func dispatchOne(ctx context.Context, client analysis.Client, artifact, responsesDir, prompt string, maxRetries int, retryDelay time.Duration) ItemResult {
	item := ItemResult{Artifact: artifact, State: StateFailed}

	data, err := os.ReadFile(artifact)
	if err != nil {
		item.Error = fmt.Sprintf("failed to read artifact: %v", err)
		return item
	}
	// Null bytes upset some providers; strip them before submission.
	content := strings.ReplaceAll(string(data), "\x00", "")

	a := &attempt{}
	a.run(ctx, func(ctx context.Context) (*analysis.Result, error) {
		return client.Analyze(ctx, prompt, content)
	}, maxRetries, retryDelay)

	item.Attempts = a.attempts
	item.State = a.state

	if a.state != StateSucceeded {
		if a.lastErr != nil {
			item.Error = a.lastErr.Error()
		}
		return item
	}

	jsonPath, textPath, err := writeResult(responsesDir, artifact, a.result)
	if err != nil {
		item.State = StateFailed
		item.Error = fmt.Sprintf("failed to persist result: %v", err)
		return item
	}
	item.ResponsePath = jsonPath
	item.TextPath = textPath
	return item
}
