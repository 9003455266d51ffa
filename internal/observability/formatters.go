// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/marisa/noteflow/internal/dispatch"
	"github.com/marisa/noteflow/internal/export"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintExportSummary outputs the export stage outcome with the first few
// artifacts and any per-note failures.
func (p *Printer) PrintExportSummary(summary *export.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Exported: %d of %d notes\n", summary.Exported, summary.Total))
	sb.WriteString(fmt.Sprintf("Manifest: %s\n", filepath.Base(summary.ManifestPath)))

	if len(summary.Artifacts) > 0 {
		sb.WriteString("\nArtifacts:\n")
		count := min(len(summary.Artifacts), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", filepath.Base(summary.Artifacts[i].Path)))
		}
		if len(summary.Artifacts) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(summary.Artifacts)-maxItemsToShow))
		}
	}

	if len(summary.Failed) > 0 {
		sb.WriteString("\nFailed:\n")
		count := min(len(summary.Failed), 3)
		for i := 0; i < count; i++ {
			failed := summary.Failed[i]
			reason := failed.Reason
			if len(reason) > 40 {
				reason = reason[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s: %s\n", failed.NoteTitle, reason))
		}
		if len(summary.Failed) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(summary.Failed)-3))
		}
	}

	p.printBox("EXPORT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDispatchResult outputs the dispatch outcome with per-item states.
func (p *Printer) PrintDispatchResult(result *dispatch.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Succeeded: %d\n", result.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", result.Failed))
	sb.WriteString(fmt.Sprintf("Total:     %d", result.Total))

	if len(result.Items) > 0 {
		sb.WriteString("\n\nItems:\n")
		count := min(len(result.Items), maxItemsToShow)
		for i := 0; i < count; i++ {
			item := result.Items[i]
			marker := "✓"
			if item.State != dispatch.StateSucceeded {
				marker = "⚠"
			}
			sb.WriteString(fmt.Sprintf("  %s %s (%d attempt(s))", marker, filepath.Base(item.Artifact), item.Attempts))
			if i < count-1 {
				sb.WriteString("\n")
			}
		}
		if len(result.Items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more\n", len(result.Items)-maxItemsToShow))
		}
	}

	p.printBox("DISPATCH RESULT", sb.String())
}
