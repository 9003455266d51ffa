// Package manifest reads and writes the artifact manifest that links the
// export and dispatch stages.
package manifest

import (
	"fmt"
	"os"
	"strings"
)

// FileName is the manifest file name within the output directory.
const FileName = "text_paths.txt"

// NotFoundError indicates the manifest file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manifest not found: %s (run the export stage first)", e.Path)
}

// Write stores one artifact path per line, each line newline-terminated.
// Zero entries produce a valid empty manifest.
func Write(path string, entries []string) error {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Read returns the artifact paths listed in the manifest, in file order.
// Blank lines are skipped. A missing file returns a NotFoundError.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}
