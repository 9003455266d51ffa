// Package export turns notes into per-note text artifacts plus a manifest
// that hands the batch over to the dispatch stage.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marisa/noteflow/internal/manifest"
	"github.com/marisa/noteflow/internal/notes"
)

const (
	// TextDirName is the output subdirectory holding exported note bodies.
	TextDirName = "text"

	// timestampLayout names artifacts by their per-note export time.
	timestampLayout = "2006-01-02_150405"

	// collisionLayout adds nanoseconds when two same-named artifacts land
	// within the same second.
	collisionLayout = "2006-01-02_150405.000000000"
)

// TextArtifact is one exported note body on disk.
type TextArtifact struct {
	Path      string
	NoteID    string
	NoteTitle string
}

// FailedNote records a note that could not be exported.
type FailedNote struct {
	NoteTitle string `json:"note_title"`
	Reason    string `json:"reason"`
}

// Summary reports the outcome of an export run.
type Summary struct {
	Exported     int
	Total        int
	TextDir      string
	ManifestPath string
	Artifacts    []TextArtifact
	Failed       []FailedNote
}

// Exporter writes note bodies to text artifacts under an output directory.
type Exporter struct {
	store notes.Store
	out   string
	now   func() time.Time
}

// NewExporter creates an exporter writing under outputDir.
func NewExporter(store notes.Store, outputDir string) *Exporter {
	return &Exporter{store: store, out: outputDir, now: time.Now}
}

// Run exports all notes, or only the named folder when folder is non-empty,
// and writes the artifact manifest. Per-note write failures are logged and
// skipped; enumeration and folder lookup failures abort the run. The
// manifest is written even when no note exported.
func (e *Exporter) Run(ctx context.Context, folder string) (*Summary, error) {
	var (
		batch []notes.Note
		err   error
	)
	if folder != "" {
		batch, err = e.store.NotesInFolder(ctx, folder)
	} else {
		batch, err = e.store.Notes(ctx)
	}
	if err != nil {
		return nil, err
	}

	textDir := filepath.Join(e.out, TextDirName)
	if err := os.MkdirAll(textDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create text directory: %w", err)
	}

	summary := &Summary{
		Total:        len(batch),
		TextDir:      textDir,
		ManifestPath: filepath.Join(e.out, manifest.FileName),
	}

	var entries []string
	for i, note := range batch {
		path, err := e.writeArtifact(textDir, note, i)
		if err != nil {
			fmt.Printf("Warning: failed to export note %q: %v\n", note.Title, err)
			summary.Failed = append(summary.Failed, FailedNote{NoteTitle: note.Title, Reason: err.Error()})
			continue
		}
		summary.Artifacts = append(summary.Artifacts, TextArtifact{
			Path:      path,
			NoteID:    note.ID,
			NoteTitle: note.Title,
		})
		entries = append(entries, path)
	}
	summary.Exported = len(entries)

	if err := manifest.Write(summary.ManifestPath, entries); err != nil {
		return nil, err
	}

	return summary, nil
}

// writeArtifact writes one note body, verbatim, to a timestamp-suffixed
// text file. Creation is exclusive; when a same-named artifact already
// exists for the current second, the write retries once with a
// nanosecond-precision timestamp.
func (e *Exporter) writeArtifact(textDir string, note notes.Note, index int) (string, error) {
	base := artifactBaseName(note.Title, index)
	stamp := e.now()

	path := filepath.Join(textDir, fmt.Sprintf("%s_%s.txt", base, stamp.Format(timestampLayout)))
	err := writeExclusive(path, []byte(note.Body))
	if os.IsExist(err) {
		path = filepath.Join(textDir, fmt.Sprintf("%s_%s.txt", base, e.now().Format(collisionLayout)))
		err = writeExclusive(path, []byte(note.Body))
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// writeExclusive creates path with the given content, failing if a file
// already exists there.
func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
