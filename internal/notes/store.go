// Package notes defines the note store boundary and a filesystem-backed
// implementation used by the export stage.
package notes

import (
	"context"
	"time"
)

// Note is a single note with its body already flattened to plain text.
type Note struct {
	ID      string
	Title   string
	Body    string
	Folder  string
	Created time.Time
}

// Folder is a named group of notes within a store.
type Folder struct {
	Name string
	Path string
}

// Store enumerates folders and notes from an underlying note source.
// Implementations must return notes in a stable enumeration order.
type Store interface {
	// Folders lists all folders in the store.
	Folders(ctx context.Context) ([]Folder, error)

	// Notes lists every note in the store in enumeration order.
	Notes(ctx context.Context) ([]Note, error)

	// NotesInFolder lists the notes in the named folder. The name is
	// matched case-sensitively and the first match in enumeration order
	// wins. Returns a FolderNotFoundError when no folder matches.
	NotesInFolder(ctx context.Context, name string) ([]Note, error)
}
