package notes

import "fmt"

// FolderNotFoundError indicates that no folder matched the requested name.
type FolderNotFoundError struct {
	Folder string
}

func (e *FolderNotFoundError) Error() string {
	return fmt.Sprintf("folder not found: %q", e.Folder)
}

// StoreError represents a failure reading from the underlying note source.
type StoreError struct {
	Path    string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("note store error at %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("note store error at %s: %s", e.Path, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
