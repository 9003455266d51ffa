package notes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// noteExtensions lists the file extensions recognized as notes.
var noteExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
}

// VaultStore reads notes from a directory vault: loose note files at the
// root plus one level of folder subdirectories.
type VaultStore struct {
	root string
}

// NewVaultStore creates a store rooted at dir. The directory must exist.
func NewVaultStore(dir string) (*VaultStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &StoreError{Path: dir, Message: "vault directory not accessible", Cause: err}
	}
	if !info.IsDir() {
		return nil, &StoreError{Path: dir, Message: "vault path is not a directory"}
	}
	return &VaultStore{root: dir}, nil
}

// Folders lists the vault's immediate subdirectories. os.ReadDir returns
// entries sorted by name, which fixes the enumeration order.
func (s *VaultStore) Folders(ctx context.Context) ([]Folder, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StoreError{Path: s.root, Message: "failed to read vault", Cause: err}
	}

	var folders []Folder
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		folders = append(folders, Folder{
			Name: entry.Name(),
			Path: filepath.Join(s.root, entry.Name()),
		})
	}
	return folders, nil
}

// Notes lists every note in the vault: root-level notes first, then each
// folder's notes with folders in name order.
func (s *VaultStore) Notes(ctx context.Context) ([]Note, error) {
	all, err := s.readFolder(s.root, "")
	if err != nil {
		return nil, err
	}

	folders, err := s.Folders(ctx)
	if err != nil {
		return nil, err
	}
	for _, folder := range folders {
		folderNotes, err := s.readFolder(folder.Path, folder.Name)
		if err != nil {
			return nil, err
		}
		all = append(all, folderNotes...)
	}
	return all, nil
}

// NotesInFolder lists the notes in the named folder. Matching compares the
// requested name against the directory listing with ==, so the lookup stays
// case-sensitive even on case-insensitive filesystems.
func (s *VaultStore) NotesInFolder(ctx context.Context, name string) ([]Note, error) {
	folders, err := s.Folders(ctx)
	if err != nil {
		return nil, err
	}
	for _, folder := range folders {
		if folder.Name == name {
			return s.readFolder(folder.Path, folder.Name)
		}
	}
	return nil, &FolderNotFoundError{Folder: name}
}

// readFolder loads all note files directly inside dir.
func (s *VaultStore) readFolder(dir, folderName string) ([]Note, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &StoreError{Path: dir, Message: "failed to read folder", Cause: err}
	}

	var result []Note
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !noteExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		note, err := s.readNote(filepath.Join(dir, entry.Name()), folderName)
		if err != nil {
			return nil, err
		}
		result = append(result, *note)
	}
	return result, nil
}

// frontmatter holds the recognized keys of a note's YAML header.
type frontmatter struct {
	Title   string `yaml:"title"`
	Created string `yaml:"created"`
}

// readNote loads a single note file, resolving title, body and creation
// time. The title defaults to the file name stem and the creation time to
// the file modification time; frontmatter overrides both when present.
func (s *VaultStore) readNote(path, folderName string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreError{Path: path, Message: "failed to read note", Cause: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &StoreError{Path: path, Message: "failed to stat note", Cause: err}
	}

	note := &Note{
		ID:      path,
		Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Folder:  folderName,
		Created: info.ModTime(),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err := FlattenHTML(string(data))
		if err != nil {
			return nil, &StoreError{Path: path, Message: "failed to parse HTML note", Cause: err}
		}
		note.Body = text
	default:
		body, fm := splitFrontmatter(string(data))
		note.Body = body
		if fm != nil {
			if fm.Title != "" {
				note.Title = fm.Title
			}
			if created, ok := parseCreated(fm.Created); ok {
				note.Created = created
			}
		}
	}

	return note, nil
}

// splitFrontmatter separates an optional leading YAML block (delimited by
// "---" lines) from the note body. Malformed or unterminated frontmatter is
// treated as plain content.
func splitFrontmatter(content string) (string, *frontmatter) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return content, nil
	}

	rest := content[3:]
	parts := strings.SplitN(rest, "\n---", 2)
	if len(parts) == 1 {
		return content, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[0]), &fm); err != nil {
		return content, nil
	}

	body := strings.TrimPrefix(parts[1], "\n")
	body = strings.TrimPrefix(body, "\r\n")
	return body, &fm
}

// parseCreated accepts the timestamp layouts commonly found in note
// frontmatter.
func parseCreated(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
