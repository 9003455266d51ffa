package export

import (
	"fmt"
	"strings"
)

// invalidNameChars are the characters replaced in note titles before they
// are used as artifact file names.
const invalidNameChars = `:/\*?"<>|`

// SanitizeTitle makes a note title safe for use as a file name: each
// filesystem-hostile character becomes an underscore and surrounding
// whitespace is trimmed.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if strings.ContainsRune(invalidNameChars, r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// artifactBaseName returns the sanitized title, or a positional fallback
// for titles that sanitize down to nothing. index is 0-based; fallback
// names are 1-based.
func artifactBaseName(title string, index int) string {
	name := SanitizeTitle(title)
	if name == "" {
		name = fmt.Sprintf("note_%d", index+1)
	}
	return name
}
