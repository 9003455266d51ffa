package notes

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FlattenHTML converts an HTML note body to plain text. Script, style and
// head content is dropped and block-level structure collapses to lines.
func FlattenHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	// Block elements need explicit breaks or their text runs together.
	body.Find("br").ReplaceWithHtml("\n")
	body.Find("p, div, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	return cleanWhitespace(body.Text()), nil
}

// cleanWhitespace trims each line and drops the empty lines left over from
// markup removal.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")

	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
