package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marisa/noteflow/internal/analysis"
)

// writeResult persists one successful response: the raw structured body as
// <base>.json and the extracted text as <base>.txt. Both paths derive only
// from the artifact name, so re-running dispatch for the same artifact
// overwrites the earlier results.
func writeResult(responsesDir, artifact string, res *analysis.Result) (string, string, error) {
	name := filepath.Base(artifact)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	jsonPath := filepath.Join(responsesDir, base+".json")
	if err := os.WriteFile(jsonPath, prettyJSON(res.Raw), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	textPath := filepath.Join(responsesDir, base+".txt")
	if err := os.WriteFile(textPath, []byte(res.Text()), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", textPath, err)
	}

	return jsonPath, textPath, nil
}

// prettyJSON indents the raw body for readability, falling back to the
// original bytes when they are not valid JSON.
func prettyJSON(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	return buf.Bytes()
}
