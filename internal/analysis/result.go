package analysis

import "strings"

// ContentBlock is one unit of model output. Only "text" blocks carry text;
// other block types are preserved but contribute nothing to Text.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Usage reports token accounting when the provider supplies it.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result is the normalized analysis response. Raw preserves the provider's
// exact response body for persistence.
type Result struct {
	ID         string         `json:"id,omitempty"`
	Model      string         `json:"model,omitempty"`
	StopReason string         `json:"stop_reason,omitempty"`
	Content    []ContentBlock `json:"content"`
	Usage      Usage          `json:"usage"`
	Raw        []byte         `json:"-"`
}

// Text concatenates the text of all textual content blocks.
func (r *Result) Text() string {
	var parts []string
	for _, block := range r.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "")
}
