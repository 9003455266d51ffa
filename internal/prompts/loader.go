// Package prompts provides the built-in instruction text sent to the
// analysis API. Prompts live in an embedded JSON file keyed by name, so the
// binary needs no external prompt assets.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// promptFile holds every prompt keyed by name.
const promptFile = "analysis.json"

var (
	cacheMu sync.RWMutex
	cache   map[string]string
)

// DefaultAnalyze returns the built-in prompt sent with every dispatched
// artifact.
func DefaultAnalyze() string {
	return MustGet("analyze-note")
}

// Get retrieves a prompt by key from the embedded prompt file.
func Get(key string) (string, error) {
	cacheMu.RLock()
	loaded := cache
	cacheMu.RUnlock()

	if loaded == nil {
		data, err := promptFiles.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file %s: %w", promptFile, err)
		}
		if err := json.Unmarshal(data, &loaded); err != nil {
			return "", fmt.Errorf("failed to parse prompt file %s: %w", promptFile, err)
		}

		cacheMu.Lock()
		cache = loaded
		cacheMu.Unlock()
	}

	prompt, exists := loaded[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, promptFile)
	}
	return prompt, nil
}

// MustGet retrieves a prompt by key, panicking if it cannot be loaded. Use
// only for prompts that are known to exist at compile time.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// ClearCache clears the prompt cache.
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = nil
}
