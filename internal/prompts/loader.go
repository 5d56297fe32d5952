// Package prompts provides the externalized LLM prompt templates for the
// agent pipeline. Templates are stored as JSON and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed agents.json
var promptFiles embed.FS

var (
	loadOnce sync.Once
	loaded   map[string]string
	loadErr  error
)

// Prompt keys for the four pipeline steps.
const (
	KeySkillAssessment = "skill-assessment"
	KeyMarketDemand    = "market-demand"
	KeySkillGap        = "skill-gap"
	KeyLearningPath    = "learning-path"
)

// Get retrieves a prompt template by key.
func Get(key string) (string, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return "", loadErr
	}
	prompt, exists := loaded[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// MustGet retrieves a prompt template by key, panicking if not found.
// Use this for prompts that are required at initialization time.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

func load() {
	data, err := promptFiles.ReadFile("agents.json")
	if err != nil {
		loadErr = fmt.Errorf("failed to read prompt file: %w", err)
		return
	}
	if err := json.Unmarshal(data, &loaded); err != nil {
		loadErr = fmt.Errorf("failed to parse prompt file: %w", err)
	}
}
