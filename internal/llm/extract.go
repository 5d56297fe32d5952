package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExtractionError indicates that no JSON-like span was found in the model output
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s", e.Message)
}

// ParseError indicates that the located span is not valid JSON
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

var jsonFenceRe = regexp.MustCompile("(?i)```json")

// ExtractJSON locates and parses the first JSON object embedded in raw model
// output. Markdown fences and surrounding prose are tolerated. The primary
// heuristic takes the span from the first '{' to the last '}'; when that span
// does not parse (stray braces, trailing prose with a '}' ), a brace-depth
// scan over candidate spans is tried before failing.
func ExtractJSON(raw string) (json.RawMessage, error) {
	cleaned := jsonFenceRe.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ExtractionError{Message: "no JSON object found in LLM response"}
	}

	span := cleaned[start : end+1]
	if json.Valid([]byte(span)) {
		return json.RawMessage(span), nil
	}

	if candidate, ok := scanBalancedObject(cleaned[start:]); ok {
		return json.RawMessage(candidate), nil
	}

	return nil, &ParseError{
		Message: "extracted span is not valid JSON",
		Cause:   unmarshalErr(span),
	}
}

// scanBalancedObject walks the text tracking brace depth (string- and
// escape-aware) and returns the first balanced object that parses as JSON.
func scanBalancedObject(text string) (string, bool) {
	for offset := 0; offset < len(text); offset++ {
		if text[offset] != '{' {
			continue
		}
		depth := 0
		inString := false
		escaped := false
		for i := offset; i < len(text); i++ {
			c := text[i]
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				if inString {
					escaped = true
				}
			case '"':
				inString = !inString
			case '{':
				if !inString {
					depth++
				}
			case '}':
				if !inString {
					depth--
					if depth == 0 {
						candidate := text[offset : i+1]
						if json.Valid([]byte(candidate)) {
							return candidate, true
						}
						i = len(text) // unbalanced content inside, try next '{'
					}
				}
			}
		}
	}
	return "", false
}

// unmarshalErr surfaces the underlying decode error for the failed span
func unmarshalErr(span string) error {
	var v any
	return json.Unmarshal([]byte(span), &v)
}
