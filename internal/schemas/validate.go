// Package schemas provides JSON Schema validation for the structured output
// of each agent pipeline step. Schemas are embedded at compile time.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Step schema names accepted by ValidateStep.
const (
	StepSkillProfile  = "skill_profile"
	StepMarketProfile = "market_profile"
	StepSkillGap      = "skill_gap"
	StepLearningPath  = "learning_path"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Step   string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("schema validation failed for %s:\n", ve.Step))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateStep validates extracted JSON against the embedded schema for the
// named pipeline step. A nil return means the document conforms.
func ValidateStep(step string, doc []byte) error {
	schemaData, err := schemaFiles.ReadFile(step + ".schema.json")
	if err != nil {
		return fmt.Errorf("unknown step schema %q: %w", step, err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate %s document: %w", step, err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Step:   step,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
