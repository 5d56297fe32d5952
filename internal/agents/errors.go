// Package agents implements the sequential agent pipeline: prompt
// construction, LLM calls, JSON extraction, schema validation, and bounded
// retry for the four career-planning steps.
package agents

import "fmt"

// StepError is the terminal failure for one pipeline step after the retry
// budget is exhausted. It wraps the last underlying cause.
type StepError struct {
	Step     string
	Attempts int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed after %d attempts: %v", e.Step, e.Attempts, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
