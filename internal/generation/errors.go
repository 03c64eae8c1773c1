package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrMissingDataSource is returned when a spec has neither a data prompt nor
	// a data processor.
	ErrMissingDataSource = errors.New("generator is missing a data prompt or data processor")

	// ErrInvalidSpec is returned when a spec fails validation for any other reason.
	ErrInvalidSpec = errors.New("invalid generator spec")

	// ErrUnresolvedPlaceholder is returned when a prompt template references a
	// variable that is not available.
	ErrUnresolvedPlaceholder = errors.New("unresolved template placeholder")

	// ErrSchemaValidation is returned when a structured response does not
	// conform to the requested schema.
	ErrSchemaValidation = errors.New("structured response failed schema validation")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrUpstream is returned when an AI or image provider fails for a reason
	// other than a timeout.
	ErrUpstream = errors.New("upstream provider error")

	// ErrTimeout is returned when an AI call exceeds its deadline.
	ErrTimeout = errors.New("ai call timed out")

	// ErrInvalidConfig is returned when a client or builder configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrMissingVars is returned when a pre-prompt hook drops the address or
	// snapshot time from the request variables.
	ErrMissingVars = errors.New("request variables are missing address or snapshotAt")
)

// Phase names the step of a card build in which an error occurred.
type Phase string

// Build phases.
const (
	PhaseConfig    Phase = "config"
	PhasePrePrompt Phase = "pre_prompt"
	PhaseData      Phase = "data"
	PhaseMedia     Phase = "media"
	PhaseAssemble  Phase = "assemble"
	PhaseUnknown   Phase = "unknown"
)

// BuildError is a hard failure of one generator's build.
type BuildError struct {
	Kind  string
	Phase Phase
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s failed in %s phase: %v", e.Kind, e.Phase, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
