package generation

import (
	"context"
	"time"
)

// StructuredRequest is a single structured-output call to an AI model.
type StructuredRequest struct {
	// System is the system instruction for the model.
	System string
	// Prompt is the fully interpolated user prompt.
	Prompt string
	// Schema describes the JSON object the model must return.
	Schema *Schema
	// Vars are the request variables, forwarded as call context.
	Vars Vars
	// Tools lists tool names the generator is allowed to use.
	Tools []string
	// Timeout bounds the call. Zero means the caller's context deadline only.
	Timeout time.Duration
}

// AIClient produces structured JSON from a prompt. Implementations decode the
// model output into out with DecodeStructured and must fail with
// ErrSchemaValidation when the output does not conform, and with ErrTimeout
// when the call exceeds its deadline.
type AIClient interface {
	CallStructuredJSON(ctx context.Context, req StructuredRequest, out any) error
}

// Sanitizer strips executable and external content from untrusted SVG markup.
type Sanitizer interface {
	Sanitize(raw string) string
}

// ImageGenerator creates raster images from prompts.
type ImageGenerator interface {
	// Generate creates a new PNG image from prompt.
	Generate(ctx context.Context, prompt string) ([]byte, error)
	// Edit creates a PNG image from prompt using the given PNG images as input.
	Edit(ctx context.Context, prompt string, images [][]byte) ([]byte, error)
}

// Uploader stores generated media and returns a public HTTPS URL for it.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// Capabilities are the collaborators handed to custom processors.
type Capabilities struct {
	AI        AIClient
	Images    ImageGenerator
	Upload    Uploader
	Sanitizer Sanitizer
	// TempDir is where processors may stage intermediate files. Empty means
	// no staging.
	TempDir string
}
