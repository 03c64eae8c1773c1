package generation

import (
	"context"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
)

// PromptMedia asks ai for exactly one media object using the media system
// prompt and schema. Returned SVG is passed through sanitizer when one is
// given. Custom media processors use it for their SVG fallbacks.
func PromptMedia(ctx context.Context, ai AIClient, sanitizer Sanitizer, prompt string, tools []string, vars Vars) (*domain.Media, error) {
	var payload mediaPayload
	err := ai.CallStructuredJSON(ctx, StructuredRequest{
		System: MediaSystemPrompt,
		Prompt: prompt,
		Schema: MediaSchema,
		Vars:   vars,
		Tools:  tools,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.Kind == string(domain.MediaKindSVG) && sanitizer != nil {
		payload.SVG = sanitizer.Sanitize(payload.SVG)
	}
	return payload.media()
}
