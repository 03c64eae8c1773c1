package generators

import (
	"strings"

	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

// CustomOrder places ad hoc generators after every built-in card.
const CustomOrder = 999

// DefaultCustomKind is used when a custom generator has no name.
const DefaultCustomKind = "custom"

// Custom builds an ad hoc prompt-only generator from user input.
func Custom(name, dataPrompt, mediaPrompt string) (generation.Spec, error) {
	kind := strings.TrimSpace(name)
	if kind == "" {
		kind = DefaultCustomKind
	}
	return generation.NewSpec(generation.Definition{
		Kind:        kind,
		Version:     1,
		Order:       CustomOrder,
		DataPrompt:  dataPrompt,
		MediaPrompt: mediaPrompt,
	})
}
