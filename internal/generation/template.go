package generation

import (
	"fmt"
	"strings"
)

// Prompt templates reference variables as {{key}}, where key is a variable
// name with optional surrounding spaces. Interpolate resolves them:
//
//   - {{address}} is replaced with the address everywhere it occurs. A template
//     without it gets "The user's address is: <address>." prepended instead.
//   - when a cardData variable is set and the template does not reference it,
//     "Card data is: <cardData>." is prepended.
//   - every other placeholder is replaced by its variable. A placeholder with
//     no matching variable is an error wrapping ErrUnresolvedPlaceholder.
//
// Substituted values are never rescanned, so variable contents cannot inject
// placeholders.
func Interpolate(template string, vars Vars) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	var usedAddress, usedCardData bool
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[open+2:], "}}")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		key := strings.TrimSpace(rest[open+2 : open+2+end])
		if !isPlaceholderKey(key) {
			// Not a placeholder (for example literal JSON braces); keep the
			// opening braces and continue after them.
			b.WriteString(rest[:open+2])
			rest = rest[open+2:]
			continue
		}

		value, ok := vars.Lookup(key)
		if !ok {
			return "", fmt.Errorf("%w: {{%s}}", ErrUnresolvedPlaceholder, key)
		}
		switch key {
		case VarAddress:
			usedAddress = true
		case VarCardData:
			usedCardData = true
		}

		b.WriteString(rest[:open])
		b.WriteString(value)
		rest = rest[open+2+end+2:]
	}

	prompt := b.String()
	if !usedAddress {
		prompt = fmt.Sprintf("The user's address is: %s.\n\n%s", vars.Address, prompt)
	}
	if cardData, ok := vars.Lookup(VarCardData); ok && !usedCardData {
		prompt = fmt.Sprintf("Card data is: %s.\n\n%s", cardData, prompt)
	}
	return prompt, nil
}

func isPlaceholderKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
