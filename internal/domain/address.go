package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsValidAddress reports whether s is 0x followed by exactly 40 hex characters.
// Surrounding whitespace is not tolerated.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress validates s and returns its lowercase form. The result is a
// fixed point: normalizing an already normalized address returns it unchanged.
func NormalizeAddress(s string) (string, error) {
	if !IsValidAddress(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return strings.ToLower(s), nil
}

// ShortAddress renders an address as 0x1234…abcd for display. Inputs too short
// to abbreviate are returned unchanged.
func ShortAddress(s string) string {
	if len(s) < 10 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}
