package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// MediaKind discriminates the variants of Media.
type MediaKind string

// Supported media kinds.
const (
	MediaKindURL MediaKind = "url"
	MediaKindSVG MediaKind = "svg"
)

// Media is the visual attached to a card. It is either a remote image (Kind
// url, Src set) or inline SVG markup (Kind svg, SVG set), never both. Use
// NewURLMedia or NewSVGMedia to build values that satisfy Validate.
type Media struct {
	Kind MediaKind `json:"kind"`
	Src  string    `json:"src,omitempty"`
	SVG  string    `json:"svg,omitempty"`
	Alt  string    `json:"alt,omitempty"`
}

// NewURLMedia returns url media pointing at src, which must be an absolute
// HTTPS URL.
func NewURLMedia(src, alt string) (*Media, error) {
	m := &Media{Kind: MediaKindURL, Src: src, Alt: alt}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewSVGMedia returns inline svg media. The markup is stored as given; callers
// are responsible for sanitizing untrusted SVG first.
func NewSVGMedia(svg, alt string) (*Media, error) {
	m := &Media{Kind: MediaKindSVG, SVG: svg, Alt: alt}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the per-kind shape of m.
func (m *Media) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: media is nil", ErrInvalidMedia)
	}
	switch m.Kind {
	case MediaKindURL:
		if m.SVG != "" {
			return fmt.Errorf("%w: url media must not carry svg markup", ErrInvalidMedia)
		}
		u, err := url.Parse(m.Src)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return fmt.Errorf("%w: url media requires an https src", ErrInvalidMedia)
		}
	case MediaKindSVG:
		if m.Src != "" {
			return fmt.Errorf("%w: svg media must not carry a src", ErrInvalidMedia)
		}
		if strings.TrimSpace(m.SVG) == "" {
			return fmt.Errorf("%w: svg media requires markup", ErrInvalidMedia)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidMedia, m.Kind)
	}
	return nil
}
