// Package sanitize strips executable and external content from model-generated
// SVG markup.
package sanitize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var svgElements = []string{
	"svg", "g", "defs", "title", "desc", "symbol",
	"rect", "circle", "ellipse", "line", "polyline", "polygon", "path",
	"text", "tspan",
	"linearGradient", "radialGradient", "stop", "pattern", "clipPath", "mask",
	"filter", "feGaussianBlur", "feOffset", "feBlend", "feMerge", "feMergeNode",
	"feColorMatrix", "feDropShadow", "feFlood", "feComposite",
	"animate", "animateTransform",
}

var svgAttributes = []string{
	"id", "class", "width", "height", "x", "y", "x1", "y1", "x2", "y2",
	"cx", "cy", "r", "rx", "ry", "d", "points", "dx", "dy", "rotate",
	"viewBox", "preserveAspectRatio", "transform", "opacity",
	"fill-opacity", "fill-rule", "stroke-width", "stroke-linecap", "stroke-linejoin",
	"stroke-dasharray", "stroke-dashoffset", "stroke-opacity", "stroke-miterlimit",
	"font-family", "font-size", "font-weight", "font-style", "letter-spacing",
	"text-anchor", "dominant-baseline", "textLength", "lengthAdjust",
	"offset", "stop-opacity", "gradientUnits", "gradientTransform", "spreadMethod",
	"fx", "fy", "patternUnits", "clipPathUnits", "maskUnits", "filterUnits", "primitiveUnits",
	"in", "in2", "result", "stdDeviation", "mode", "type", "values", "operator",
	"flood-opacity", "k1", "k2", "k3", "k4",
	"attributeName", "attributeType", "from", "to", "by", "dur", "begin", "end",
	"repeatCount", "keyTimes", "keySplines", "calcMode", "additive", "accumulate",
}

// Paint and reference attributes may only hold colours, numbers and local
// url(#id) references: no colons and no slashes, so no external URLs or
// script schemes.
var (
	paintAttributes = []string{
		"fill", "stroke", "stop-color", "flood-color", "color",
		"filter", "clip-path", "mask",
	}
	paintValue = regexp.MustCompile(`^[#\w\s().,%-]*$`)
	svgNS      = regexp.MustCompile(`^http://www\.w3\.org/2000/svg$`)
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	elementRe   *regexp.Regexp
	attributeRe *regexp.Regexp
	camelCase   map[string]string
)

func setup() {
	p := bluemonday.NewPolicy()
	p.AllowElements(svgElements...)
	// Containers and text commonly carry no attributes at all.
	p.AllowNoAttrs().OnElements(svgElements...)
	p.AllowAttrs(svgAttributes...).Globally()
	p.AllowAttrs(paintAttributes...).Matching(paintValue).Globally()
	p.AllowAttrs("xmlns").Matching(svgNS).OnElements("svg")
	p.SkipElementsContent("script", "style", "foreignobject", "iframe", "object", "embed")
	policy = p

	// The HTML tokenizer lowercases names; map them back.
	camelCase = make(map[string]string)
	var elems, attrs []string
	for _, name := range svgElements {
		if lower := strings.ToLower(name); lower != name {
			camelCase[lower] = name
			elems = append(elems, lower)
		}
	}
	for _, name := range svgAttributes {
		if lower := strings.ToLower(name); lower != name {
			camelCase[lower] = name
			attrs = append(attrs, lower)
		}
	}
	elementRe = regexp.MustCompile(`(</?)(` + strings.Join(elems, "|") + `)\b`)
	attributeRe = regexp.MustCompile(`(\s)(` + strings.Join(attrs, "|") + `)=`)
}

// SVG sanitizes SVG markup. It is safe for concurrent use.
type SVG struct{}

// NewSVG returns an SVG sanitizer.
func NewSVG() *SVG {
	policyOnce.Do(setup)
	return &SVG{}
}

// Sanitize implements generation.Sanitizer.
func (s *SVG) Sanitize(raw string) string {
	policyOnce.Do(setup)
	clean := policy.Sanitize(raw)
	clean = elementRe.ReplaceAllStringFunc(clean, func(m string) string {
		sub := elementRe.FindStringSubmatch(m)
		return sub[1] + camelCase[sub[2]]
	})
	clean = attributeRe.ReplaceAllStringFunc(clean, func(m string) string {
		sub := attributeRe.FindStringSubmatch(m)
		return sub[1] + camelCase[sub[2]] + "="
	})
	return strings.TrimSpace(clean)
}
