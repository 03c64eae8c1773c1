package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/wallet-wrapped/internal/domain"
)

// SchemaType is a JSON type in a response schema.
type SchemaType string

// Schema types understood by the AI adapters.
const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
)

// Schema is a provider-neutral description of a structured response. Adapters
// translate it into their own schema format.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	Enum        []string
}

// CardDataSchema describes the card data object returned by data prompts.
var CardDataSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"leadInText": {Type: TypeString, Description: "short setup line"},
		"revealText": {Type: TypeString, Description: "bold payoff line"},
		"highlights": {
			Type:        TypeArray,
			Description: "up to four small stats",
			Items: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"label": {Type: TypeString},
					"value": {Type: TypeString},
				},
				Required: []string{"label", "value"},
			},
		},
		"footnote": {Type: TypeString},
	},
	Required: []string{"leadInText", "revealText"},
}

// MediaSchema describes the media object returned by media prompts. It is a
// flat object with a kind discriminator because structured-output providers
// cannot express a union; the per-kind shape is enforced after decoding.
var MediaSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"kind": {Type: TypeString, Enum: []string{string(domain.MediaKindURL), string(domain.MediaKindSVG)}},
		"src":  {Type: TypeString, Description: "https image URL when kind is url"},
		"svg":  {Type: TypeString, Description: "inline SVG markup when kind is svg"},
		"alt":  {Type: TypeString},
	},
	Required: []string{"kind"},
}

var validate = validator.New()

// DecodeStructured decodes a model's JSON output into out and validates it.
// Unknown keys are ignored. Malformed JSON, trailing data and failed
// validation produce ErrSchemaValidation. Output wrapped in a markdown code
// fence is accepted.
func DecodeStructured(raw []byte, out any) error {
	raw = stripCodeFence(raw)

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", ErrSchemaValidation)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func stripCodeFence(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(s)
}

// cardDataPayload is the decoded form of CardDataSchema. Text fields are
// pointers so a missing key fails validation while an empty string decodes
// and is later treated as incomplete data. The highlight count is left to the
// prompt.
type cardDataPayload struct {
	LeadInText *string            `json:"leadInText" validate:"required"`
	RevealText *string            `json:"revealText" validate:"required"`
	Highlights []highlightPayload `json:"highlights" validate:"omitempty,dive"`
	Footnote   string             `json:"footnote"`
}

// highlightPayload requires both keys but accepts empty values.
type highlightPayload struct {
	Label *string `json:"label" validate:"required"`
	Value *string `json:"value" validate:"required"`
	Image string  `json:"image"`
}

func (p *cardDataPayload) cardData() domain.CardData {
	data := domain.CardData{Footnote: p.Footnote}
	if p.LeadInText != nil {
		data.LeadInText = *p.LeadInText
	}
	if p.RevealText != nil {
		data.RevealText = *p.RevealText
	}
	for _, h := range p.Highlights {
		hl := domain.Highlight{Image: h.Image}
		if h.Label != nil {
			hl.Label = *h.Label
		}
		if h.Value != nil {
			hl.Value = *h.Value
		}
		data.Highlights = append(data.Highlights, hl)
	}
	return data
}

type mediaPayload struct {
	Kind string `json:"kind" validate:"required,oneof=url svg"`
	Src  string `json:"src"`
	SVG  string `json:"svg"`
	Alt  string `json:"alt"`
}

func (p *mediaPayload) media() (*domain.Media, error) {
	m := &domain.Media{Kind: domain.MediaKind(p.Kind), Src: p.Src, SVG: p.SVG, Alt: p.Alt}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return m, nil
}
