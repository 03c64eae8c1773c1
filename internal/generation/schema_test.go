package generation

import (
	"testing"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStructured_CardData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    domain.CardData
		wantErr bool
	}{
		{
			name: "complete",
			raw:  `{"leadInText":"Your heaviest bags:","revealText":"ETH","highlights":[{"label":"ETH","value":"$10"}],"footnote":"f"}`,
			want: domain.CardData{
				LeadInText: "Your heaviest bags:",
				RevealText: "ETH",
				Highlights: []domain.Highlight{{Label: "ETH", Value: "$10"}},
				Footnote:   "f",
			},
		},
		{
			name: "fenced",
			raw:  "```json\n{\"leadInText\":\"a\",\"revealText\":\"b\"}\n```",
			want: domain.CardData{LeadInText: "a", RevealText: "b"},
		},
		{
			name: "empty text decodes for the incomplete check",
			raw:  `{"leadInText":"","revealText":"b"}`,
			want: domain.CardData{RevealText: "b"},
		},
		{
			name: "unknown key ignored",
			raw:  `{"leadInText":"a","revealText":"b","mood":"x"}`,
			want: domain.CardData{LeadInText: "a", RevealText: "b"},
		},
		{
			name: "empty highlight value kept",
			raw:  `{"leadInText":"a","revealText":"b","highlights":[{"label":"x","value":""}]}`,
			want: domain.CardData{LeadInText: "a", RevealText: "b", Highlights: []domain.Highlight{{Label: "x"}}},
		},
		{name: "missing reveal", raw: `{"leadInText":"a"}`, wantErr: true},
		{name: "highlight without value", raw: `{"leadInText":"a","revealText":"b","highlights":[{"label":"x"}]}`, wantErr: true},
		{name: "wrong type", raw: `{"leadInText":1,"revealText":"b"}`, wantErr: true},
		{name: "trailing data", raw: `{"leadInText":"a","revealText":"b"} {}`, wantErr: true},
		{name: "not json", raw: `sure! here is your card`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p cardDataPayload
			err := DecodeStructured([]byte(tt.raw), &p)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSchemaValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.cardData())
		})
	}
}

func TestMediaPayload(t *testing.T) {
	t.Parallel()

	var p mediaPayload
	require.NoError(t, DecodeStructured([]byte(`{"kind":"url","src":"https://x.io/a.png","alt":"a"}`), &p))
	m, err := p.media()
	require.NoError(t, err)
	assert.Equal(t, domain.MediaKindURL, m.Kind)

	p = mediaPayload{}
	assert.ErrorIs(t, DecodeStructured([]byte(`{"kind":"jsx"}`), &p), ErrSchemaValidation)

	p = mediaPayload{Kind: "svg", Src: "https://x.io"}
	_, err = p.media()
	assert.ErrorIs(t, err, ErrSchemaValidation)
}
