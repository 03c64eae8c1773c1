package generators_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"github.com/phrazzld/wallet-wrapped/internal/generators"
	"github.com/phrazzld/wallet-wrapped/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAddress  = "0xA92DE6e0c17d4d9f006804b73b7b9726F0EC3842"
	testSnapshot = "2024-06-01T00:00:00.000Z"
)

type reputationFunc func(ctx context.Context, address string) (json.RawMessage, error)

func (f reputationFunc) Reputation(ctx context.Context, address string) (json.RawMessage, error) {
	return f(ctx, address)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newBuilder(t *testing.T, caps generation.Capabilities) *generation.Builder {
	t.Helper()
	if caps.Sanitizer == nil {
		caps.Sanitizer = &mocks.MockSanitizer{}
	}
	b, err := generation.NewBuilder(caps, testLogger())
	require.NoError(t, err)
	return b
}

func normalizedVars(t *testing.T) generation.Vars {
	t.Helper()
	addr, err := domain.NormalizeAddress(testAddress)
	require.NoError(t, err)
	return generation.NewVars(addr, testSnapshot)
}

func TestBuiltins_AccountMetadataNeedsReputation(t *testing.T) {
	t.Parallel()

	r, err := generators.NewDefaultRegistry(generators.Deps{})
	require.NoError(t, err)
	assert.Equal(t, 6, r.Len())
	_, err = r.Get(generators.KindAccountMetadata)
	assert.ErrorIs(t, err, generators.ErrGeneratorNotFound)

	rep := reputationFunc(func(context.Context, string) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	})
	r, err = generators.NewDefaultRegistry(generators.Deps{Reputation: rep})
	require.NoError(t, err)
	assert.Equal(t, 7, r.Len())

	specs := r.Specs()
	assert.Equal(t, generators.KindAccountMetadata, specs[0].Kind)
}

func TestBuiltins_AllValid(t *testing.T) {
	t.Parallel()

	for _, spec := range generators.Builtins(generators.Deps{}) {
		assert.NoError(t, spec.Validate(), spec.Kind)
		assert.Equal(t, "prompt", spec.DataMode(), spec.Kind)
		assert.NotEqual(t, "none", spec.MediaMode(), spec.Kind)
	}
}

// A top-tokens card with media removed, built from a stubbed AI response.
func TestTopTokens_EndToEndWithoutMedia(t *testing.T) {
	t.Parallel()

	ai := mocks.NewMockAIClientWithData(`{
		"leadInText": "Your heaviest bags this run:",
		"revealText": "ETH is king at $12,400",
		"highlights": [
			{"label": "ETH", "value": "$12,400"},
			{"label": "USDC", "value": "$3,100"}
		],
		"footnote": "Prices are approximate."
	}`, "")
	b := newBuilder(t, generation.Capabilities{AI: ai})

	spec := generators.TopTokens()
	spec.Media = nil

	res, err := b.Build(context.Background(), spec, normalizedVars(t))
	require.NoError(t, err)
	require.True(t, res.Produced())

	card := res.Card
	assert.Equal(t, "top-tokens", card.Kind)
	assert.Equal(t, 10, card.Order)
	assert.Equal(t, "ETH is king at $12,400", card.RevealText)
	assert.Len(t, card.Highlights, 2)
	assert.Nil(t, card.Media)

	reqs := ai.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, "0xa92de6e0c17d4d9f006804b73b7b9726f0ec3842")
	assert.Equal(t, []string{"opensea.wallet.tokens", "opensea.token.prices"}, reqs[0].Tools)
}

func TestAccountMetadata_PrePromptFillsReputation(t *testing.T) {
	t.Parallel()

	var gotAddress string
	rep := reputationFunc(func(_ context.Context, address string) (json.RawMessage, error) {
		gotAddress = address
		return json.RawMessage(`{"total_transactions":1200}`), nil
	})
	ai := mocks.NewMockAIClientWithData(
		`{"leadInText":"On-chain vibe check:","revealText":"Power User with 1,200 txs"}`,
		`{"kind":"svg","svg":"<svg></svg>","alt":"persona"}`,
	)
	b := newBuilder(t, generation.Capabilities{AI: ai})

	res, err := b.Build(context.Background(), generators.AccountMetadata(rep), normalizedVars(t))
	require.NoError(t, err)
	require.True(t, res.Produced())
	assert.Equal(t, "0xa92de6e0c17d4d9f006804b73b7b9726f0ec3842", gotAddress)

	reqs := ai.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0].Prompt, `{"total_transactions":1200}`)
	assert.NotContains(t, reqs[0].Prompt, "{{addressReputationMetadata}}")
	require.NotNil(t, res.Card.Media)
	assert.Equal(t, domain.MediaKindSVG, res.Card.Media.Kind)
}

func TestAccountMetadata_ReputationFailure(t *testing.T) {
	t.Parallel()

	rep := reputationFunc(func(context.Context, string) (json.RawMessage, error) {
		return nil, errors.New("upstream down")
	})
	ai := &mocks.MockAIClient{}
	b := newBuilder(t, generation.Capabilities{AI: ai})

	_, err := b.Build(context.Background(), generators.AccountMetadata(rep), normalizedVars(t))
	var buildErr *generation.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, generation.PhasePrePrompt, buildErr.Phase)
	assert.Zero(t, ai.CallCount())
}

func TestCustom(t *testing.T) {
	t.Parallel()

	spec, err := generators.Custom("  ", "Summarize {{address}}", "")
	require.NoError(t, err)
	assert.Equal(t, generators.DefaultCustomKind, spec.Kind)
	assert.Equal(t, generators.CustomOrder, spec.Order)
	assert.Nil(t, spec.Media)

	spec, err = generators.Custom("gas-guzzler", "Gas spend", "Draw a gauge")
	require.NoError(t, err)
	assert.Equal(t, "gas-guzzler", spec.Kind)
	assert.Equal(t, "prompt", spec.MediaMode())

	_, err = generators.Custom("empty", "   ", "")
	assert.ErrorIs(t, err, generation.ErrMissingDataSource)
}
