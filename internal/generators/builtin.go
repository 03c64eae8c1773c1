package generators

import (
	"context"
	"encoding/json"

	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

// Built-in generator kinds.
const (
	KindAccountMetadata = "account-metadata"
	KindTopTokens       = "top-tokens"
	KindTopTraded       = "top-traded"
	KindTopNFTs         = "top-nfts"
	KindNFTEntourage    = "nft-entourage"
	KindBestTrade       = "best-trade"
	KindRecommendations = "recommendations"
)

// ReputationSource returns on-chain reputation metadata for an address.
type ReputationSource interface {
	Reputation(ctx context.Context, address string) (json.RawMessage, error)
}

// ImageFetcher downloads a remote image and returns it re-encoded as PNG.
type ImageFetcher interface {
	FetchPNG(ctx context.Context, url string) ([]byte, error)
}

// Deps are the collaborators some built-in generators need.
type Deps struct {
	// Reputation enables the account-metadata card. Without it that card is
	// not registered.
	Reputation ReputationSource
	// Images lets nft-entourage composite NFT artwork. Without it the card
	// falls back to generated SVG.
	Images ImageFetcher
}

// TopTokens is the top-tokens-by-value card.
func TopTokens() generation.Spec {
	return generation.MustSpec(generation.Definition{
		Kind:     KindTopTokens,
		Version:  1,
		Order:    10,
		Requires: []generation.Requirement{generation.RequiresTokens, generation.RequiresPrices},
		Tools:    []string{"opensea.wallet.tokens", "opensea.token.prices"},
		DataPrompt: `Rank the wallet's tokens by current USD value and keep the top 5.
Lead in with something like "Your heaviest bags this run:" and reveal the biggest holding,
e.g. "<SYMBOL> is king at $<amount>".
Highlights: one per token, label = SYMBOL, value = rounded USD.
Footnote: prices are approximate.`,
		MediaPrompt: `Draw a 1200x630 SVG horizontal bar chart of the highlights.
Label each bar with its label; bar width is proportional to the USD value parsed from value.
Bold neon gradients. Return {"kind":"svg","svg":"<svg>...</svg>","alt":"Top tokens"}.`,
	})
}

// TopTraded is the most-traded NFT collection card.
func TopTraded() generation.Spec {
	return generation.MustSpec(generation.Definition{
		Kind:     KindTopTraded,
		Version:  1,
		Order:    10,
		Requires: []generation.Requirement{generation.RequiresNFTs, generation.RequiresTxs},
		DataPrompt: `From the wallet's trade history find the NFT collection it traded most.
Feature one NFT from it and include that NFT's image URL in the highlight image field.`,
		MediaPrompt: `If a highlight has an https image URL return the first one as {"kind":"url","src":"...","alt":"..."}.
Otherwise return an SVG.`,
	})
}

// TopNFTs is the NFT gallery card.
func TopNFTs() generation.Spec {
	return generation.MustSpec(generation.Definition{
		Kind:     KindTopNFTs,
		Version:  1,
		Order:    15,
		Requires: []generation.Requirement{generation.RequiresNFTs},
		Tools:    []string{"opensea.wallet.nfts", "opensea.nft.metadata"},
		DataPrompt: `Pick the wallet's top 4 NFTs by value and clout.
Lead in with something like "Gallery flex incoming:" and reveal the grails.
Highlights: label = collection, value = "#<token id or name>".`,
		MediaPrompt: `Draw a 1200x1200 SVG collage laid out as a 2x2 grid, one tile per highlight,
with gradient-filled placeholder rectangles and the collection names.
Return {"kind":"svg","svg":"<svg>...</svg>","alt":"Top NFTs"}.`,
	})
}

// BestTrade is the single best trade card.
func BestTrade() generation.Spec {
	return generation.MustSpec(generation.Definition{
		Kind:     KindBestTrade,
		Version:  1,
		Order:    20,
		Requires: []generation.Requirement{generation.RequiresTxs, generation.RequiresPrices},
		DataPrompt: `Over the last 365 days pick the single trade with the highest positive PnL.
Lead in with something like "Your giga-brain move of the year:" and reveal the asset and PnL.
Highlights: Entry price, current price, and the shortened transaction hash.
Footnote: PnL is heuristic.`,
		MediaPrompt: `If the winning trade has an NFT image return {"kind":"url","src":"<https image>","alt":"..."}.
Otherwise draw a 1200x630 neon SVG trophy showing the PnL from the reveal line.`,
	})
}

// Recommendations is the recommended collection card.
func Recommendations() generation.Spec {
	return generation.MustSpec(generation.Definition{
		Kind:     KindRecommendations,
		Version:  1,
		Order:    20,
		Requires: []generation.Requirement{generation.RequiresNFTs},
		DataPrompt: `Look at the NFTs this wallet holds and recommend one similar collection it does not own.
Highlight two NFTs from that collection, each with its image URL in the image field.`,
		MediaPrompt: `Return the first highlighted NFT image as {"kind":"url","src":"...","alt":"..."}.
If no image URL is available return an SVG.`,
	})
}

// Builtins returns the built-in generators available with deps.
func Builtins(deps Deps) []generation.Spec {
	specs := []generation.Spec{
		TopTokens(),
		TopTraded(),
		TopNFTs(),
		NFTEntourage(deps.Images),
		BestTrade(),
		Recommendations(),
	}
	if deps.Reputation != nil {
		specs = append(specs, AccountMetadata(deps.Reputation))
	}
	return specs
}

// NewDefaultRegistry returns a registry holding the built-in generators.
func NewDefaultRegistry(deps Deps) (*Registry, error) {
	r := NewRegistry()
	for _, spec := range Builtins(deps) {
		if err := r.Register(spec); err != nil {
			return nil, err
		}
	}
	return r, nil
}
