package generators

import (
	"context"
	"fmt"

	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

// VarReputation is the variable the account-metadata pre-prompt fills.
const VarReputation = "addressReputationMetadata"

const accountMetadataPrompt = `Write an on-chain account overview card for {{address}}.
Do not call any tools: the reputation metadata below is all the data you need.

Reputation metadata:
{{addressReputationMetadata}}

Pick ONE persona, the first that fits:
1. Builder: smart_contract_deployments >= 1
2. Bridge Nomad: bridge_transactions_performed >= 10
3. DeFi Degen: lend_borrow_stake_transactions >= 50
4. Serial Swapper: token_swaps_performed >= 100
5. Power User: total_transactions >= 1000, or unique_days_active >= 180 with activity_period_days >= 365
6. ENS Native: ens_contract_interactions >= 10
7. Streak Lord: longest_active_streak >= 30 or current_active_streak >= 14
8. Weekend Warrior: unique_days_active <= 30 with total_transactions >= 100
9. Newcomer: activity_period_days < 30 or total_transactions < 20
10. Balanced Voyager: when nothing dominates

Lead in with something like "On-chain vibe check:" and reveal the persona with one stat.
Highlights: 2 to 4 of total tx, active days, longest streak, swaps, DeFi ops, bridges,
deploys, ENS calls; biggest numbers first, thousands separators, day counts with a "d" suffix.`

const accountMetadataMediaPrompt = `Generate a creative SVG of about 100 shapes that captures this account's persona.
Match the colour scheme to the persona and add decals that represent it.`

// AccountMetadata is the account overview card. Its pre-prompt loads
// reputation metadata for the address into the prompt variables.
func AccountMetadata(source ReputationSource) generation.Spec {
	return generation.MustSpec(generation.Definition{
		Kind:    KindAccountMetadata,
		Version: 1,
		Order:   1,
		PrePrompt: func(ctx context.Context, vars generation.Vars) (generation.Vars, error) {
			meta, err := source.Reputation(ctx, vars.Address)
			if err != nil {
				return vars, fmt.Errorf("load reputation metadata: %w", err)
			}
			return vars.With(VarReputation, string(meta)), nil
		},
		DataPrompt:  accountMetadataPrompt,
		MediaPrompt: accountMetadataMediaPrompt,
	})
}
