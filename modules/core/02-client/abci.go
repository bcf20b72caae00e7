package client

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/ibc-core/modules/core/02-client/keeper"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
)

// BeginBlocker is used to perform IBC client upgrades
func BeginBlocker(ctx sdk.Context, k keeper.Keeper, planHeight int64) {
	if planHeight <= 0 || ctx.BlockHeight() != planHeight-1 {
		return
	}

	// Once we are at the last block this chain will commit, set the upgraded consensus state
	// so that IBC clients can use the last NextValidatorsHash as a trusted kernel for verifying
	// headers on the next version of the chain.
	if _, found := k.GetUpgradedClient(ctx, planHeight); !found {
		return
	}

	upgradedConsState := &ibctm.ConsensusState{
		Timestamp:          ctx.BlockTime(),
		NextValidatorsHash: ctx.BlockHeader().NextValidatorsHash,
	}

	if err := k.SetUpgradedConsensusState(ctx, planHeight, upgradedConsState); err != nil {
		k.Logger(ctx).Error("failed to set upgraded consensus state", "plan-height", planHeight, "error", err)
		return
	}

	keeper.EmitUpgradeChainEvent(ctx, planHeight)
}
