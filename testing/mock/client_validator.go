package mock

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var _ clienttypes.SelfClientValidator = (*ClientValidator)(nil)

// ClientValidator is a SelfClientValidator whose behaviour is set per test.
// Unset functions accept everything.
type ClientValidator struct {
	GetSelfConsensusStateFn func(ctx sdk.Context, height exported.Height) (exported.ConsensusState, error)
	ValidateSelfClientFn    func(ctx sdk.Context, clientState exported.ClientState) error
}

func (cv *ClientValidator) GetSelfConsensusState(ctx sdk.Context, height exported.Height) (exported.ConsensusState, error) {
	if cv.GetSelfConsensusStateFn == nil {
		return nil, nil
	}

	return cv.GetSelfConsensusStateFn(ctx, height)
}

func (cv *ClientValidator) ValidateSelfClient(ctx sdk.Context, clientState exported.ClientState) error {
	if cv.ValidateSelfClientFn == nil {
		return nil
	}

	return cv.ValidateSelfClientFn(ctx, clientState)
}
