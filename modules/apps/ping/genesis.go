package ping

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/ibc-core/modules/apps/ping/keeper"
	"github.com/ComposableFi/ibc-core/modules/apps/ping/types"
)

// InitGenesis binds the ping module to its port.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, portID string) {
	if portID == "" {
		portID = types.PortID
	}
	k.SetPort(ctx, portID)
}
