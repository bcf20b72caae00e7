package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/ibc-core/modules/apps/ping/types"
	porttypes "github.com/ComposableFi/ibc-core/modules/core/05-port/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// Ping defines a handler method for MsgSendPing and returns the sequence of
// the sent packet.
func (k Keeper) Ping(ctx sdk.Context, msg *types.MsgSendPing) (uint64, error) {
	sequence, err := k.SendPing(ctx, msg.SourcePort, msg.SourceChannel, msg.Message, msg.TimeoutHeight, msg.TimeoutTimestamp)
	if err != nil {
		return 0, err
	}

	k.Logger(ctx).Info("ping sent", "port-id", msg.SourcePort, "channel-id", msg.SourceChannel, "sequence", sequence)
	return sequence, nil
}

// NewMsgHandler returns the router message handler executing MsgSendPing.
func NewMsgHandler(k Keeper) porttypes.MsgHandler {
	return func(ctx sdk.Context, msg exported.Msg) (bool, error) {
		pingMsg, ok := msg.(*types.MsgSendPing)
		if !ok {
			return false, nil
		}

		_, err := k.Ping(ctx, pingMsg)
		return true, err
	}
}
