package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/ibc-core/modules/apps/transfer/types"
	porttypes "github.com/ComposableFi/ibc-core/modules/core/05-port/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// Transfer defines a handler method for MsgTransfer and returns the sequence
// of the packet that was sent.
func (k Keeper) Transfer(ctx sdk.Context, msg *types.MsgTransfer) (uint64, error) {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return 0, err
	}

	sequence, err := k.SendTransfer(
		ctx, msg.SourcePort, msg.SourceChannel, msg.Token, sender, msg.Receiver, msg.TimeoutHeight, msg.TimeoutTimestamp,
	)
	if err != nil {
		return 0, err
	}

	k.Logger(ctx).Info("IBC fungible token transfer", "token", msg.Token.Denom, "amount", msg.Token.Amount.String(), "sender", msg.Sender, "receiver", msg.Receiver)

	EmitTransferEvent(ctx, msg)

	return sequence, nil
}

// NewMsgHandler returns the router message handler executing MsgTransfer.
func NewMsgHandler(k Keeper) porttypes.MsgHandler {
	return func(ctx sdk.Context, msg exported.Msg) (bool, error) {
		transferMsg, ok := msg.(*types.MsgTransfer)
		if !ok {
			return false, nil
		}

		_, err := k.Transfer(ctx, transferMsg)
		return true, err
	}
}
