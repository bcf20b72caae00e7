package ante

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	"github.com/ComposableFi/ibc-core/modules/core/keeper"
)

// RedundantRelayChecker rejects batches whose packet messages have all been
// relayed already.
type RedundantRelayChecker struct {
	k *keeper.Keeper
}

// NewRedundantRelayChecker returns a RedundantRelayChecker over the IBC keeper.
func NewRedundantRelayChecker(k *keeper.Keeper) RedundantRelayChecker {
	return RedundantRelayChecker{k: k}
}

// CheckBatch returns ErrRedundantTx if msgs only contain packet messages (Recv, Ack, Timeout)
// and client updates, and every packet message is redundant. If the batch contains some other
// message type, or is just a set of UpdateClient messages, no error is returned so the batch
// is executed. The messages are executed against a cache context that is always discarded.
func (rrc RedundantRelayChecker) CheckBatch(ctx sdk.Context, msgs []exported.Msg) error {
	// keep track of total packet messages and number of redundancies across `RecvPacket`, `AcknowledgePacket`, and `TimeoutPacket/OnClose`
	redundancies := 0
	packetMsgs := 0

	for _, msg := range msgs {
		switch msg.(type) {
		case *channeltypes.MsgRecvPacket, *channeltypes.MsgAcknowledgement,
			*channeltypes.MsgTimeout, *channeltypes.MsgTimeoutOnClose:
			packetMsgs++
		case *clienttypes.MsgUpdateClient:
		default:
			// if the batch has a msg that is not a packet msg or update msg, then we will not return error
			// regardless of if all packet messages are redundant. This ensures that non-packet messages get processed
			// even if they get batched with redundant packet messages.
			return nil
		}
	}

	if packetMsgs == 0 {
		return nil
	}

	cacheCtx, _ := ctx.CacheContext()
	for i, result := range rrc.k.DispatchBatch(cacheCtx.WithEventManager(sdk.NewEventManager()), msgs) {
		if _, ok := msgs[i].(*clienttypes.MsgUpdateClient); ok {
			if result.Err != nil {
				return result.Err
			}
			continue
		}

		if result.NoOp {
			redundancies++
		}
	}

	// only return error if all packet messages are redundant
	if redundancies == packetMsgs {
		return channeltypes.ErrRedundantTx
	}

	return nil
}
