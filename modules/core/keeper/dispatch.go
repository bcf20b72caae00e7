package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/ComposableFi/ibc-core/modules/core/05-port/types"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	"github.com/ComposableFi/ibc-core/modules/core/types"
)

// Dispatch executes a single IBC message. The message runs in its own cache
// context: state changes and events are committed to ctx only if it succeeds.
// The events emitted by the message are returned.
func (k *Keeper) Dispatch(ctx sdk.Context, msg exported.Msg) (sdk.Events, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.dispatch(ctx, msg)
}

// DispatchBatch executes each message independently and in order, returning one
// Result per message. A failing message does not revert earlier successful ones.
func (k *Keeper) DispatchBatch(ctx sdk.Context, msgs []exported.Msg) []types.Result {
	k.mu.Lock()
	defer k.mu.Unlock()

	results := make([]types.Result, len(msgs))
	for i, msg := range msgs {
		events, err := k.dispatch(ctx, msg)
		results[i] = types.Result{
			Events: events,
			Err:    err,
			NoOp:   err != nil && channeltypes.IsRedundantRelay(err),
		}
	}

	return results
}

func (k *Keeper) dispatch(ctx sdk.Context, msg exported.Msg) (sdk.Events, error) {
	if msg == nil {
		return nil, sdkerrors.Wrap(ibcerrors.ErrUnknownRequest, "message cannot be nil")
	}

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	if k.Router == nil {
		return nil, sdkerrors.Wrap(porttypes.ErrInvalidRoute, "ibc router is not set")
	}

	cacheCtx, writeFn := ctx.CacheContext()
	cacheCtx = cacheCtx.WithEventManager(sdk.NewEventManager())

	if err := k.handle(cacheCtx, msg); err != nil {
		return nil, err
	}

	writeFn()

	events := cacheCtx.EventManager().Events()
	ctx.EventManager().EmitEvents(events)

	return events, nil
}

func (k *Keeper) handle(ctx sdk.Context, msg exported.Msg) error {
	var err error

	switch msg := msg.(type) {
	// 02-client
	case *clienttypes.MsgCreateClient:
		_, err = k.CreateClient(ctx, msg)
	case *clienttypes.MsgUpdateClient:
		err = k.UpdateClient(ctx, msg)
	case *clienttypes.MsgUpgradeClient:
		err = k.UpgradeClient(ctx, msg)
	case *clienttypes.MsgSubmitMisbehaviour:
		err = k.SubmitMisbehaviour(ctx, msg)

	// 03-connection
	case *connectiontypes.MsgConnectionOpenInit:
		_, err = k.ConnectionOpenInit(ctx, msg)
	case *connectiontypes.MsgConnectionOpenTry:
		_, err = k.ConnectionOpenTry(ctx, msg)
	case *connectiontypes.MsgConnectionOpenAck:
		err = k.ConnectionOpenAck(ctx, msg)
	case *connectiontypes.MsgConnectionOpenConfirm:
		err = k.ConnectionOpenConfirm(ctx, msg)

	// 04-channel
	case *channeltypes.MsgChannelOpenInit:
		_, err = k.ChannelOpenInit(ctx, msg)
	case *channeltypes.MsgChannelOpenTry:
		_, err = k.ChannelOpenTry(ctx, msg)
	case *channeltypes.MsgChannelOpenAck:
		err = k.ChannelOpenAck(ctx, msg)
	case *channeltypes.MsgChannelOpenConfirm:
		err = k.ChannelOpenConfirm(ctx, msg)
	case *channeltypes.MsgChannelCloseInit:
		err = k.ChannelCloseInit(ctx, msg)
	case *channeltypes.MsgChannelCloseConfirm:
		err = k.ChannelCloseConfirm(ctx, msg)

	// packets
	case *channeltypes.MsgRecvPacket:
		err = k.RecvPacket(ctx, msg)
	case *channeltypes.MsgAcknowledgement:
		err = k.Acknowledgement(ctx, msg)
	case *channeltypes.MsgTimeout:
		err = k.Timeout(ctx, msg)
	case *channeltypes.MsgTimeoutOnClose:
		err = k.TimeoutOnClose(ctx, msg)

	default:
		handled, appErr := k.Router.HandleMsg(ctx, msg)
		if !handled {
			return sdkerrors.Wrapf(ibcerrors.ErrUnknownRequest, "unrecognized IBC message type: %T", msg)
		}
		err = appErr
	}

	return err
}
