package keeper

import (
	metrics "github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	coremetrics "github.com/ComposableFi/ibc-core/modules/core/metrics"
	coretypes "github.com/ComposableFi/ibc-core/modules/core/types"
)

// CreateClient defines a rpc handler method for MsgCreateClient.
func (k *Keeper) CreateClient(ctx sdk.Context, msg *clienttypes.MsgCreateClient) (string, error) {
	return k.ClientKeeper.CreateClient(ctx, msg.ClientState, msg.ConsensusState)
}

// UpdateClient defines a rpc handler method for MsgUpdateClient.
func (k *Keeper) UpdateClient(ctx sdk.Context, msg *clienttypes.MsgUpdateClient) error {
	return k.ClientKeeper.UpdateClient(ctx, msg.ClientId, msg.ClientMessage)
}

// UpgradeClient defines a rpc handler method for MsgUpgradeClient.
func (k *Keeper) UpgradeClient(ctx sdk.Context, msg *clienttypes.MsgUpgradeClient) error {
	return k.ClientKeeper.UpgradeClient(ctx, msg.ClientId, msg.ClientState, msg.ConsensusState,
		msg.ProofUpgradeClient, msg.ProofUpgradeConsensusState)
}

// SubmitMisbehaviour defines a rpc handler method for MsgSubmitMisbehaviour.
func (k *Keeper) SubmitMisbehaviour(ctx sdk.Context, msg *clienttypes.MsgSubmitMisbehaviour) error {
	return k.ClientKeeper.SubmitMisbehaviour(ctx, msg.ClientId, msg.Misbehaviour)
}

// ConnectionOpenInit defines a rpc handler method for MsgConnectionOpenInit.
func (k *Keeper) ConnectionOpenInit(ctx sdk.Context, msg *connectiontypes.MsgConnectionOpenInit) (string, error) {
	connectionID, err := k.ConnectionKeeper.ConnOpenInit(ctx, msg.ClientId, msg.Counterparty, msg.Version, msg.DelayPeriod)
	if err != nil {
		return "", sdkerrors.Wrap(err, "connection handshake open init failed")
	}

	return connectionID, nil
}

// ConnectionOpenTry defines a rpc handler method for MsgConnectionOpenTry.
func (k *Keeper) ConnectionOpenTry(ctx sdk.Context, msg *connectiontypes.MsgConnectionOpenTry) (string, error) {
	connectionID, err := k.ConnectionKeeper.ConnOpenTry(
		ctx, msg.Counterparty, msg.DelayPeriod, msg.ClientId, msg.ClientState,
		msg.CounterpartyVersions, msg.ProofInit, msg.ProofClient, msg.ProofConsensus,
		msg.ProofHeight, msg.ConsensusHeight,
	)
	if err != nil {
		return "", sdkerrors.Wrap(err, "connection handshake open try failed")
	}

	return connectionID, nil
}

// ConnectionOpenAck defines a rpc handler method for MsgConnectionOpenAck.
func (k *Keeper) ConnectionOpenAck(ctx sdk.Context, msg *connectiontypes.MsgConnectionOpenAck) error {
	if err := k.ConnectionKeeper.ConnOpenAck(
		ctx, msg.ConnectionId, msg.ClientState, msg.Version, msg.CounterpartyConnectionId,
		msg.ProofTry, msg.ProofClient, msg.ProofConsensus,
		msg.ProofHeight, msg.ConsensusHeight,
	); err != nil {
		return sdkerrors.Wrap(err, "connection handshake open ack failed")
	}

	return nil
}

// ConnectionOpenConfirm defines a rpc handler method for MsgConnectionOpenConfirm.
func (k *Keeper) ConnectionOpenConfirm(ctx sdk.Context, msg *connectiontypes.MsgConnectionOpenConfirm) error {
	if err := k.ConnectionKeeper.ConnOpenConfirm(ctx, msg.ConnectionId, msg.ProofAck, msg.ProofHeight); err != nil {
		return sdkerrors.Wrap(err, "connection handshake open confirm failed")
	}

	return nil
}

// ChannelOpenInit defines a rpc handler method for MsgChannelOpenInit.
// ChannelOpenInit will perform 04-channel checks, route to the application
// callback, and write an OpenInit channel into state upon successful execution.
func (k *Keeper) ChannelOpenInit(ctx sdk.Context, msg *channeltypes.MsgChannelOpenInit) (string, error) {
	cbs, err := k.Router.Route(msg.PortId)
	if err != nil {
		ctx.Logger().Error("channel open init failed", "port-id", msg.PortId, "error", err)
		return "", err
	}

	// Perform 04-channel verification
	channelID, err := k.ChannelKeeper.ChanOpenInit(
		ctx, msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId, msg.Channel.Counterparty, msg.Channel.Version,
	)
	if err != nil {
		ctx.Logger().Error("channel open init failed", "error", sdkerrors.Wrap(err, "channel handshake open init failed"))
		return "", sdkerrors.Wrap(err, "channel handshake open init failed")
	}

	// Perform application logic callback
	version, err := cbs.OnChanOpenInit(ctx, msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId, channelID, msg.Channel.Counterparty, msg.Channel.Version)
	if err != nil {
		ctx.Logger().Error("channel open init callback failed", "port-id", msg.PortId, "channel-id", channelID, "error", err)
		return "", sdkerrors.Wrapf(err, "channel open init callback failed for port ID: %s, channel ID: %s", msg.PortId, channelID)
	}

	// Write channel into state
	k.ChannelKeeper.WriteOpenInitChannel(ctx, msg.PortId, channelID, msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.Channel.Counterparty, version)

	ctx.Logger().Info("channel open init succeeded", "channel-id", channelID, "version", version)

	return channelID, nil
}

// ChannelOpenTry defines a rpc handler method for MsgChannelOpenTry.
// ChannelOpenTry will perform 04-channel checks, route to the application
// callback, and write an OpenTry channel into state upon successful execution.
func (k *Keeper) ChannelOpenTry(ctx sdk.Context, msg *channeltypes.MsgChannelOpenTry) (string, error) {
	cbs, err := k.Router.Route(msg.PortId)
	if err != nil {
		ctx.Logger().Error("channel open try failed", "port-id", msg.PortId, "error", err)
		return "", err
	}

	// Perform 04-channel verification
	channelID, err := k.ChannelKeeper.ChanOpenTry(ctx, msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId,
		msg.Channel.Counterparty, msg.CounterpartyVersion, msg.ProofInit, msg.ProofHeight,
	)
	if err != nil {
		ctx.Logger().Error("channel open try failed", "error", sdkerrors.Wrap(err, "channel handshake open try failed"))
		return "", sdkerrors.Wrap(err, "channel handshake open try failed")
	}

	// Perform application logic callback
	version, err := cbs.OnChanOpenTry(ctx, msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId, channelID, msg.Channel.Counterparty, msg.CounterpartyVersion)
	if err != nil {
		ctx.Logger().Error("channel open try callback failed", "port-id", msg.PortId, "channel-id", channelID, "error", err)
		return "", sdkerrors.Wrapf(err, "channel open try callback failed for port ID: %s, channel ID: %s", msg.PortId, channelID)
	}

	// Write channel into state
	k.ChannelKeeper.WriteOpenTryChannel(ctx, msg.PortId, channelID, msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.Channel.Counterparty, version)

	ctx.Logger().Info("channel open try succeeded", "channel-id", channelID, "port-id", msg.PortId, "version", version)

	return channelID, nil
}

// ChannelOpenAck defines a rpc handler method for MsgChannelOpenAck.
// ChannelOpenAck will perform 04-channel checks, route to the application
// callback, and write an OpenAck channel into state upon successful execution.
func (k *Keeper) ChannelOpenAck(ctx sdk.Context, msg *channeltypes.MsgChannelOpenAck) error {
	cbs, err := k.Router.Route(msg.PortId)
	if err != nil {
		ctx.Logger().Error("channel open ack failed", "port-id", msg.PortId, "error", err)
		return err
	}

	// Perform 04-channel verification
	if err := k.ChannelKeeper.ChanOpenAck(
		ctx, msg.PortId, msg.ChannelId, msg.CounterpartyVersion, msg.CounterpartyChannelId, msg.ProofTry, msg.ProofHeight,
	); err != nil {
		ctx.Logger().Error("channel open ack failed", "error", err)
		return sdkerrors.Wrap(err, "channel handshake open ack failed")
	}

	// Perform application logic callback
	if err := cbs.OnChanOpenAck(ctx, msg.PortId, msg.ChannelId, msg.CounterpartyChannelId, msg.CounterpartyVersion); err != nil {
		ctx.Logger().Error("channel open ack callback failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err)
		return sdkerrors.Wrapf(err, "channel open ack callback failed for port ID: %s, channel ID: %s", msg.PortId, msg.ChannelId)
	}

	// Write channel into state
	k.ChannelKeeper.WriteOpenAckChannel(ctx, msg.PortId, msg.ChannelId, msg.CounterpartyVersion, msg.CounterpartyChannelId)

	ctx.Logger().Info("channel open ack succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return nil
}

// ChannelOpenConfirm defines a rpc handler method for MsgChannelOpenConfirm.
// ChannelOpenConfirm will perform 04-channel checks, route to the application
// callback, and write an OpenConfirm channel into state upon successful execution.
func (k *Keeper) ChannelOpenConfirm(ctx sdk.Context, msg *channeltypes.MsgChannelOpenConfirm) error {
	cbs, err := k.Router.Route(msg.PortId)
	if err != nil {
		ctx.Logger().Error("channel open confirm failed", "port-id", msg.PortId, "error", err)
		return err
	}

	// Perform 04-channel verification
	if err := k.ChannelKeeper.ChanOpenConfirm(ctx, msg.PortId, msg.ChannelId, msg.ProofAck, msg.ProofHeight); err != nil {
		ctx.Logger().Error("channel open confirm failed", "error", err)
		return sdkerrors.Wrap(err, "channel handshake open confirm failed")
	}

	// Perform application logic callback
	if err := cbs.OnChanOpenConfirm(ctx, msg.PortId, msg.ChannelId); err != nil {
		ctx.Logger().Error("channel open confirm callback failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err)
		return sdkerrors.Wrapf(err, "channel open confirm callback failed for port ID: %s, channel ID: %s", msg.PortId, msg.ChannelId)
	}

	// Write channel into state
	k.ChannelKeeper.WriteOpenConfirmChannel(ctx, msg.PortId, msg.ChannelId)

	ctx.Logger().Info("channel open confirm succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return nil
}

// ChannelCloseInit defines a rpc handler method for MsgChannelCloseInit.
// The channel is closed even if the application callback fails.
func (k *Keeper) ChannelCloseInit(ctx sdk.Context, msg *channeltypes.MsgChannelCloseInit) error {
	cbs, err := k.Router.Route(msg.PortId)
	if err != nil {
		ctx.Logger().Error("channel close init failed", "port-id", msg.PortId, "error", err)
		return err
	}

	if err := k.ChannelKeeper.ChanCloseInit(ctx, msg.PortId, msg.ChannelId); err != nil {
		ctx.Logger().Error("channel close init failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err)
		return sdkerrors.Wrap(err, "channel handshake close init failed")
	}

	k.runCloseCallback(ctx, "channel close init callback failed", msg.PortId, msg.ChannelId, func(cacheCtx sdk.Context) error {
		return cbs.OnChanCloseInit(cacheCtx, msg.PortId, msg.ChannelId)
	})

	ctx.Logger().Info("channel close init succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return nil
}

// ChannelCloseConfirm defines a rpc handler method for MsgChannelCloseConfirm.
// The channel is closed even if the application callback fails.
func (k *Keeper) ChannelCloseConfirm(ctx sdk.Context, msg *channeltypes.MsgChannelCloseConfirm) error {
	cbs, err := k.Router.Route(msg.PortId)
	if err != nil {
		ctx.Logger().Error("channel close confirm failed", "port-id", msg.PortId, "error", err)
		return err
	}

	if err := k.ChannelKeeper.ChanCloseConfirm(ctx, msg.PortId, msg.ChannelId, msg.ProofInit, msg.ProofHeight); err != nil {
		ctx.Logger().Error("channel close confirm failed", "port-id", msg.PortId, "channel-id", msg.ChannelId, "error", err)
		return sdkerrors.Wrap(err, "channel handshake close confirm failed")
	}

	k.runCloseCallback(ctx, "channel close confirm callback failed", msg.PortId, msg.ChannelId, func(cacheCtx sdk.Context) error {
		return cbs.OnChanCloseConfirm(cacheCtx, msg.PortId, msg.ChannelId)
	})

	ctx.Logger().Info("channel close confirm succeeded", "channel-id", msg.ChannelId, "port-id", msg.PortId)

	return nil
}

// RecvPacket defines a rpc handler method for MsgRecvPacket.
func (k *Keeper) RecvPacket(ctx sdk.Context, msg *channeltypes.MsgRecvPacket) error {
	relayer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		ctx.Logger().Error("receive packet failed", "error", sdkerrors.Wrap(err, "invalid address for msg signer"))
		return sdkerrors.Wrap(ibcerrors.ErrInvalidAddress, err.Error())
	}

	cbs, err := k.Router.Route(msg.Packet.DestinationPort)
	if err != nil {
		ctx.Logger().Error("receive packet failed", "port-id", msg.Packet.DestinationPort, "error", err)
		return err
	}

	// Perform TAO verification
	if err := k.ChannelKeeper.RecvPacket(ctx, msg.Packet, msg.ProofCommitment, msg.ProofHeight); err != nil {
		if channeltypes.IsRedundantRelay(err) {
			ctx.Logger().Debug("no-op on redundant relay", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "sequence", msg.Packet.Sequence)
			return err
		}
		ctx.Logger().Error("receive packet failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", err)
		return sdkerrors.Wrap(err, "receive packet verification failed")
	}

	// Perform application logic callback
	//
	// Cache context so that we may discard state changes from callback if the acknowledgement is unsuccessful.
	cacheCtx, writeFn := ctx.CacheContext()
	cacheCtx = cacheCtx.WithEventManager(sdk.NewEventManager())
	ack := cbs.OnRecvPacket(cacheCtx, msg.Packet, relayer)
	if ack == nil || ack.Success() {
		// write application state changes for asynchronous and successful acknowledgements
		writeFn()
		ctx.EventManager().EmitEvents(cacheCtx.EventManager().Events())
	} else {
		// Modify events in cached context to reflect unsuccessful acknowledgement
		ctx.EventManager().EmitEvents(coretypes.ConvertToErrorEvents(cacheCtx.EventManager().Events()))
	}

	// Set packet acknowledgement only if the acknowledgement is not nil.
	// NOTE: IBC applications modules may call the WriteAcknowledgement asynchronously if the
	// acknowledgement is nil.
	if ack != nil {
		if err := k.ChannelKeeper.WriteAcknowledgement(ctx, msg.Packet, ack); err != nil {
			return err
		}
	}

	defer func() {
		telemetry.IncrCounterWithLabels(
			[]string{"tx", "msg", "ibc", channeltypes.EventTypeRecvPacket},
			1,
			packetLabels(msg.Packet, ack == nil || ack.Success()),
		)
	}()

	ctx.Logger().Info("receive packet callback succeeded", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "sequence", msg.Packet.Sequence)

	return nil
}

// Acknowledgement defines a rpc handler method for MsgAcknowledgement.
func (k *Keeper) Acknowledgement(ctx sdk.Context, msg *channeltypes.MsgAcknowledgement) error {
	relayer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		ctx.Logger().Error("acknowledgement failed", "error", sdkerrors.Wrap(err, "invalid address for msg signer"))
		return sdkerrors.Wrap(ibcerrors.ErrInvalidAddress, err.Error())
	}

	cbs, err := k.Router.Route(msg.Packet.SourcePort)
	if err != nil {
		ctx.Logger().Error("acknowledgement failed", "port-id", msg.Packet.SourcePort, "error", err)
		return err
	}

	// Perform TAO verification
	if err := k.ChannelKeeper.AcknowledgePacket(ctx, msg.Packet, msg.Acknowledgement, msg.ProofAcked, msg.ProofHeight); err != nil {
		if channeltypes.IsRedundantRelay(err) {
			ctx.Logger().Debug("no-op on redundant relay", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "sequence", msg.Packet.Sequence)
			return err
		}
		ctx.Logger().Error("acknowledgement failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", err)
		return sdkerrors.Wrap(err, "acknowledge packet verification failed")
	}

	// Perform application logic callback
	if err := cbs.OnAcknowledgementPacket(ctx, msg.Packet, msg.Acknowledgement, relayer); err != nil {
		ctx.Logger().Error("acknowledgement failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", err)
		return sdkerrors.Wrap(err, "acknowledge packet callback failed")
	}

	defer func() {
		telemetry.IncrCounterWithLabels(
			[]string{"tx", "msg", "ibc", channeltypes.EventTypeAcknowledgePacket},
			1,
			packetLabels(msg.Packet, true),
		)
	}()

	ctx.Logger().Info("acknowledgement succeeded", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "sequence", msg.Packet.Sequence)

	return nil
}

// Timeout defines a rpc handler method for MsgTimeout.
func (k *Keeper) Timeout(ctx sdk.Context, msg *channeltypes.MsgTimeout) error {
	relayer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		ctx.Logger().Error("timeout failed", "error", sdkerrors.Wrap(err, "invalid address for msg signer"))
		return sdkerrors.Wrap(ibcerrors.ErrInvalidAddress, err.Error())
	}

	cbs, err := k.Router.Route(msg.Packet.SourcePort)
	if err != nil {
		ctx.Logger().Error("timeout failed", "port-id", msg.Packet.SourcePort, "error", err)
		return err
	}

	// Perform TAO verification
	if err := k.ChannelKeeper.TimeoutPacket(ctx, msg.Packet, msg.ProofUnreceived, msg.ProofHeight, msg.NextSequenceRecv); err != nil {
		if channeltypes.IsRedundantRelay(err) {
			ctx.Logger().Debug("no-op on redundant relay", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "sequence", msg.Packet.Sequence)
			return err
		}
		ctx.Logger().Error("timeout failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", err)
		return sdkerrors.Wrap(err, "timeout packet verification failed")
	}

	return k.executeTimeout(ctx, cbs.OnTimeoutPacket, msg.Packet, relayer, "timeout")
}

// TimeoutOnClose defines a rpc handler method for MsgTimeoutOnClose.
func (k *Keeper) TimeoutOnClose(ctx sdk.Context, msg *channeltypes.MsgTimeoutOnClose) error {
	relayer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		ctx.Logger().Error("timeout on close failed", "error", sdkerrors.Wrap(err, "invalid address for msg signer"))
		return sdkerrors.Wrap(ibcerrors.ErrInvalidAddress, err.Error())
	}

	cbs, err := k.Router.Route(msg.Packet.SourcePort)
	if err != nil {
		ctx.Logger().Error("timeout on close failed", "port-id", msg.Packet.SourcePort, "error", err)
		return err
	}

	// Perform TAO verification
	if err := k.ChannelKeeper.TimeoutOnClose(ctx, msg.Packet, msg.ProofUnreceived, msg.ProofClose, msg.ProofHeight, msg.NextSequenceRecv); err != nil {
		if channeltypes.IsRedundantRelay(err) {
			ctx.Logger().Debug("no-op on redundant relay", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "sequence", msg.Packet.Sequence)
			return err
		}
		ctx.Logger().Error("timeout on close failed", "port-id", msg.Packet.SourcePort, "channel-id", msg.Packet.SourceChannel, "error", err)
		return sdkerrors.Wrap(err, "timeout on close packet verification failed")
	}

	return k.executeTimeout(ctx, cbs.OnTimeoutPacket, msg.Packet, relayer, "timeout_on_close")
}

// executeTimeout runs the application timeout callback before deleting the
// packet commitment. Ordered channels are closed by TimeoutExecuted.
func (k *Keeper) executeTimeout(
	ctx sdk.Context,
	onTimeout func(sdk.Context, channeltypes.Packet, sdk.AccAddress) error,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
	timeoutType string,
) error {
	// Perform application logic callback
	if err := onTimeout(ctx, packet, relayer); err != nil {
		ctx.Logger().Error("timeout failed", "port-id", packet.SourcePort, "channel-id", packet.SourceChannel, "error", err)
		return sdkerrors.Wrap(err, "timeout packet callback failed")
	}

	// Delete packet commitment
	if err := k.ChannelKeeper.TimeoutExecuted(ctx, packet); err != nil {
		return err
	}

	defer func() {
		telemetry.IncrCounterWithLabels(
			[]string{"tx", "msg", "ibc", channeltypes.EventTypeTimeoutPacket},
			1,
			append(packetLabels(packet, true), telemetry.NewLabel(coremetrics.LabelTimeoutType, timeoutType)),
		)
	}()

	ctx.Logger().Info("timeout packet callback succeeded", "port-id", packet.SourcePort, "channel-id", packet.SourceChannel, "sequence", packet.Sequence)

	return nil
}

// runCloseCallback executes an application close callback in a cache context.
// Its state changes are written only on success and failures are logged.
func (k *Keeper) runCloseCallback(ctx sdk.Context, failure, portID, channelID string, cb func(sdk.Context) error) {
	cacheCtx, writeFn := ctx.CacheContext()
	cacheCtx = cacheCtx.WithEventManager(sdk.NewEventManager())
	if err := cb(cacheCtx); err != nil {
		ctx.Logger().Error(failure, "port-id", portID, "channel-id", channelID, "error", err)
		return
	}

	writeFn()
	ctx.EventManager().EmitEvents(cacheCtx.EventManager().Events())
}

func packetLabels(packet channeltypes.Packet, success bool) []metrics.Label {
	labels := []metrics.Label{
		telemetry.NewLabel(coremetrics.LabelSourcePort, packet.SourcePort),
		telemetry.NewLabel(coremetrics.LabelSourceChannel, packet.SourceChannel),
		telemetry.NewLabel(coremetrics.LabelDestinationPort, packet.DestinationPort),
		telemetry.NewLabel(coremetrics.LabelDestinationChannel, packet.DestinationChannel),
	}
	if !success {
		labels = append(labels, telemetry.NewLabel(coremetrics.LabelResult, "error_ack"))
	}
	return labels
}
