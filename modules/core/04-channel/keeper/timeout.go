package keeper

import (
	"bytes"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	"github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// TimeoutPacket is called by a module which originally attempted to send a
// packet to a counterparty module, where the timeout height has passed on the
// counterparty chain without the packet being committed, to prove that the
// packet can no longer be executed and to allow the calling module to safely
// perform appropriate state transitions.
func (k Keeper) TimeoutPacket(
	ctx sdk.Context,
	packet exported.PacketI,
	proof []byte,
	proofHeight exported.Height,
	nextSequenceRecv uint64,
) error {
	channel, connectionEnd, err := k.timeoutChannel(ctx, packet)
	if err != nil {
		return err
	}

	// check that timeout height or timeout timestamp has passed on the other end
	proofTimestamp, err := k.connectionKeeper.GetTimestampAtHeight(ctx, connectionEnd, proofHeight)
	if err != nil {
		return err
	}

	timeoutHeight := packet.GetTimeoutHeight()
	timeout := types.NewTimeout(
		clienttypes.NewHeight(timeoutHeight.GetRevisionNumber(), timeoutHeight.GetRevisionHeight()),
		packet.GetTimeoutTimestamp(),
	)
	if !timeout.Elapsed(proofHeight, proofTimestamp) {
		return sdkerrors.Wrapf(
			types.ErrTimeoutNotReached,
			"proof height (%s) and timestamp (%d) are before packet timeout (%s, %d)",
			proofHeight, proofTimestamp, timeoutHeight, packet.GetTimeoutTimestamp(),
		)
	}

	return k.verifyUnreceived(ctx, channel, connectionEnd, packet, proof, proofHeight, nextSequenceRecv)
}

// TimeoutExecuted deletes the commitment send from this chain after it verifies timeout.
// If the timed-out packet came from an ORDERED channel then this channel will be closed.
//
// CONTRACT: this function must be called in the IBC handler
func (k Keeper) TimeoutExecuted(
	ctx sdk.Context,
	packet exported.PacketI,
) error {
	channel, found := k.GetChannel(ctx, packet.GetSourcePort(), packet.GetSourceChannel())
	if !found {
		return sdkerrors.Wrapf(types.ErrChannelNotFound, "port ID (%s) channel ID (%s)", packet.GetSourcePort(), packet.GetSourceChannel())
	}

	k.deletePacketCommitment(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())

	if channel.Ordering == types.ORDERED && channel.State != types.CLOSED {
		k.Logger(ctx).Info("channel state updated", "port-id", packet.GetSourcePort(), "channel-id", packet.GetSourceChannel(), "previous-state", channel.State.String(), "new-state", "CLOSED")

		channel.State = types.CLOSED
		k.SetChannel(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), channel)
		EmitChannelClosedEvent(ctx, packet, channel)
	}

	k.Logger(ctx).Info(
		"packet timed-out",
		"sequence", packet.GetSequence(),
		"src_port", packet.GetSourcePort(),
		"src_channel", packet.GetSourceChannel(),
		"dst_port", packet.GetDestPort(),
		"dst_channel", packet.GetDestChannel(),
	)

	defer func() {
		telemetry.IncrCounter(1, "ibc", "packet", "timeout")
	}()

	// emit an event marking that we have processed the timeout
	EmitTimeoutPacketEvent(ctx, packet, channel)

	return nil
}

// TimeoutOnClose is called by a module in order to prove that the channel to
// which an unreceived packet was addressed has been closed, so the packet will
// never be received (even if the timeoutHeight has not yet been reached).
func (k Keeper) TimeoutOnClose(
	ctx sdk.Context,
	packet exported.PacketI,
	proof,
	closedProof []byte,
	proofHeight exported.Height,
	nextSequenceRecv uint64,
) error {
	channel, connectionEnd, err := k.timeoutChannel(ctx, packet)
	if err != nil {
		return err
	}

	counterpartyHops := []string{connectionEnd.GetCounterparty().GetConnectionID()}

	counterparty := types.NewCounterparty(packet.GetSourcePort(), packet.GetSourceChannel())
	expectedChannel := types.NewChannel(
		types.CLOSED, channel.Ordering, counterparty, counterpartyHops, channel.Version,
	)

	// check that the opposing channel end has closed
	if err := k.connectionKeeper.VerifyChannelState(
		ctx, connectionEnd, proofHeight, closedProof,
		channel.Counterparty.PortId, channel.Counterparty.ChannelId,
		expectedChannel,
	); err != nil {
		return err
	}

	return k.verifyUnreceived(ctx, channel, connectionEnd, packet, proof, proofHeight, nextSequenceRecv)
}

// timeoutChannel loads the sending channel and connection of a packet and checks the
// packet is addressed to the channel's counterparty and still committed.
func (k Keeper) timeoutChannel(ctx sdk.Context, packet exported.PacketI) (types.Channel, connectiontypes.ConnectionEnd, error) {
	channel, found := k.GetChannel(ctx, packet.GetSourcePort(), packet.GetSourceChannel())
	if !found {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, sdkerrors.Wrapf(
			types.ErrChannelNotFound,
			"port ID (%s) channel ID (%s)", packet.GetSourcePort(), packet.GetSourceChannel(),
		)
	}

	if packet.GetDestPort() != channel.Counterparty.PortId {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, sdkerrors.Wrapf(
			types.ErrInvalidPacket,
			"packet destination port doesn't match the counterparty's port (%s ≠ %s)", packet.GetDestPort(), channel.Counterparty.PortId,
		)
	}

	if packet.GetDestChannel() != channel.Counterparty.ChannelId {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, sdkerrors.Wrapf(
			types.ErrInvalidPacket,
			"packet destination channel doesn't match the counterparty's channel (%s ≠ %s)", packet.GetDestChannel(), channel.Counterparty.ChannelId,
		)
	}

	connectionEnd, found := k.connectionKeeper.GetConnection(ctx, channel.ConnectionHops[0])
	if !found {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, sdkerrors.Wrap(
			connectiontypes.ErrConnectionNotFound,
			channel.ConnectionHops[0],
		)
	}

	commitment := k.GetPacketCommitment(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())
	if len(commitment) == 0 {
		// This error indicates that the timeout has already been relayed
		// or there is a misconfigured relayer attempting to prove a timeout
		// for a packet never sent.
		return types.Channel{}, connectiontypes.ConnectionEnd{}, sdkerrors.Wrapf(types.ErrPacketCommitmentNotFound, "sequence %d", packet.GetSequence())
	}

	packetCommitment := types.CommitPacket(packet)

	// verify we sent the packet and haven't cleared it out yet
	if !bytes.Equal(commitment, packetCommitment) {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, sdkerrors.Wrapf(
			types.ErrInvalidPacket,
			"packet commitment bytes are not equal: got (%v), expected (%v)", commitment, packetCommitment,
		)
	}

	return channel, connectionEnd, nil
}

// verifyUnreceived proves the packet was never received on the counterparty: by
// the next receive sequence on ORDERED channels and by receipt absence on
// UNORDERED channels.
func (k Keeper) verifyUnreceived(
	ctx sdk.Context,
	channel types.Channel,
	connectionEnd connectiontypes.ConnectionEnd,
	packet exported.PacketI,
	proof []byte,
	proofHeight exported.Height,
	nextSequenceRecv uint64,
) error {
	switch channel.Ordering {
	case types.ORDERED:
		// check that packet has not been received
		if nextSequenceRecv > packet.GetSequence() {
			return sdkerrors.Wrapf(
				types.ErrPacketReceived,
				"packet already received, next sequence receive > packet sequence (%d > %d)", nextSequenceRecv, packet.GetSequence(),
			)
		}

		// check that the recv sequence is as claimed
		return k.connectionKeeper.VerifyNextSequenceRecv(
			ctx, connectionEnd, proofHeight, proof,
			packet.GetDestPort(), packet.GetDestChannel(), nextSequenceRecv,
		)
	case types.UNORDERED:
		return k.connectionKeeper.VerifyPacketReceiptAbsence(
			ctx, connectionEnd, proofHeight, proof,
			packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence(),
		)
	default:
		return sdkerrors.Wrap(types.ErrInvalidChannelOrdering, channel.Ordering.String())
	}
}
