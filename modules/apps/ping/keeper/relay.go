package keeper

import (
	"strconv"

	metrics "github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/ibc-core/modules/apps/ping/types"
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	coremetrics "github.com/ComposableFi/ibc-core/modules/core/metrics"
)

// SendPing sends a ping packet carrying message over the given channel.
func (k Keeper) SendPing(
	ctx sdk.Context,
	sourcePort,
	sourceChannel,
	message string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
) (uint64, error) {
	data := types.NewPingPacketData(message)
	if err := data.ValidateBasic(); err != nil {
		return 0, err
	}

	sequence, err := k.ics4Wrapper.SendPacket(ctx, sourcePort, sourceChannel, timeoutHeight, timeoutTimestamp, data.GetBytes())
	if err != nil {
		return 0, err
	}

	k.updateCounters(ctx, sourcePort, sourceChannel, func(c *types.Counters) { c.Sent++ })

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePing,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
			sdk.NewAttribute(types.AttributeKeyMessage, message),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(sequence, 10)),
		),
	)

	telemetry.IncrCounterWithLabels(
		[]string{"ibc", types.ModuleName, "send"},
		1,
		[]metrics.Label{
			telemetry.NewLabel(coremetrics.LabelSourcePort, sourcePort),
			telemetry.NewLabel(coremetrics.LabelSourceChannel, sourceChannel),
		},
	)

	return sequence, nil
}

// OnRecvPacket records the received ping under its destination channel end.
func (k Keeper) OnRecvPacket(ctx sdk.Context, packet channeltypes.Packet, data types.PingPacketData) error {
	if err := data.ValidateBasic(); err != nil {
		return err
	}

	k.setReceivedPing(ctx, packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence(), data.Message)
	k.updateCounters(ctx, packet.GetDestPort(), packet.GetDestChannel(), func(c *types.Counters) { c.Received++ })

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePong,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
			sdk.NewAttribute(types.AttributeKeyMessage, data.Message),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(packet.GetSequence(), 10)),
		),
	)

	return nil
}

// OnAcknowledgementPacket counts acknowledged pings. Only a pong result counts
// as a successful round trip.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, ack channeltypes.Acknowledgement) error {
	success := ack.Success() && string(ack.Result) == types.PongResult
	if success {
		k.updateCounters(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), func(c *types.Counters) { c.Acked++ })
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePingAck,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(packet.GetSequence(), 10)),
			sdk.NewAttribute(types.AttributeKeyAckSuccess, strconv.FormatBool(success)),
		),
	)

	return nil
}

// OnTimeoutPacket counts timed out pings.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet) error {
	k.updateCounters(ctx, packet.GetSourcePort(), packet.GetSourceChannel(), func(c *types.Counters) { c.TimedOut++ })

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTimeout,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(packet.GetSequence(), 10)),
		),
	)

	return nil
}
