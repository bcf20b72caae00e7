package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var _ exported.Msg = (*MsgSendPing)(nil)

// MsgSendPing sends a ping packet over the given channel.
type MsgSendPing struct {
	SourcePort       string             `json:"source_port" yaml:"source_port"`
	SourceChannel    string             `json:"source_channel" yaml:"source_channel"`
	Message          string             `json:"message" yaml:"message"`
	Sender           string             `json:"sender" yaml:"sender"`
	TimeoutHeight    clienttypes.Height `json:"timeout_height" yaml:"timeout_height"`
	TimeoutTimestamp uint64             `json:"timeout_timestamp" yaml:"timeout_timestamp"`
}

// NewMsgSendPing creates a new MsgSendPing instance
func NewMsgSendPing(
	sourcePort, sourceChannel, message, sender string,
	timeoutHeight clienttypes.Height, timeoutTimestamp uint64,
) *MsgSendPing {
	return &MsgSendPing{
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		Message:          message,
		Sender:           sender,
		TimeoutHeight:    timeoutHeight,
		TimeoutTimestamp: timeoutTimestamp,
	}
}

// ValidateBasic performs a basic check of the MsgSendPing fields.
func (msg MsgSendPing) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.SourcePort); err != nil {
		return sdkerrors.Wrap(err, "invalid source port ID")
	}
	if err := host.ChannelIdentifierValidator(msg.SourceChannel); err != nil {
		return sdkerrors.Wrap(err, "invalid source channel ID")
	}
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	return NewPingPacketData(msg.Message).ValidateBasic()
}
