package types

import (
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PingPacketData is the payload of a ping packet.
type PingPacketData struct {
	Message string `json:"message" yaml:"message"`
}

// NewPingPacketData creates a new PingPacketData instance.
func NewPingPacketData(message string) PingPacketData {
	return PingPacketData{Message: message}
}

// ValidateBasic rejects pings with an empty message.
func (p PingPacketData) ValidateBasic() error {
	if strings.TrimSpace(p.Message) == "" {
		return sdkerrors.Wrap(ErrInvalidPacketData, "ping message cannot be blank")
	}
	return nil
}

// GetBytes returns the sorted JSON encoding of the ping.
func (p PingPacketData) GetBytes() []byte {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	return sdk.MustSortJSON(bz)
}

// UnmarshalPacketData decodes a ping packet payload.
func UnmarshalPacketData(bz []byte) (PingPacketData, error) {
	var data PingPacketData
	if err := json.Unmarshal(bz, &data); err != nil {
		return PingPacketData{}, sdkerrors.Wrapf(ErrInvalidPacketData, "cannot unmarshal ping packet data: %s", err)
	}
	return data, nil
}

// Counters tracks the ping traffic of a channel end.
type Counters struct {
	Sent     uint64 `json:"sent" yaml:"sent"`
	Received uint64 `json:"received" yaml:"received"`
	Acked    uint64 `json:"acked" yaml:"acked"`
	TimedOut uint64 `json:"timed_out" yaml:"timed_out"`
}
