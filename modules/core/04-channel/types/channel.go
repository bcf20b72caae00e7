package types

import (
	"fmt"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// State defines if a channel is in one of the following states:
// CLOSED, INIT, TRYOPEN, OPEN or UNINITIALIZED.
type State int32

const (
	// UNINITIALIZED defines a channel that has not been initialized or does not
	// exist.
	UNINITIALIZED State = 0
	// INIT defines a channel that has just started the opening handshake.
	INIT State = 1
	// TRYOPEN defines a channel that has acknowledged the handshake step on the
	// counterparty chain.
	TRYOPEN State = 2
	// OPEN defines a channel that has completed the handshake. Open channels
	// are ready to send and receive packets.
	OPEN State = 3
	// CLOSED defines a channel that has been closed. The channel cannot be
	// used to send or receive packets.
	CLOSED State = 4
)

var stateNames = map[State]string{
	UNINITIALIZED: "STATE_UNINITIALIZED_UNSPECIFIED",
	INIT:          "STATE_INIT",
	TRYOPEN:       "STATE_TRYOPEN",
	OPEN:          "STATE_OPEN",
	CLOSED:        "STATE_CLOSED",
}

// String implements the Stringer interface
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("%d", int32(s))
}

// Order defines if a channel is ORDERED or UNORDERED
type Order int32

const (
	// NONE is the zero-value of Order and is not a valid ordering.
	NONE Order = 0
	// UNORDERED packets can be delivered in any order, which may differ from
	// the order in which they were sent.
	UNORDERED Order = 1
	// ORDERED packets are delivered exactly in the order which they were sent
	ORDERED Order = 2
)

var orderNames = map[Order]string{
	NONE:      "ORDER_NONE_UNSPECIFIED",
	UNORDERED: "ORDER_UNORDERED",
	ORDERED:   "ORDER_ORDERED",
}

var orderValues = map[string]Order{
	"ORDER_UNORDERED": UNORDERED,
	"ORDER_ORDERED":   ORDERED,
}

// String implements the Stringer interface. The ordered and unordered names
// are the connection version features negotiated during the connection
// handshake.
func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("%d", int32(o))
}

// ParseOrder parses an ordering from either its feature name ("ORDER_ORDERED")
// or its short form ("ordered", "unordered").
func ParseOrder(s string) (Order, error) {
	switch s {
	case "ordered", "ORDERED":
		return ORDERED, nil
	case "unordered", "UNORDERED":
		return UNORDERED, nil
	}
	if order, ok := orderValues[s]; ok {
		return order, nil
	}
	return NONE, sdkerrors.Wrapf(ErrInvalidChannelOrdering, "unknown channel ordering %q", s)
}

var (
	_ exported.ChannelI             = (*Channel)(nil)
	_ exported.CounterpartyChannelI = (*Counterparty)(nil)
)

// Channel defines pipeline for exactly-once packet delivery between specific
// modules on separate blockchains, which has at least one end capable of
// sending packets and one end capable of receiving packets.
type Channel struct {
	// current state of the channel end
	State State `json:"state" yaml:"state"`
	// whether the channel is ordered or unordered
	Ordering Order `json:"ordering" yaml:"ordering"`
	// counterparty channel end
	Counterparty Counterparty `json:"counterparty" yaml:"counterparty"`
	// list of connection identifiers, in order, along which packets sent on
	// this channel will travel
	ConnectionHops []string `json:"connection_hops" yaml:"connection_hops"`
	// opaque channel version, which is agreed upon during the handshake
	Version string `json:"version" yaml:"version"`
}

// NewChannel creates a new Channel instance
func NewChannel(
	state State, ordering Order, counterparty Counterparty,
	hops []string, version string,
) Channel {
	return Channel{
		State:          state,
		Ordering:       ordering,
		Counterparty:   counterparty,
		ConnectionHops: hops,
		Version:        version,
	}
}

// GetState implements Channel interface.
func (ch Channel) GetState() int32 {
	return int32(ch.State)
}

// GetOrdering implements Channel interface.
func (ch Channel) GetOrdering() int32 {
	return int32(ch.Ordering)
}

// GetCounterparty implements Channel interface.
func (ch Channel) GetCounterparty() exported.CounterpartyChannelI {
	return ch.Counterparty
}

// GetConnectionHops implements Channel interface.
func (ch Channel) GetConnectionHops() []string {
	return ch.ConnectionHops
}

// GetVersion implements Channel interface.
func (ch Channel) GetVersion() string {
	return ch.Version
}

// ValidateBasic performs a basic validation of the channel fields
func (ch Channel) ValidateBasic() error {
	if ch.State == UNINITIALIZED {
		return ErrInvalidChannelState
	}
	if ch.Ordering != ORDERED && ch.Ordering != UNORDERED {
		return sdkerrors.Wrap(ErrInvalidChannelOrdering, ch.Ordering.String())
	}
	if len(ch.ConnectionHops) != 1 {
		return sdkerrors.Wrap(
			ErrTooManyConnectionHops,
			"current IBC version only supports one connection hop",
		)
	}
	if err := host.ConnectionIdentifierValidator(ch.ConnectionHops[0]); err != nil {
		return sdkerrors.Wrap(err, "invalid connection hop ID")
	}
	return ch.Counterparty.ValidateBasic()
}

// Counterparty defines a channel end counterparty
type Counterparty struct {
	// port on the counterparty chain which owns the other end of the channel.
	PortId string `json:"port_id" yaml:"port_id"`
	// channel end on the counterparty chain
	ChannelId string `json:"channel_id" yaml:"channel_id"`
}

// NewCounterparty returns a new Counterparty instance
func NewCounterparty(portID, channelID string) Counterparty {
	return Counterparty{
		PortId:    portID,
		ChannelId: channelID,
	}
}

// GetPortID implements CounterpartyChannelI interface
func (c Counterparty) GetPortID() string {
	return c.PortId
}

// GetChannelID implements CounterpartyChannelI interface
func (c Counterparty) GetChannelID() string {
	return c.ChannelId
}

// ValidateBasic performs a basic validation check of the identifiers
func (c Counterparty) ValidateBasic() error {
	if err := host.PortIdentifierValidator(c.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty port ID")
	}
	if c.ChannelId != "" {
		if err := host.ChannelIdentifierValidator(c.ChannelId); err != nil {
			return sdkerrors.Wrap(err, "invalid counterparty channel ID")
		}
	}
	return nil
}

// IdentifiedChannel defines a channel with additional port and channel
// identifier fields.
type IdentifiedChannel struct {
	Channel
	// port identifier
	PortId string `json:"port_id" yaml:"port_id"`
	// channel identifier
	ChannelId string `json:"channel_id" yaml:"channel_id"`
}

// NewIdentifiedChannel creates a new IdentifiedChannel instance
func NewIdentifiedChannel(portID, channelID string, ch Channel) IdentifiedChannel {
	return IdentifiedChannel{
		Channel:   ch,
		PortId:    portID,
		ChannelId: channelID,
	}
}

// ValidateBasic performs a basic validation of the identifiers and channel fields.
func (ic IdentifiedChannel) ValidateBasic() error {
	if err := host.ChannelIdentifierValidator(ic.ChannelId); err != nil {
		return sdkerrors.Wrap(err, "invalid channel ID")
	}
	if err := host.PortIdentifierValidator(ic.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid port ID")
	}
	return ic.Channel.ValidateBasic()
}

// PacketState defines the generic type necessary to retrieve and store
// packet commitments, acknowledgements, and receipts.
type PacketState struct {
	PortId    string `json:"port_id" yaml:"port_id"`
	ChannelId string `json:"channel_id" yaml:"channel_id"`
	Sequence  uint64 `json:"sequence" yaml:"sequence"`
	Data      []byte `json:"data" yaml:"data"`
}

// NewPacketState creates a new PacketState instance.
func NewPacketState(portID, channelID string, seq uint64, data []byte) PacketState {
	return PacketState{
		PortId:    portID,
		ChannelId: channelID,
		Sequence:  seq,
		Data:      data,
	}
}

// PacketSequence defines the sequence of a port and channel, used for the
// send, receive and acknowledgement counters.
type PacketSequence struct {
	PortId    string `json:"port_id" yaml:"port_id"`
	ChannelId string `json:"channel_id" yaml:"channel_id"`
	Sequence  uint64 `json:"sequence" yaml:"sequence"`
}

// NewPacketSequence creates a new PacketSequence instance.
func NewPacketSequence(portID, channelID string, seq uint64) PacketSequence {
	return PacketSequence{
		PortId:    portID,
		ChannelId: channelID,
		Sequence:  seq,
	}
}
