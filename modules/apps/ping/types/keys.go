package types

import (
	"fmt"
)

const (
	// ModuleName defines the IBC ping name
	ModuleName = "ping"

	// Version defines the current version the IBC ping module supports
	Version = "ping-1"

	// PortID is the default port id that the ping module binds to
	PortID = "ping"

	// StoreKey is the store key string for IBC ping
	StoreKey = ModuleName

	// PongResult is the acknowledgement result written for every received ping
	PongResult = "pong"
)

var (
	// PortKey defines the key to store the port ID in store
	PortKey = []byte{0x01}
	// ReceivedPingKeyPrefix defines the prefix under which received pings are stored
	ReceivedPingKeyPrefix = []byte{0x02}
	// CounterKeyPrefix defines the prefix of the per-channel ping counters
	CounterKeyPrefix = []byte{0x03}
)

// ReceivedPingKey returns the store key of the ping received on the given
// destination port and channel with the given sequence.
func ReceivedPingKey(portID, channelID string, sequence uint64) []byte {
	return append(ReceivedPingKeyPrefix, []byte(fmt.Sprintf("%s/%s/%d", portID, channelID, sequence))...)
}

// CounterKey returns the store key of the counters kept for a channel end.
func CounterKey(portID, channelID string) []byte {
	return append(CounterKeyPrefix, []byte(fmt.Sprintf("%s/%s", portID, channelID))...)
}
