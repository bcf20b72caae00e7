package ibctesting

import (
	"bytes"
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	abci "github.com/tendermint/tendermint/abci/types"
	hex "github.com/tmthrgd/go-hex"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
)

// ParseClientIDFromEvents parses events emitted from a MsgCreateClient and returns the
// client identifier.
func ParseClientIDFromEvents(events sdk.Events) (string, error) {
	for _, ev := range events {
		if ev.Type == clienttypes.EventTypeCreateClient {
			if attribute, found := attributeByKey(ev.Attributes, clienttypes.AttributeKeyClientID); found {
				return string(attribute.Value), nil
			}
		}
	}
	return "", errors.New("client identifier event attribute not found")
}

// ParseConnectionIDFromEvents parses events emitted from a MsgConnectionOpenInit or
// MsgConnectionOpenTry and returns the connection identifier.
func ParseConnectionIDFromEvents(events sdk.Events) (string, error) {
	for _, ev := range events {
		if ev.Type == connectiontypes.EventTypeConnectionOpenInit ||
			ev.Type == connectiontypes.EventTypeConnectionOpenTry {
			if attribute, found := attributeByKey(ev.Attributes, connectiontypes.AttributeKeyConnectionID); found {
				return string(attribute.Value), nil
			}
		}
	}
	return "", errors.New("connection identifier event attribute not found")
}

// ParseChannelIDFromEvents parses events emitted from a MsgChannelOpenInit or
// MsgChannelOpenTry and returns the channel identifier.
func ParseChannelIDFromEvents(events sdk.Events) (string, error) {
	for _, ev := range events {
		if ev.Type == channeltypes.EventTypeChannelOpenInit || ev.Type == channeltypes.EventTypeChannelOpenTry {
			if attribute, found := attributeByKey(ev.Attributes, channeltypes.AttributeKeyChannelID); found {
				return string(attribute.Value), nil
			}
		}
	}
	return "", errors.New("channel identifier event attribute not found")
}

// ParsePacketFromEvents parses events emitted from a send packet and returns
// the first EventTypeSendPacket packet found.
// Returns an error if no packet is found.
func ParsePacketFromEvents(events sdk.Events) (channeltypes.Packet, error) {
	packets, err := ParsePacketsFromEvents(channeltypes.EventTypeSendPacket, events)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	return packets[0], nil
}

// ParseRecvPacketFromEvents parses events emitted from a MsgRecvPacket and returns
// the first EventTypeRecvPacket packet found.
// Returns an error if no packet is found.
func ParseRecvPacketFromEvents(events sdk.Events) (channeltypes.Packet, error) {
	packets, err := ParsePacketsFromEvents(channeltypes.EventTypeRecvPacket, events)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	return packets[0], nil
}

// ParsePacketsFromEvents parses all events of the given type and returns
// the packets they describe.
// Returns an error if no packet is found.
func ParsePacketsFromEvents(eventType string, events sdk.Events) ([]channeltypes.Packet, error) {
	ferr := func(err error) ([]channeltypes.Packet, error) {
		return nil, errors.Wrap(err, "ibctesting.ParsePacketsFromEvents")
	}
	var packets []channeltypes.Packet
	for _, ev := range events {
		if ev.Type != eventType {
			continue
		}

		var packet channeltypes.Packet
		for _, attr := range ev.Attributes {
			value := string(attr.Value)

			switch string(attr.Key) {
			case channeltypes.AttributeKeyDataHex:
				data, err := hex.DecodeString(value)
				if err != nil {
					return ferr(err)
				}
				packet.Data = data

			case channeltypes.AttributeKeySequence:
				seq, err := strconv.ParseUint(value, 10, 64)
				if err != nil {
					return ferr(err)
				}
				packet.Sequence = seq

			case channeltypes.AttributeKeySrcPort:
				packet.SourcePort = value

			case channeltypes.AttributeKeySrcChannel:
				packet.SourceChannel = value

			case channeltypes.AttributeKeyDstPort:
				packet.DestinationPort = value

			case channeltypes.AttributeKeyDstChannel:
				packet.DestinationChannel = value

			case channeltypes.AttributeKeyTimeoutHeight:
				height, err := clienttypes.ParseHeight(value)
				if err != nil {
					return ferr(err)
				}
				packet.TimeoutHeight = height

			case channeltypes.AttributeKeyTimeoutTimestamp:
				timestamp, err := strconv.ParseUint(value, 10, 64)
				if err != nil {
					return ferr(err)
				}
				packet.TimeoutTimestamp = timestamp
			}
		}

		packets = append(packets, packet)
	}
	if len(packets) == 0 {
		return ferr(fmt.Errorf("no %s event found", eventType))
	}
	return packets, nil
}

// ParseAckFromEvents parses events emitted from a MsgRecvPacket and returns the
// acknowledgement.
func ParseAckFromEvents(events sdk.Events) ([]byte, error) {
	for _, ev := range events {
		if ev.Type == channeltypes.EventTypeWriteAck {
			if attribute, found := attributeByKey(ev.Attributes, channeltypes.AttributeKeyAckHex); found {
				return hex.DecodeString(string(attribute.Value))
			}
		}
	}
	return nil, errors.New("acknowledgement event attribute not found")
}

// ParsePacketSequenceFromEvents parses events emitted from MsgRecvPacket and returns the packet sequence
func ParsePacketSequenceFromEvents(events sdk.Events) (uint64, error) {
	for _, event := range events {
		if attribute, found := attributeByKey(event.Attributes, channeltypes.AttributeKeySequence); found {
			return strconv.ParseUint(string(attribute.Value), 10, 64)
		}
	}
	return 0, errors.New("packet sequence event attribute not found")
}

// AssertEvents asserts that expected events are present in the actual events.
func AssertEvents(
	s *suite.Suite,
	expected sdk.Events,
	actual sdk.Events,
) {
	foundEvents := make(map[int]bool)

	for i, expectedEvent := range expected {
		for _, actualEvent := range actual {
			if expectedEvent.Type != actualEvent.Type || len(expectedEvent.Attributes) != len(actualEvent.Attributes) {
				continue
			}

			attributeMatch := true
			for _, expectedAttr := range expectedEvent.Attributes {
				// any expected attributes that are not contained in the actual events will cause this event
				// not to match
				attributeMatch = attributeMatch && containsAttribute(actualEvent.Attributes, expectedAttr.Key, expectedAttr.Value)
			}

			if attributeMatch {
				foundEvents[i] = true
			}
		}
	}

	for i, expectedEvent := range expected {
		s.Require().True(foundEvents[i], "event: %s was not found in events", expectedEvent.Type)
	}
}

// containsAttribute returns true if the given key/value pair is contained in the given attributes.
// NOTE: this ignores the indexed field, which can be set or unset depending on how the events are retrieved.
func containsAttribute(attrs []abci.EventAttribute, key, value []byte) bool {
	for _, attr := range attrs {
		if bytes.Equal(attr.Key, key) && bytes.Equal(attr.Value, value) {
			return true
		}
	}
	return false
}

// attributeByKey returns the event attribute keyed by the given key and a boolean indicating its presence in the given attributes.
func attributeByKey(attributes []abci.EventAttribute, key string) (abci.EventAttribute, bool) {
	for _, attr := range attributes {
		if string(attr.Key) == key {
			return attr, true
		}
	}
	return abci.EventAttribute{}, false
}
