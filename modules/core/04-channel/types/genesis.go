package types

import (
	"errors"
	"fmt"

	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
)

// GenesisState defines the ibc channel submodule's genesis state.
type GenesisState struct {
	Channels         []IdentifiedChannel `json:"channels" yaml:"channels"`
	Acknowledgements []PacketState       `json:"acknowledgements" yaml:"acknowledgements"`
	Commitments      []PacketState       `json:"commitments" yaml:"commitments"`
	Receipts         []PacketState       `json:"receipts" yaml:"receipts"`
	SendSequences    []PacketSequence    `json:"send_sequences" yaml:"send_sequences"`
	RecvSequences    []PacketSequence    `json:"recv_sequences" yaml:"recv_sequences"`
	AckSequences     []PacketSequence    `json:"ack_sequences" yaml:"ack_sequences"`
	// the sequence for the next generated channel identifier
	NextChannelSequence uint64 `json:"next_channel_sequence" yaml:"next_channel_sequence"`
}

// Validate performs a basic validation of the fields.
func (pa PacketState) Validate() error {
	if pa.Data == nil {
		return errors.New("data bytes cannot be nil")
	}
	return validateGenFields(pa.PortId, pa.ChannelId, pa.Sequence)
}

// Validate performs a basic validation of the fields.
func (ps PacketSequence) Validate() error {
	return validateGenFields(ps.PortId, ps.ChannelId, ps.Sequence)
}

// DefaultGenesisState returns the ibc channel submodule's default genesis state.
func DefaultGenesisState() GenesisState {
	return GenesisState{
		Channels:            []IdentifiedChannel{},
		Acknowledgements:    []PacketState{},
		Receipts:            []PacketState{},
		Commitments:         []PacketState{},
		SendSequences:       []PacketSequence{},
		RecvSequences:       []PacketSequence{},
		AckSequences:        []PacketSequence{},
		NextChannelSequence: 0,
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	// keep track of the max sequence to ensure it is less than
	// the next sequence used in creating channel identifiers.
	var maxSequence uint64

	for i, channel := range gs.Channels {
		sequence, err := ParseChannelSequence(channel.ChannelId)
		if err != nil {
			return err
		}

		if sequence > maxSequence {
			maxSequence = sequence
		}

		if err := channel.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid channel %v channel index %d: %w", channel, i, err)
		}
		if err := host.PortIdentifierValidator(channel.PortId); err != nil {
			return fmt.Errorf("invalid channel %v port index %d: %w", channel, i, err)
		}
	}

	for i, ack := range gs.Acknowledgements {
		if err := ack.Validate(); err != nil {
			return fmt.Errorf("invalid acknowledgement %v ack index %d: %w", ack, i, err)
		}
		if len(ack.Data) == 0 {
			return fmt.Errorf("invalid acknowledgement %v ack index %d: data bytes cannot be empty", ack, i)
		}
	}

	for i, receipt := range gs.Receipts {
		if err := receipt.Validate(); err != nil {
			return fmt.Errorf("invalid receipt %v index %d: %w", receipt, i, err)
		}
	}

	for i, commitment := range gs.Commitments {
		if err := commitment.Validate(); err != nil {
			return fmt.Errorf("invalid commitment %v index %d: %w", commitment, i, err)
		}
		if len(commitment.Data) == 0 {
			return fmt.Errorf("invalid commitment %v index %d: data bytes cannot be empty", commitment, i)
		}
	}

	for _, sequences := range [][]PacketSequence{gs.SendSequences, gs.RecvSequences, gs.AckSequences} {
		for i, ps := range sequences {
			if err := ps.Validate(); err != nil {
				return fmt.Errorf("invalid packet sequence %v index %d: %w", ps, i, err)
			}
		}
	}

	if maxSequence != 0 && maxSequence >= gs.NextChannelSequence {
		return fmt.Errorf("next channel sequence %d must be greater than maximum sequence used in channel identifier %d", gs.NextChannelSequence, maxSequence)
	}

	return nil
}

func validateGenFields(portID, channelID string, sequence uint64) error {
	if err := host.PortIdentifierValidator(portID); err != nil {
		return fmt.Errorf("invalid port Id: %w", err)
	}
	if err := host.ChannelIdentifierValidator(channelID); err != nil {
		return fmt.Errorf("invalid channel Id: %w", err)
	}
	if sequence == 0 {
		return errors.New("sequence cannot be 0")
	}
	return nil
}
