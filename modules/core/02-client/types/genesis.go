package types

import (
	"fmt"

	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
)

// ClientConsensusStates defines all the stored consensus states for a given client.
type ClientConsensusStates struct {
	ClientId        string                     `json:"client_id" yaml:"client_id"`
	ConsensusStates []ConsensusStateWithHeight `json:"consensus_states" yaml:"consensus_states"`
}

// GenesisState defines the ibc client submodule's genesis state.
type GenesisState struct {
	Clients          IdentifiedClientStates  `json:"clients" yaml:"clients"`
	ClientsConsensus []ClientConsensusStates `json:"clients_consensus" yaml:"clients_consensus"`
	Params           Params                  `json:"params" yaml:"params"`
	// the sequence for the next generated client identifier
	NextClientSequence uint64 `json:"next_client_sequence" yaml:"next_client_sequence"`
}

// DefaultGenesisState returns the ibc client submodule's default genesis state.
func DefaultGenesisState() GenesisState {
	return GenesisState{
		Clients:            []IdentifiedClientState{},
		ClientsConsensus:   []ClientConsensusStates{},
		Params:             DefaultParams(),
		NextClientSequence: 0,
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	// keep track of the max sequence to ensure it is less than
	// the next sequence used in creating client identifiers.
	var maxSequence uint64

	if err := gs.Params.Validate(); err != nil {
		return err
	}

	validClients := make(map[string]string)

	for i, client := range gs.Clients {
		if err := host.ClientIdentifierValidator(client.ClientId); err != nil {
			return fmt.Errorf("invalid client consensus state identifier %s index %d: %w", client.ClientId, i, err)
		}
		if client.ClientState == nil {
			return fmt.Errorf("client %s has no client state", client.ClientId)
		}

		if !gs.Params.IsAllowedClient(client.ClientState.ClientType()) {
			return fmt.Errorf("client type %s not allowed by genesis params", client.ClientState.ClientType())
		}
		if err := client.ClientState.Validate(); err != nil {
			return fmt.Errorf("invalid client %v index %d: %w", client, i, err)
		}

		clientType, sequence, err := ParseClientIdentifier(client.ClientId)
		if err != nil {
			return err
		}
		if clientType != client.ClientState.ClientType() {
			return fmt.Errorf("client state type %s does not equal client type in client identifier %s", client.ClientState.ClientType(), clientType)
		}

		if sequence > maxSequence {
			maxSequence = sequence
		}

		validClients[client.ClientId] = clientType
	}

	for _, cc := range gs.ClientsConsensus {
		clientType, ok := validClients[cc.ClientId]
		if !ok {
			return fmt.Errorf("consensus state in genesis has a client id %s that does not map to a genesis client", cc.ClientId)
		}

		for i, consensusState := range cc.ConsensusStates {
			if consensusState.Height.IsZero() {
				return fmt.Errorf("consensus state height cannot be zero")
			}
			if consensusState.ConsensusState == nil {
				return fmt.Errorf("client %s consensus state %d is nil", cc.ClientId, i)
			}
			if consensusState.ConsensusState.ClientType() != clientType {
				return fmt.Errorf("consensus state client type %s does not equal client type %s", consensusState.ConsensusState.ClientType(), clientType)
			}
			if err := consensusState.ConsensusState.ValidateBasic(); err != nil {
				return fmt.Errorf("invalid client consensus state %v clientID %s index %d: %w", consensusState, cc.ClientId, i, err)
			}
		}
	}

	if maxSequence != 0 && maxSequence >= gs.NextClientSequence {
		return fmt.Errorf("next client identifier sequence %d must be greater than the maximum sequence used in the provided client identifiers %d", gs.NextClientSequence, maxSequence)
	}

	return nil
}
