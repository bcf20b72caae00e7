package types

import (
	"sort"

	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// IdentifiedClientState defines a client state with an additional client
// identifier field.
type IdentifiedClientState struct {
	ClientId    string               `json:"client_id" yaml:"client_id"`
	ClientState exported.ClientState `json:"client_state" yaml:"client_state"`
}

// NewIdentifiedClientState creates a new IdentifiedClientState instance
func NewIdentifiedClientState(clientID string, clientState exported.ClientState) IdentifiedClientState {
	return IdentifiedClientState{
		ClientId:    clientID,
		ClientState: clientState,
	}
}

// IdentifiedClientStates defines a slice of ClientConsensusStates that supports the sort interface
type IdentifiedClientStates []IdentifiedClientState

// Len implements sort.Interface
func (ics IdentifiedClientStates) Len() int { return len(ics) }

// Less implements sort.Interface
func (ics IdentifiedClientStates) Less(i, j int) bool { return ics[i].ClientId < ics[j].ClientId }

// Swap implements sort.Interface
func (ics IdentifiedClientStates) Swap(i, j int) { ics[i], ics[j] = ics[j], ics[i] }

// Sort is a helper function to sort the set of IdentifiedClientStates in place
func (ics IdentifiedClientStates) Sort() IdentifiedClientStates {
	sort.Sort(ics)
	return ics
}

// ConsensusStateWithHeight defines a consensus state with an additional height
// field.
type ConsensusStateWithHeight struct {
	Height         Height                  `json:"height" yaml:"height"`
	ConsensusState exported.ConsensusState `json:"consensus_state" yaml:"consensus_state"`
}

// NewConsensusStateWithHeight creates a new ConsensusStateWithHeight instance
func NewConsensusStateWithHeight(height Height, consensusState exported.ConsensusState) ConsensusStateWithHeight {
	return ConsensusStateWithHeight{
		Height:         height,
		ConsensusState: consensusState,
	}
}
