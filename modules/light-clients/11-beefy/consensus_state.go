package beefy

import (
	"bytes"
	"time"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState defines the consensus state of a parachain block.
type ConsensusState struct {
	// timestamp set by the timestamp extrinsic of the parachain block
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// parachain state trie root
	Root []byte `json:"root" yaml:"root"`
}

// NewConsensusState creates a new ConsensusState instance.
func NewConsensusState(timestamp time.Time, root []byte) *ConsensusState {
	return &ConsensusState{
		Timestamp: timestamp,
		Root:      root,
	}
}

// ClientType returns Beefy
func (ConsensusState) ClientType() string {
	return exported.Beefy
}

// GetRoot returns the state trie root of the parachain block.
func (cs ConsensusState) GetRoot() exported.Root {
	return commitmenttypes.NewMerkleRoot(cs.Root)
}

// GetTimestamp returns block time in nanoseconds of the header that created consensus state
func (cs ConsensusState) GetTimestamp() uint64 {
	return uint64(cs.Timestamp.UnixNano())
}

// ValidateBasic defines a basic validation for the beefy consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if len(cs.Root) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "root cannot be empty")
	}
	if cs.Timestamp.Unix() <= 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	return nil
}

// Equal reports whether both consensus states commit to the same timestamp and root.
func (cs ConsensusState) Equal(other *ConsensusState) bool {
	if other == nil {
		return false
	}
	return cs.Timestamp.Equal(other.Timestamp) && bytes.Equal(cs.Root, other.Root)
}
