package solomachine

import (
	"strings"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var _ exported.ConsensusState = &ConsensusState{}

// ConsensusState defines a solo machine consensus state. The sequence of a
// consensus state is contained in the "height" key used in storing the
// consensus state.
type ConsensusState struct {
	// public key of the solo machine
	PublicKey []byte `json:"public_key" yaml:"public_key"`
	// diversifier allows the same public key to be re-used across different solo
	// machine clients (potentially on different chains) without being considered
	// misbehaviour.
	Diversifier string `json:"diversifier" yaml:"diversifier"`
	Timestamp   uint64 `json:"timestamp" yaml:"timestamp"`
}

// ClientType returns Solo Machine type.
func (ConsensusState) ClientType() string {
	return exported.Solomachine
}

// GetTimestamp returns zero.
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetRoot returns nil since solo machines do not have roots.
func (ConsensusState) GetRoot() exported.Root {
	return nil
}

// GetPubKey returns the public key of the solo machine.
func (cs ConsensusState) GetPubKey() (cryptotypes.PubKey, error) {
	return PubKeyFromBytes(cs.PublicKey)
}

// ValidateBasic defines basic validation for the solo machine consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "timestamp cannot be 0")
	}
	if cs.Diversifier != "" && strings.TrimSpace(cs.Diversifier) == "" {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "diversifier cannot contain only spaces")
	}
	if len(cs.PublicKey) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, "public key cannot be empty")
	}

	if _, err := cs.GetPubKey(); err != nil {
		return err
	}

	return nil
}
