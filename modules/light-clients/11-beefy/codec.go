package beefy

import (
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/ethereum/go-ethereum/crypto"
)

// ModuleName is the name of the beefy light client, used as its error codespace.
const ModuleName = "11-beefy"

// RegisterLegacyAminoCodec registers the beefy client state, consensus state
// and header as concrete implementations of the exported client interfaces.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&ClientState{}, "ibc/11-beefy/ClientState", nil)
	cdc.RegisterConcrete(&ConsensusState{}, "ibc/11-beefy/ConsensusState", nil)
	cdc.RegisterConcrete(&Header{}, "ibc/11-beefy/Header", nil)
}

// Keccak256 is the hasher of the authority merkle trees, the parachain heads
// trees and the MMR.
type Keccak256 struct{}

// Merge hashes the concatenation of two child nodes.
func (Keccak256) Merge(left, right interface{}) interface{} {
	l := left.([]byte)
	r := right.([]byte)
	return crypto.Keccak256(append(append([]byte{}, l...), r...))
}

// Hash hashes a leaf.
func (Keccak256) Hash(data []byte) ([]byte, error) {
	return crypto.Keccak256(data), nil
}
