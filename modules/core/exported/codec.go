package exported

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

const (
	// ModuleName is the name of the IBC module
	ModuleName = "ibc"

	// StoreKey is the string store representation
	StoreKey string = ModuleName
)

// RegisterLegacyAminoCodec registers the IBC interfaces with the amino codec.
// Concrete light client and commitment types register their implementations
// against these interfaces.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterInterface((*ClientState)(nil), nil)
	cdc.RegisterInterface((*ConsensusState)(nil), nil)
	cdc.RegisterInterface((*ClientMessage)(nil), nil)
	cdc.RegisterInterface((*Root)(nil), nil)
	cdc.RegisterInterface((*Prefix)(nil), nil)
	cdc.RegisterInterface((*Path)(nil), nil)
}
