package types

import (
	"github.com/cosmos/cosmos-sdk/codec"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	solomachine "github.com/ComposableFi/ibc-core/modules/light-clients/06-solomachine"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	beefy "github.com/ComposableFi/ibc-core/modules/light-clients/11-beefy"
)

// RegisterLegacyAminoCodec registers the IBC interfaces, every core message and
// the supported light client implementations on the amino codec.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	exported.RegisterLegacyAminoCodec(cdc)
	commitmenttypes.RegisterLegacyAminoCodec(cdc)
	clienttypes.RegisterLegacyAminoCodec(cdc)
	connectiontypes.RegisterLegacyAminoCodec(cdc)
	channeltypes.RegisterLegacyAminoCodec(cdc)

	ibctm.RegisterLegacyAminoCodec(cdc)
	solomachine.RegisterLegacyAminoCodec(cdc)
	beefy.RegisterLegacyAminoCodec(cdc)
}

// NewCodec returns an amino codec with every IBC type registered.
func NewCodec() *codec.LegacyAmino {
	cdc := codec.NewLegacyAmino()
	RegisterLegacyAminoCodec(cdc)
	return cdc
}
