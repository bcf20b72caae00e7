package tendermint

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// ModuleName is the name of the tendermint light client, used as its error codespace.
const ModuleName = "07-tendermint"

// SentinelRoot is used as a stand-in root value for the consensus state set at the upgrade height
const SentinelRoot = "sentinel_root"

// RegisterLegacyAminoCodec registers the tendermint client state, consensus
// state and client messages as concrete implementations of the exported
// client interfaces.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&ClientState{}, "ibc/07-tendermint/ClientState", nil)
	cdc.RegisterConcrete(&ConsensusState{}, "ibc/07-tendermint/ConsensusState", nil)
	cdc.RegisterConcrete(&Header{}, "ibc/07-tendermint/Header", nil)
	cdc.RegisterConcrete(&Misbehaviour{}, "ibc/07-tendermint/Misbehaviour", nil)
}
