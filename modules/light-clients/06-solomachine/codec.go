package solomachine

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

const (
	// ModuleName is the name of the solo machine light client, used as its error codespace.
	ModuleName = "06-solomachine"

	// SentinelHeaderPath defines a placeholder path value used for headers in solomachine client updates
	SentinelHeaderPath = "solomachine:header"
)

// RegisterLegacyAminoCodec registers the solo machine client state, consensus
// state and client messages as concrete implementations of the exported
// client interfaces.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&ClientState{}, "ibc/06-solomachine/ClientState", nil)
	cdc.RegisterConcrete(&ConsensusState{}, "ibc/06-solomachine/ConsensusState", nil)
	cdc.RegisterConcrete(&Header{}, "ibc/06-solomachine/Header", nil)
	cdc.RegisterConcrete(&Misbehaviour{}, "ibc/06-solomachine/Misbehaviour", nil)
}

// UnmarshalTimestampedSignatureData decodes a solo machine proof.
func UnmarshalTimestampedSignatureData(cdc *codec.LegacyAmino, proof []byte) (TimestampedSignatureData, error) {
	var timestampedSigData TimestampedSignatureData
	if err := cdc.Unmarshal(proof, &timestampedSigData); err != nil {
		return TimestampedSignatureData{}, sdkerrors.Wrapf(err, "failed to unmarshal proof into type %T", timestampedSigData)
	}

	return timestampedSigData, nil
}
