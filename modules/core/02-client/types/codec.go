package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// RegisterLegacyAminoCodec registers the client message types on the provided
// LegacyAmino codec.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateClient{}, "ibc/client/MsgCreateClient", nil)
	cdc.RegisterConcrete(&MsgUpdateClient{}, "ibc/client/MsgUpdateClient", nil)
	cdc.RegisterConcrete(&MsgUpgradeClient{}, "ibc/client/MsgUpgradeClient", nil)
	cdc.RegisterConcrete(&MsgSubmitMisbehaviour{}, "ibc/client/MsgSubmitMisbehaviour", nil)
}

// MustMarshalClientState attempts to encode a ClientState object and returns the
// raw encoded bytes. It panics on error.
func MustMarshalClientState(cdc *codec.LegacyAmino, clientState exported.ClientState) []byte {
	bz, err := MarshalClientState(cdc, clientState)
	if err != nil {
		panic(err)
	}
	return bz
}

// MarshalClientState encodes a ClientState through its registered interface.
func MarshalClientState(cdc *codec.LegacyAmino, clientState exported.ClientState) ([]byte, error) {
	return cdc.Marshal(clientState)
}

// MustUnmarshalClientState attempts to decode and return a ClientState object from
// raw encoded bytes. It panics on error.
func MustUnmarshalClientState(cdc *codec.LegacyAmino, bz []byte) exported.ClientState {
	clientState, err := UnmarshalClientState(cdc, bz)
	if err != nil {
		panic(err)
	}
	return clientState
}

// UnmarshalClientState returns a ClientState interface from raw encoded clientState
// bytes of a registered implementation.
func UnmarshalClientState(cdc *codec.LegacyAmino, bz []byte) (exported.ClientState, error) {
	var clientState exported.ClientState
	if err := cdc.Unmarshal(bz, &clientState); err != nil {
		return nil, sdkerrors.Wrap(ErrInvalidClient, err.Error())
	}
	return clientState, nil
}

// MustMarshalConsensusState attempts to encode a ConsensusState object and returns the
// raw encoded bytes. It panics on error.
func MustMarshalConsensusState(cdc *codec.LegacyAmino, consensusState exported.ConsensusState) []byte {
	bz, err := MarshalConsensusState(cdc, consensusState)
	if err != nil {
		panic(err)
	}
	return bz
}

// MarshalConsensusState encodes a ConsensusState through its registered interface.
func MarshalConsensusState(cdc *codec.LegacyAmino, consensusState exported.ConsensusState) ([]byte, error) {
	return cdc.Marshal(consensusState)
}

// MustUnmarshalConsensusState attempts to decode and return an ConsensusState object from
// raw encoded bytes. It panics on error.
func MustUnmarshalConsensusState(cdc *codec.LegacyAmino, bz []byte) exported.ConsensusState {
	consensusState, err := UnmarshalConsensusState(cdc, bz)
	if err != nil {
		panic(err)
	}
	return consensusState
}

// UnmarshalConsensusState returns a ConsensusState interface from raw encoded consensus state
// bytes of a registered implementation.
func UnmarshalConsensusState(cdc *codec.LegacyAmino, bz []byte) (exported.ConsensusState, error) {
	var consensusState exported.ConsensusState
	if err := cdc.Unmarshal(bz, &consensusState); err != nil {
		return nil, sdkerrors.Wrap(ErrInvalidConsensus, err.Error())
	}
	return consensusState, nil
}
