package solomachine

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// VerifyClientMessage introspects the provided ClientMessage and checks its validity
// A Solomachine Header is considered valid if the currently registered public key has signed over the new public key with the correct sequence
// A Solomachine Misbehaviour is considered valid if duplicate signatures of the current public key are found on two different messages at a given sequence
func (cs ClientState) VerifyClientMessage(_ sdk.Context, cdc *codec.LegacyAmino, _ sdk.KVStore, clientMsg exported.ClientMessage) error {
	switch msg := clientMsg.(type) {
	case *Header:
		return cs.verifyHeader(cdc, msg)
	case *Misbehaviour:
		return cs.verifyMisbehaviour(cdc, msg)
	default:
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClientType, "expected type of %T or %T, got type %T", Header{}, Misbehaviour{}, msg)
	}
}

func (cs ClientState) verifyHeader(cdc *codec.LegacyAmino, header *Header) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}

	// assert update timestamp is not less than current consensus state timestamp
	if header.Timestamp < cs.ConsensusState.Timestamp {
		return sdkerrors.Wrapf(
			clienttypes.ErrInvalidHeader,
			"header timestamp is less than to the consensus state timestamp (%d < %d)", header.Timestamp, cs.ConsensusState.Timestamp,
		)
	}

	// assert currently registered public key signed over the new public key with correct sequence
	headerData := &HeaderData{
		NewPubKey:      header.NewPublicKey,
		NewDiversifier: header.NewDiversifier,
	}

	dataBz, err := cdc.Marshal(headerData)
	if err != nil {
		return err
	}

	signBytes := &SignBytes{
		Sequence:    cs.Sequence,
		Timestamp:   header.Timestamp,
		Diversifier: cs.ConsensusState.Diversifier,
		Path:        []byte(SentinelHeaderPath),
		Data:        dataBz,
	}

	data, err := cdc.Marshal(signBytes)
	if err != nil {
		return err
	}

	publicKey, err := cs.ConsensusState.GetPubKey()
	if err != nil {
		return err
	}

	if err := VerifySignature(publicKey, data, header.Signature); err != nil {
		return sdkerrors.Wrap(ErrInvalidHeader, err.Error())
	}

	return nil
}

// verifyMisbehaviour determines whether or not two conflicting signatures
// at the same sequence were produced by the current public key.
func (cs ClientState) verifyMisbehaviour(cdc *codec.LegacyAmino, misbehaviour *Misbehaviour) error {
	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}

	// NOTE: a check that the misbehaviour message data are not equal is done by
	// misbehaviour.ValidateBasic which is called by the 02-client keeper.
	// verify first signature
	if err := cs.verifySignatureAndData(cdc, misbehaviour, misbehaviour.SignatureOne); err != nil {
		return sdkerrors.Wrap(err, "failed to verify signature one")
	}

	// verify second signature
	if err := cs.verifySignatureAndData(cdc, misbehaviour, misbehaviour.SignatureTwo); err != nil {
		return sdkerrors.Wrap(err, "failed to verify signature two")
	}

	return nil
}

// verifySignatureAndData verifies that the currently registered public key has signed
// over the provided data at the misbehaviour sequence.
func (cs ClientState) verifySignatureAndData(cdc *codec.LegacyAmino, misbehaviour *Misbehaviour, sigAndData *SignatureAndData) error {
	// do not check misbehaviour timestamp since we want to allow processing of past misbehaviour
	signBytes := SignBytes{
		Sequence:    misbehaviour.Sequence,
		Timestamp:   sigAndData.Timestamp,
		Diversifier: cs.ConsensusState.Diversifier,
		Path:        sigAndData.Path,
		Data:        sigAndData.Data,
	}

	data, err := cdc.Marshal(&signBytes)
	if err != nil {
		return err
	}

	publicKey, err := cs.ConsensusState.GetPubKey()
	if err != nil {
		return err
	}

	return VerifySignature(publicKey, data, sigAndData.Signature)
}

// CheckForMisbehaviour returns true for type Misbehaviour (passed VerifyClientMessage check), otherwise returns false
func (ClientState) CheckForMisbehaviour(_ sdk.Context, _ *codec.LegacyAmino, _ sdk.KVStore, clientMsg exported.ClientMessage) bool {
	if _, ok := clientMsg.(*Misbehaviour); ok {
		return true
	}

	return false
}

// UpdateStateOnMisbehaviour updates state upon misbehaviour. This method should only be called on misbehaviour
// as it does not perform any misbehaviour checks.
func (cs ClientState) UpdateStateOnMisbehaviour(_ sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, _ exported.ClientMessage) {
	cs.IsFrozen = true

	setClientState(clientStore, cdc, &cs)
}

// UpdateState updates the consensus state to the new public key and an incremented sequence.
// A list containing the updated consensus height is returned.
func (cs ClientState) UpdateState(_ sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg exported.ClientMessage) []exported.Height {
	smHeader, ok := clientMsg.(*Header)
	if !ok {
		panic(fmt.Errorf("unsupported ClientMessage: %T", clientMsg))
	}

	// create new solomachine ConsensusState
	consensusState := &ConsensusState{
		PublicKey:   smHeader.NewPublicKey,
		Diversifier: smHeader.NewDiversifier,
		Timestamp:   smHeader.Timestamp,
	}

	cs.Sequence++
	cs.ConsensusState = consensusState

	setClientState(clientStore, cdc, &cs)

	return []exported.Height{clienttypes.NewHeight(0, cs.Sequence)}
}
