package ibctesting

import (
	"testing"

	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	solomachine "github.com/ComposableFi/ibc-core/modules/light-clients/06-solomachine"
)

// DefaultSolomachineClientID is the default solo machine client id used for testing
var DefaultSolomachineClientID = "06-solomachine-0"

// Solomachine is a testing helper used to simulate a counterparty
// solo machine client.
type Solomachine struct {
	tb testing.TB

	cdc         *codec.LegacyAmino
	ClientID    string
	PrivateKey  cryptotypes.PrivKey // key used for signing
	PublicKey   cryptotypes.PubKey  // key used for verification
	Sequence    uint64
	Time        uint64
	Diversifier string
}

// NewSolomachine returns a new solomachine instance with a freshly generated
// ed25519 key pair and a sequence starting at 1.
func NewSolomachine(tb testing.TB, cdc *codec.LegacyAmino, clientID, diversifier string) *Solomachine {
	tb.Helper()

	privKey := ed25519.GenPrivKey()

	return &Solomachine{
		tb:          tb,
		cdc:         cdc,
		ClientID:    clientID,
		PrivateKey:  privKey,
		PublicKey:   privKey.PubKey(),
		Sequence:    1,
		Time:        10,
		Diversifier: diversifier,
	}
}

// ClientState returns a new solo machine ClientState instance.
func (solo *Solomachine) ClientState() *solomachine.ClientState {
	return solomachine.NewClientState(solo.Sequence, solo.ConsensusState())
}

// ConsensusState returns a new solo machine ConsensusState instance
func (solo *Solomachine) ConsensusState() *solomachine.ConsensusState {
	return &solomachine.ConsensusState{
		PublicKey:   solo.PublicKey.Bytes(),
		Diversifier: solo.Diversifier,
		Timestamp:   solo.Time,
	}
}

// GetHeight returns an exported.Height with Sequence as RevisionHeight
func (solo *Solomachine) GetHeight() exported.Height {
	return clienttypes.NewHeight(0, solo.Sequence)
}

// CreateClient creates an on-chain client on the provided chain.
func (solo *Solomachine) CreateClient(chain *TestChain) string {
	msgCreateClient := clienttypes.NewMsgCreateClient(solo.ClientState(), solo.ConsensusState(), chain.GetSenderAddress())

	events, err := chain.SendMsgs(msgCreateClient)
	require.NoError(solo.tb, err)

	clientID, err := ParseClientIDFromEvents(events)
	require.NoError(solo.tb, err)

	solo.ClientID = clientID

	return clientID
}

// UpdateClient sends a MsgUpdateClient to the provided chain and updates the given clientID.
func (solo *Solomachine) UpdateClient(chain *TestChain, clientID string) {
	smHeader := solo.CreateHeader(solo.Diversifier)
	msgUpdateClient := clienttypes.NewMsgUpdateClient(clientID, smHeader, chain.GetSenderAddress())

	_, err := chain.SendMsgs(msgUpdateClient)
	require.NoError(solo.tb, err)
}

// CreateHeader generates a new private/public key pair and creates the
// necessary signature to construct a valid solo machine header.
// A new diversifier will be used as well
func (solo *Solomachine) CreateHeader(newDiversifier string) *solomachine.Header {
	// generate new private keys and signature for header
	newPrivKey := ed25519.GenPrivKey()
	newPubKey := newPrivKey.PubKey()

	data := &solomachine.HeaderData{
		NewPubKey:      newPubKey.Bytes(),
		NewDiversifier: newDiversifier,
	}

	dataBz, err := solo.cdc.Marshal(data)
	require.NoError(solo.tb, err)

	signBytes := &solomachine.SignBytes{
		Sequence:    solo.Sequence,
		Timestamp:   solo.Time,
		Diversifier: solo.Diversifier,
		Path:        []byte(solomachine.SentinelHeaderPath),
		Data:        dataBz,
	}

	bz, err := solo.cdc.Marshal(signBytes)
	require.NoError(solo.tb, err)

	sig := solo.GenerateSignature(bz)

	header := &solomachine.Header{
		Timestamp:      solo.Time,
		Signature:      sig,
		NewPublicKey:   newPubKey.Bytes(),
		NewDiversifier: newDiversifier,
	}

	// assumes successful header update
	solo.Sequence++
	solo.PrivateKey = newPrivKey
	solo.PublicKey = newPubKey
	solo.Diversifier = newDiversifier

	return header
}

// CreateMisbehaviour constructs testing misbehaviour for the solo machine client
// by signing over two different data bytes at the same sequence.
func (solo *Solomachine) CreateMisbehaviour() *solomachine.Misbehaviour {
	path := []byte("counterparty/client/state")
	dataOne := []byte("client state one")
	dataTwo := []byte("client state two")

	signatureOne := solo.signPathAndData(path, dataOne)

	// misbehaviour signatures can have different timestamps
	solo.Time++

	signatureTwo := solo.signPathAndData(path, dataTwo)

	return &solomachine.Misbehaviour{
		ClientId:     solo.ClientID,
		Sequence:     solo.Sequence,
		SignatureOne: signatureOne,
		SignatureTwo: signatureTwo,
	}
}

func (solo *Solomachine) signPathAndData(path, data []byte) *solomachine.SignatureAndData {
	signBytes := &solomachine.SignBytes{
		Sequence:    solo.Sequence,
		Timestamp:   solo.Time,
		Diversifier: solo.Diversifier,
		Path:        path,
		Data:        data,
	}

	bz, err := solo.cdc.Marshal(signBytes)
	require.NoError(solo.tb, err)

	return &solomachine.SignatureAndData{
		Signature: solo.GenerateSignature(bz),
		Path:      path,
		Data:      data,
		Timestamp: solo.Time,
	}
}

// GenerateSignature uses the stored private key to generate a signature
// over the sign bytes.
func (solo *Solomachine) GenerateSignature(signBytes []byte) []byte {
	sig, err := solo.PrivateKey.Sign(signBytes)
	require.NoError(solo.tb, err)

	return sig
}

// GenerateProof takes the store key and the value stored under it and returns
// the proof the solo machine client accepts for it. A nil value proves the key
// is absent. The solo machine sequence is incremented.
func (solo *Solomachine) GenerateProof(key, value []byte) []byte {
	signBytes := &solomachine.SignBytes{
		Sequence:    solo.Sequence,
		Timestamp:   solo.Time,
		Diversifier: solo.Diversifier,
		Path:        key,
		Data:        value,
	}

	bz, err := solo.cdc.Marshal(signBytes)
	require.NoError(solo.tb, err)

	signatureDoc := &solomachine.TimestampedSignatureData{
		SignatureData: solo.GenerateSignature(bz),
		Timestamp:     solo.Time,
	}

	proof, err := solo.cdc.Marshal(signatureDoc)
	require.NoError(solo.tb, err)

	solo.Sequence++

	return proof
}
