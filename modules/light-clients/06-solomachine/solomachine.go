package solomachine

import (
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
)

// HeaderData returns the SignBytes data for update verification.
type HeaderData struct {
	// header public key
	NewPubKey []byte `json:"new_pub_key" yaml:"new_pub_key"`
	// header diversifier
	NewDiversifier string `json:"new_diversifier" yaml:"new_diversifier"`
}

// SignBytes defines the signed bytes used for signature verification.
type SignBytes struct {
	// the sequence number
	Sequence uint64 `json:"sequence" yaml:"sequence"`
	// the proof timestamp
	Timestamp uint64 `json:"timestamp" yaml:"timestamp"`
	// the public key diversifier
	Diversifier string `json:"diversifier" yaml:"diversifier"`
	// the standardised path bytes
	Path []byte `json:"path" yaml:"path"`
	// the marshaled data bytes
	Data []byte `json:"data" yaml:"data"`
}

// TimestampedSignatureData contains the signature data and the timestamp of the
// signature.
type TimestampedSignatureData struct {
	SignatureData []byte `json:"signature_data" yaml:"signature_data"`
	Timestamp     uint64 `json:"timestamp" yaml:"timestamp"`
}

// SignatureAndData contains a signature and the data signed over to create that
// signature.
type SignatureAndData struct {
	Signature []byte `json:"signature" yaml:"signature"`
	Path      []byte `json:"path" yaml:"path"`
	Data      []byte `json:"data" yaml:"data"`
	Timestamp uint64 `json:"timestamp" yaml:"timestamp"`
}

// PubKeyFromBytes returns the ed25519 public key held in bz.
func PubKeyFromBytes(bz []byte) (cryptotypes.PubKey, error) {
	if len(bz) != ed25519.PubKeySize {
		return nil, sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "public key must be %d bytes, got %d", ed25519.PubKeySize, len(bz))
	}

	return &ed25519.PubKey{Key: bz}, nil
}

// VerifySignature verifies if the provided public key generated the signature
// over the given data.
func VerifySignature(pubKey cryptotypes.PubKey, signBytes []byte, signature []byte) error {
	if len(signature) == 0 {
		return sdkerrors.Wrap(ErrSignatureVerificationFailed, "signature cannot be empty")
	}

	if !pubKey.VerifySignature(signBytes, signature) {
		return ErrSignatureVerificationFailed
	}

	return nil
}
