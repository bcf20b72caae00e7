package solomachine

import (
	"strings"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var _ exported.ClientMessage = &Header{}

// Header defines a solo machine consensus header
type Header struct {
	Timestamp      uint64 `json:"timestamp" yaml:"timestamp"`
	Signature      []byte `json:"signature" yaml:"signature"`
	NewPublicKey   []byte `json:"new_public_key" yaml:"new_public_key"`
	NewDiversifier string `json:"new_diversifier" yaml:"new_diversifier"`
}

// ClientType defines that the Header is a Solo Machine.
func (Header) ClientType() string {
	return exported.Solomachine
}

// ValidateBasic ensures that the timestamp and signature are non-zero and non-empty.
// The new diversifier may be empty.
func (h Header) ValidateBasic() error {
	if h.Timestamp == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "timestamp cannot be zero")
	}

	if h.NewDiversifier != "" && strings.TrimSpace(h.NewDiversifier) == "" {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "diversifier cannot contain only spaces")
	}

	if len(h.Signature) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "signature cannot be empty")
	}

	if _, err := PubKeyFromBytes(h.NewPublicKey); err != nil {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, err.Error())
	}

	return nil
}
