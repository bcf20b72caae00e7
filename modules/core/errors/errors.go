package errors

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

const codespace = exported.ModuleName

var (
	// ErrInvalidSequence is used the sequence number (nonce) is incorrect
	// for the signature.
	ErrInvalidSequence = sdkerrors.Register(codespace, 1, "invalid sequence")

	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = sdkerrors.Register(codespace, 2, "unauthorized")

	// ErrInsufficientFunds is used when the account cannot pay requested amount.
	ErrInsufficientFunds = sdkerrors.Register(codespace, 3, "insufficient funds")

	// ErrUnknownRequest is used when the request body.
	ErrUnknownRequest = sdkerrors.Register(codespace, 4, "unknown request")

	// ErrInvalidAddress is used when an address is found to be invalid.
	ErrInvalidAddress = sdkerrors.Register(codespace, 5, "invalid address")

	// ErrInvalidCoins is used when sdk.Coins are invalid.
	ErrInvalidCoins = sdkerrors.Register(codespace, 6, "invalid coins")

	// ErrInvalidRequest defines an ABCI typed error where the request contains
	// invalid data.
	ErrInvalidRequest = sdkerrors.Register(codespace, 7, "invalid request")

	// ErrInvalidHeight defines an error for an invalid height
	ErrInvalidHeight = sdkerrors.Register(codespace, 8, "invalid height")

	// ErrInvalidVersion defines a general error for an invalid version
	ErrInvalidVersion = sdkerrors.Register(codespace, 9, "invalid version")

	// ErrInvalidChainID defines an error when the chain-id is invalid.
	ErrInvalidChainID = sdkerrors.Register(codespace, 10, "invalid chain-id")

	// ErrInvalidType defines an error an invalid type.
	ErrInvalidType = sdkerrors.Register(codespace, 11, "invalid type")

	// ErrDecoding defines an error when stored or submitted bytes cannot be decoded.
	ErrDecoding = sdkerrors.Register(codespace, 12, "decoding error")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = sdkerrors.Register(codespace, 13, "internal logic error")

	// ErrNotFound defines an error when requested entity doesn't exist in the state.
	ErrNotFound = sdkerrors.Register(codespace, 14, "not found")
)
