package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Result is the outcome of a single message executed by the IBC keeper.
type Result struct {
	// Events emitted by the message. Empty unless the message succeeded.
	Events sdk.Events
	// Err is the failure of the message, nil on success.
	Err error
	// NoOp is set when the message relayed a packet, acknowledgement or
	// timeout that was already processed. Err holds the reason.
	NoOp bool
}

// IsOK returns true if the message succeeded.
func (r Result) IsOK() bool {
	return r.Err == nil
}
