package types

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// IBC ping sentinel errors
var (
	ErrInvalidVersion    = sdkerrors.Register(ModuleName, 2, "invalid ping version")
	ErrInvalidPacketData = sdkerrors.Register(ModuleName, 3, "invalid ping packet data")
	ErrInvalidAck        = sdkerrors.Register(ModuleName, 4, "unexpected ping acknowledgement")
)
