package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
)

// ICS4Wrapper defines the expected ICS4Wrapper for sending packets
type ICS4Wrapper interface {
	SendPacket(
		ctx sdk.Context,
		sourcePort string,
		sourceChannel string,
		timeoutHeight clienttypes.Height,
		timeoutTimestamp uint64,
		data []byte,
	) (uint64, error)
}
