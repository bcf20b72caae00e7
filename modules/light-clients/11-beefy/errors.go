package beefy

import (
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// IBC beefy client sentinel errors
var (
	ErrInvalidHeaderHeight        = sdkerrors.Register(ModuleName, 2, "invalid header height")
	ErrInvalidAuthoritySet        = sdkerrors.Register(ModuleName, 3, "invalid authority set")
	ErrInvalidMmrRoot             = sdkerrors.Register(ModuleName, 4, "invalid mmr root hash")
	ErrCommitmentNotFinal         = sdkerrors.Register(ModuleName, 5, "commitment is not signed by a supermajority of authorities")
	ErrAuthoritySetUnknown        = sdkerrors.Register(ModuleName, 6, "authority set is unknown")
	ErrInvalidCommitment          = sdkerrors.Register(ModuleName, 7, "invalid commitment")
	ErrInvalidCommitmentSignature = sdkerrors.Register(ModuleName, 8, "invalid commitment signature")
	ErrFailedVerifyMMRLeaf        = sdkerrors.Register(ModuleName, 9, "failed to verify mmr leaf")
	ErrInvalidParachainHeader     = sdkerrors.Register(ModuleName, 10, "invalid parachain header")
	ErrInvalidParachainHeadsProof = sdkerrors.Register(ModuleName, 11, "invalid parachain heads proof")
	ErrInvalidTimestampProof      = sdkerrors.Register(ModuleName, 12, "invalid timestamp extrinsic proof")
	ErrInvalidProof               = sdkerrors.Register(ModuleName, 13, "invalid state trie proof")
	ErrProcessedTimeNotFound      = sdkerrors.Register(ModuleName, 14, "processed time not found")
	ErrProcessedHeightNotFound    = sdkerrors.Register(ModuleName, 15, "processed height not found")
	ErrDelayPeriodNotPassed       = sdkerrors.Register(ModuleName, 16, "packet-specified delay period has not been reached")
	ErrUpgradeNotSupported        = sdkerrors.Register(ModuleName, 17, "beefy clients cannot be upgraded")
)
