package beefy

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var (
	// KeyProcessedTime is appended to consensus state key to store the processed time
	KeyProcessedTime = []byte("/processedTime")
	// KeyProcessedHeight is appended to consensus state key to store the processed height
	KeyProcessedHeight = []byte("/processedHeight")
)

func setClientState(clientStore sdk.KVStore, cdc *codec.LegacyAmino, clientState *ClientState) {
	clientStore.Set(host.ClientStateKey(), clienttypes.MustMarshalClientState(cdc, clientState))
}

func setConsensusState(clientStore sdk.KVStore, cdc *codec.LegacyAmino, consensusState *ConsensusState, height exported.Height) {
	clientStore.Set(host.ConsensusStateKey(height), clienttypes.MustMarshalConsensusState(cdc, consensusState))
}

// GetConsensusState retrieves the consensus state from the client prefixed
// store. If the ConsensusState does not exist in state for the provided height
// false is returned.
func GetConsensusState(store sdk.KVStore, cdc *codec.LegacyAmino, height exported.Height) (*ConsensusState, bool) {
	bz := store.Get(host.ConsensusStateKey(height))
	if len(bz) == 0 {
		return nil, false
	}

	consensusState, ok := clienttypes.MustUnmarshalConsensusState(cdc, bz).(*ConsensusState)
	return consensusState, ok
}

// setConsensusMetadata records the time and height at which the consensus
// state at height was stored.
func setConsensusMetadata(ctx sdk.Context, clientStore sdk.KVStore, height exported.Height) {
	clientStore.Set(append(host.ConsensusStateKey(height), KeyProcessedTime...), sdk.Uint64ToBigEndian(uint64(ctx.BlockTime().UnixNano())))
	clientStore.Set(append(host.ConsensusStateKey(height), KeyProcessedHeight...), []byte(clienttypes.GetSelfHeight(ctx).String()))
}

// GetProcessedTime gets the time (in nanoseconds) at which the consensus state at height was stored.
func GetProcessedTime(clientStore sdk.KVStore, height exported.Height) (uint64, bool) {
	bz := clientStore.Get(append(host.ConsensusStateKey(height), KeyProcessedTime...))
	if len(bz) == 0 {
		return 0, false
	}
	return sdk.BigEndianToUint64(bz), true
}

// GetProcessedHeight gets the height at which the consensus state at height was stored.
func GetProcessedHeight(clientStore sdk.KVStore, height exported.Height) (exported.Height, bool) {
	bz := clientStore.Get(append(host.ConsensusStateKey(height), KeyProcessedHeight...))
	if len(bz) == 0 {
		return nil, false
	}
	processedHeight, err := clienttypes.ParseHeight(string(bz))
	if err != nil {
		return nil, false
	}
	return processedHeight, true
}

// verifyDelayPeriodPassed ensures that at least delayTimePeriod of time and delayBlockPeriod
// blocks have passed since the consensus state at proofHeight was stored.
func verifyDelayPeriodPassed(ctx sdk.Context, store sdk.KVStore, proofHeight exported.Height, delayTimePeriod, delayBlockPeriod uint64) error {
	if delayTimePeriod != 0 {
		processedTime, ok := GetProcessedTime(store, proofHeight)
		if !ok {
			return sdkerrors.Wrapf(ErrProcessedTimeNotFound, "processed time not found for height: %s", proofHeight)
		}

		currentTimestamp := uint64(ctx.BlockTime().UnixNano())
		validTime := processedTime + delayTimePeriod
		if currentTimestamp < validTime {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until time: %d, current time: %d",
				validTime, currentTimestamp)
		}
	}

	if delayBlockPeriod != 0 {
		processedHeight, ok := GetProcessedHeight(store, proofHeight)
		if !ok {
			return sdkerrors.Wrapf(ErrProcessedHeightNotFound, "processed height not found for height: %s", proofHeight)
		}

		currentHeight := clienttypes.GetSelfHeight(ctx)
		validHeight := clienttypes.NewHeight(processedHeight.GetRevisionNumber(), processedHeight.GetRevisionHeight()+delayBlockPeriod)
		if currentHeight.LT(validHeight) {
			return sdkerrors.Wrapf(ErrDelayPeriodNotPassed, "cannot verify packet until height: %s, current height: %s",
				validHeight, currentHeight)
		}
	}

	return nil
}
