package keeper

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/ComposableFi/ibc-core/modules/apps/ping/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// Keeper defines the IBC ping keeper
type Keeper struct {
	storeKey    sdk.StoreKey
	cdc         *codec.LegacyAmino
	ics4Wrapper types.ICS4Wrapper
}

// NewKeeper creates a new IBC ping Keeper instance
func NewKeeper(cdc *codec.LegacyAmino, key sdk.StoreKey, ics4Wrapper types.ICS4Wrapper) Keeper {
	return Keeper{
		storeKey:    key,
		cdc:         cdc,
		ics4Wrapper: ics4Wrapper,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+exported.ModuleName+"-"+types.ModuleName)
}

// GetPort returns the portID for the ping module.
func (k Keeper) GetPort(ctx sdk.Context) string {
	store := ctx.KVStore(k.storeKey)
	return string(store.Get(types.PortKey))
}

// SetPort sets the portID for the ping module.
func (k Keeper) SetPort(ctx sdk.Context, portID string) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.PortKey, []byte(portID))
}

// GetReceivedPing returns the message of the ping received with the given
// sequence on the given channel end.
func (k Keeper) GetReceivedPing(ctx sdk.Context, portID, channelID string, sequence uint64) (string, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.ReceivedPingKey(portID, channelID, sequence))
	if bz == nil {
		return "", false
	}
	return string(bz), true
}

func (k Keeper) setReceivedPing(ctx sdk.Context, portID, channelID string, sequence uint64, message string) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.ReceivedPingKey(portID, channelID, sequence), []byte(message))
}

// GetCounters returns the ping counters of a channel end.
func (k Keeper) GetCounters(ctx sdk.Context, portID, channelID string) types.Counters {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.CounterKey(portID, channelID))
	if bz == nil {
		return types.Counters{}
	}

	var counters types.Counters
	k.cdc.MustUnmarshal(bz, &counters)
	return counters
}

func (k Keeper) updateCounters(ctx sdk.Context, portID, channelID string, update func(*types.Counters)) {
	counters := k.GetCounters(ctx, portID, channelID)
	update(&counters)

	store := ctx.KVStore(k.storeKey)
	store.Set(types.CounterKey(portID, channelID), k.cdc.MustMarshal(counters))
}
