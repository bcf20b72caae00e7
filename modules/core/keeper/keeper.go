package keeper

import (
	"fmt"
	"sync"

	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	paramtypes "github.com/cosmos/cosmos-sdk/x/params/types"
	"github.com/tendermint/tendermint/libs/log"

	clientkeeper "github.com/ComposableFi/ibc-core/modules/core/02-client/keeper"
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectionkeeper "github.com/ComposableFi/ibc-core/modules/core/03-connection/keeper"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channelkeeper "github.com/ComposableFi/ibc-core/modules/core/04-channel/keeper"
	porttypes "github.com/ComposableFi/ibc-core/modules/core/05-port/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// Keeper defines each ICS keeper for IBC
type Keeper struct {
	ClientKeeper     clientkeeper.Keeper
	ConnectionKeeper connectionkeeper.Keeper
	ChannelKeeper    channelkeeper.Keeper
	Router           *porttypes.Router

	cdc *codec.LegacyAmino

	// serializes message execution
	mu sync.Mutex
}

// NewKeeper creates a new ibc Keeper
func NewKeeper(
	cdc *codec.LegacyAmino, key sdk.StoreKey, paramSpace paramtypes.Subspace,
	stakingKeeper clienttypes.StakingKeeper, upgradeKeeper clienttypes.UpgradeKeeper,
) *Keeper {
	// register paramSpace at top level keeper
	// set KeyTable if it has not already been set
	if !paramSpace.HasKeyTable() {
		keyTable := clienttypes.ParamKeyTable()
		keyTable.RegisterParamSet(&connectiontypes.Params{})
		paramSpace = paramSpace.WithKeyTable(keyTable)
	}

	// panic if any of the keepers passed in is empty
	if stakingKeeper == nil {
		panic(fmt.Errorf("cannot initialize IBC keeper: empty staking keeper"))
	}
	if upgradeKeeper == nil {
		panic(fmt.Errorf("cannot initialize IBC keeper: empty upgrade keeper"))
	}

	clientKeeper := clientkeeper.NewKeeper(cdc, key, paramSpace, stakingKeeper, upgradeKeeper)
	connectionKeeper := connectionkeeper.NewKeeper(cdc, key, paramSpace, clientKeeper)
	channelKeeper := channelkeeper.NewKeeper(cdc, key, clientKeeper, connectionKeeper)

	return &Keeper{
		cdc:              cdc,
		ClientKeeper:     clientKeeper,
		ConnectionKeeper: connectionKeeper,
		ChannelKeeper:    channelKeeper,
	}
}

// Codec returns the IBC module codec.
func (k *Keeper) Codec() *codec.LegacyAmino {
	return k.cdc
}

// Logger returns a module-specific logger.
func (k *Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+exported.ModuleName)
}

// SetRouter sets the Router in IBC Keeper and seals it. The method panics if
// there is an existing router that's already sealed.
func (k *Keeper) SetRouter(rtr *porttypes.Router) {
	if k.Router != nil && k.Router.Sealed() {
		panic("cannot reset a sealed router")
	}

	k.Router = rtr
	k.Router.Seal()
}
