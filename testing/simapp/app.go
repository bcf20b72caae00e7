package simapp

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/std"
	"github.com/cosmos/cosmos-sdk/store/rootmulti"
	storetypes "github.com/cosmos/cosmos-sdk/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	paramskeeper "github.com/cosmos/cosmos-sdk/x/params/keeper"
	paramstypes "github.com/cosmos/cosmos-sdk/x/params/types"
	stakingkeeper "github.com/cosmos/cosmos-sdk/x/staking/keeper"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	upgradekeeper "github.com/cosmos/cosmos-sdk/x/upgrade/keeper"
	upgradetypes "github.com/cosmos/cosmos-sdk/x/upgrade/types"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	dbm "github.com/tendermint/tm-db"

	"github.com/ComposableFi/ibc-core/modules/apps/ping"
	pingkeeper "github.com/ComposableFi/ibc-core/modules/apps/ping/keeper"
	pingtypes "github.com/ComposableFi/ibc-core/modules/apps/ping/types"
	"github.com/ComposableFi/ibc-core/modules/apps/transfer"
	transferkeeper "github.com/ComposableFi/ibc-core/modules/apps/transfer/keeper"
	transfertypes "github.com/ComposableFi/ibc-core/modules/apps/transfer/types"
	ibc "github.com/ComposableFi/ibc-core/modules/core"
	client "github.com/ComposableFi/ibc-core/modules/core/02-client"
	porttypes "github.com/ComposableFi/ibc-core/modules/core/05-port/types"
	"github.com/ComposableFi/ibc-core/modules/core/ante"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibckeeper "github.com/ComposableFi/ibc-core/modules/core/keeper"
	ibctypes "github.com/ComposableFi/ibc-core/modules/core/types"
	"github.com/ComposableFi/ibc-core/testing/mock"
)

// module account permissions
var maccPerms = map[string][]string{
	authtypes.FeeCollectorName:     nil,
	stakingtypes.BondedPoolName:    {authtypes.Burner, authtypes.Staking},
	stakingtypes.NotBondedPoolName: {authtypes.Burner, authtypes.Staking},
	transfertypes.ModuleName:       {authtypes.Minter, authtypes.Burner},
}

// SimApp is a minimal host chain for IBC testing. It mounts the stores of the
// keepers IBC depends on in a single multistore and executes IBC messages
// directly through the IBC keeper.
type SimApp struct {
	logger log.Logger
	cms    *rootmulti.Store

	legacyAmino       *codec.LegacyAmino
	appCodec          codec.Codec
	interfaceRegistry codectypes.InterfaceRegistry

	keys  map[string]*sdk.KVStoreKey
	tkeys map[string]*sdk.TransientStoreKey

	ParamsKeeper   paramskeeper.Keeper
	AccountKeeper  authkeeper.AccountKeeper
	BankKeeper     bankkeeper.BaseKeeper
	StakingKeeper  stakingkeeper.Keeper
	UpgradeKeeper  upgradekeeper.Keeper
	IBCKeeper      *ibckeeper.Keeper
	TransferKeeper transferkeeper.Keeper
	PingKeeper     pingkeeper.Keeper

	// MockApp is the application bound to the mock port. Tests override
	// its callbacks to inject behaviour.
	MockApp *mock.IBCApp

	RelayChecker ante.RedundantRelayChecker
}

// NewSimApp returns a SimApp backed by db. The latest committed version of db
// is loaded; a fresh db must be initialized with InitChain.
func NewSimApp(logger log.Logger, db dbm.DB) *SimApp {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(interfaceRegistry)
	authtypes.RegisterInterfaces(interfaceRegistry)
	banktypes.RegisterInterfaces(interfaceRegistry)
	stakingtypes.RegisterInterfaces(interfaceRegistry)
	appCodec := codec.NewProtoCodec(interfaceRegistry)

	legacyAmino := ibctypes.NewCodec()
	transfertypes.RegisterLegacyAminoCodec(legacyAmino)
	pingtypes.RegisterLegacyAminoCodec(legacyAmino)

	keys := sdk.NewKVStoreKeys(
		authtypes.StoreKey, banktypes.StoreKey, stakingtypes.StoreKey, paramstypes.StoreKey,
		upgradetypes.StoreKey, exported.StoreKey, transfertypes.StoreKey, pingtypes.StoreKey,
	)
	tkeys := sdk.NewTransientStoreKeys(paramstypes.TStoreKey)

	app := &SimApp{
		logger:            logger,
		cms:               rootmulti.NewStore(db),
		legacyAmino:       legacyAmino,
		appCodec:          appCodec,
		interfaceRegistry: interfaceRegistry,
		keys:              keys,
		tkeys:             tkeys,
	}

	// every version is kept so that proofs can be queried at any past height
	app.cms.SetPruning(storetypes.PruneNothing)
	for _, key := range keys {
		app.cms.MountStoreWithDB(key, sdk.StoreTypeIAVL, nil)
	}
	for _, key := range tkeys {
		app.cms.MountStoreWithDB(key, sdk.StoreTypeTransient, nil)
	}

	app.ParamsKeeper = paramskeeper.NewKeeper(appCodec, legacyAmino, keys[paramstypes.StoreKey], tkeys[paramstypes.TStoreKey])
	app.ParamsKeeper.Subspace(authtypes.ModuleName)
	app.ParamsKeeper.Subspace(banktypes.ModuleName)
	app.ParamsKeeper.Subspace(stakingtypes.ModuleName)
	app.ParamsKeeper.Subspace(exported.ModuleName)
	app.ParamsKeeper.Subspace(transfertypes.ModuleName)

	app.AccountKeeper = authkeeper.NewAccountKeeper(
		appCodec, keys[authtypes.StoreKey], app.GetSubspace(authtypes.ModuleName), authtypes.ProtoBaseAccount, maccPerms,
	)
	app.BankKeeper = bankkeeper.NewBaseKeeper(
		appCodec, keys[banktypes.StoreKey], app.AccountKeeper, app.GetSubspace(banktypes.ModuleName), app.BlockedAddrs(),
	)
	app.StakingKeeper = stakingkeeper.NewKeeper(
		appCodec, keys[stakingtypes.StoreKey], app.AccountKeeper, app.BankKeeper, app.GetSubspace(stakingtypes.ModuleName),
	)
	app.UpgradeKeeper = upgradekeeper.NewKeeper(map[int64]bool{}, keys[upgradetypes.StoreKey], appCodec, "", nil)

	app.IBCKeeper = ibckeeper.NewKeeper(
		legacyAmino, keys[exported.StoreKey], app.GetSubspace(exported.ModuleName), app.StakingKeeper, app.UpgradeKeeper,
	)

	app.TransferKeeper = transferkeeper.NewKeeper(
		legacyAmino, keys[transfertypes.StoreKey], app.GetSubspace(transfertypes.ModuleName),
		app.IBCKeeper.ChannelKeeper, app.IBCKeeper.ChannelKeeper,
		transferkeeper.NewBankLedger(app.AccountKeeper, app.BankKeeper),
	)
	app.PingKeeper = pingkeeper.NewKeeper(legacyAmino, keys[pingtypes.StoreKey], app.IBCKeeper.ChannelKeeper)
	app.MockApp = mock.NewIBCApp(mock.PortID)

	ibcRouter := porttypes.NewRouter()
	ibcRouter.AddRoute(transfertypes.PortID, transfer.NewIBCModule(app.TransferKeeper)).
		AddRoute(pingtypes.PortID, ping.NewIBCModule(app.PingKeeper)).
		AddRoute(mock.PortID, mock.NewIBCModule(app.MockApp))
	ibcRouter.AddMsgHandler(transferkeeper.NewMsgHandler(app.TransferKeeper)).
		AddMsgHandler(pingkeeper.NewMsgHandler(app.PingKeeper))
	app.IBCKeeper.SetRouter(ibcRouter)

	app.RelayChecker = ante.NewRedundantRelayChecker(app.IBCKeeper)

	if err := app.cms.LoadLatestVersion(); err != nil {
		panic(fmt.Errorf("failed to load latest version: %w", err))
	}

	return app
}

// InitChain writes the genesis state of every module and commits it as the
// first block. The accounts are created and each balance is credited.
func (app *SimApp) InitChain(chainID string, accounts []authtypes.GenesisAccount, balances []banktypes.Balance) storetypes.CommitID {
	ctx := app.NewContext(tmproto.Header{ChainID: chainID})

	app.AccountKeeper.SetParams(ctx, authtypes.DefaultParams())
	for _, acc := range accounts {
		app.AccountKeeper.SetAccount(ctx, app.AccountKeeper.NewAccount(ctx, acc))
	}
	app.BankKeeper.InitGenesis(ctx, &banktypes.GenesisState{
		Params:   banktypes.DefaultParams(),
		Balances: balances,
	})
	app.StakingKeeper.SetParams(ctx, stakingtypes.DefaultParams())

	ibc.InitGenesis(ctx, app.IBCKeeper, ibctypes.DefaultGenesisState())
	app.TransferKeeper.InitGenesis(ctx, *transfertypes.DefaultGenesisState())
	ping.InitGenesis(ctx, app.PingKeeper, pingtypes.PortID)

	return app.Commit()
}

// NewContext returns a context over the working state of the multistore.
func (app *SimApp) NewContext(header tmproto.Header) sdk.Context {
	return sdk.NewContext(app.cms, header, false, app.logger)
}

// BeginBlock runs the begin block logic IBC depends on: the header of the
// block is recorded as historical info, and the upgraded consensus state is
// written when the chain reaches the last height before a scheduled upgrade.
func (app *SimApp) BeginBlock(ctx sdk.Context) {
	app.StakingKeeper.TrackHistoricalInfo(ctx)

	if plan, found := app.UpgradeKeeper.GetUpgradePlan(ctx); found {
		client.BeginBlocker(ctx, app.IBCKeeper.ClientKeeper, plan.Height)
	}
}

// Commit persists the working state as a new version.
func (app *SimApp) Commit() storetypes.CommitID {
	return app.cms.Commit()
}

// LastCommitID returns the id of the latest committed version.
func (app *SimApp) LastCommitID() storetypes.CommitID {
	return app.cms.LastCommitID()
}

// Query runs an ABCI query against the committed state.
func (app *SimApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	return app.cms.Query(req)
}

// GetSubspace returns a param subspace for a given module name.
func (app *SimApp) GetSubspace(moduleName string) paramstypes.Subspace {
	subspace, ok := app.ParamsKeeper.GetSubspace(moduleName)
	if !ok {
		panic(fmt.Errorf("subspace %s not registered", moduleName))
	}
	return subspace
}

// GetIBCKeeper returns the IBC keeper.
func (app *SimApp) GetIBCKeeper() *ibckeeper.Keeper {
	return app.IBCKeeper
}

// LegacyAmino returns the amino codec shared by IBC and its applications.
func (app *SimApp) LegacyAmino() *codec.LegacyAmino {
	return app.legacyAmino
}

// AppCodec returns the proto codec of the SDK modules.
func (app *SimApp) AppCodec() codec.Codec {
	return app.appCodec
}

// ModuleAccountAddrs returns all the app's module account addresses.
func (app *SimApp) ModuleAccountAddrs() map[string]bool {
	modAccAddrs := make(map[string]bool)
	for acc := range maccPerms {
		modAccAddrs[authtypes.NewModuleAddress(acc).String()] = true
	}

	return modAccAddrs
}

// BlockedAddrs returns the addresses not allowed to receive external funds.
// The transfer module account may receive tokens it mints.
func (app *SimApp) BlockedAddrs() map[string]bool {
	blocked := app.ModuleAccountAddrs()
	delete(blocked, authtypes.NewModuleAddress(transfertypes.ModuleName).String())

	return blocked
}
