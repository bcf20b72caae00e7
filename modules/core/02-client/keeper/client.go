package keeper

import (
	"fmt"

	metrics "github.com/armon/go-metrics"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// CreateClient generates a new client identifier and isolated prefix store for the provided client state.
// The client state is responsible for setting any client-specific data in the store via the Initialize method.
// This includes the client state, initial consensus state and any associated metadata.
func (k Keeper) CreateClient(
	ctx sdk.Context, clientState exported.ClientState, consensusState exported.ConsensusState,
) (string, error) {
	if err := clientState.Validate(); err != nil {
		return "", sdkerrors.Wrap(types.ErrInvalidClient, err.Error())
	}

	params := k.GetParams(ctx)
	if !params.IsAllowedClient(clientState.ClientType()) {
		return "", sdkerrors.Wrapf(
			types.ErrInvalidClientType,
			"client state type %s is not registered in the allowlist", clientState.ClientType(),
		)
	}

	if consensusState.ClientType() != clientState.ClientType() {
		return "", sdkerrors.Wrapf(
			types.ErrInvalidConsensus,
			"consensus state type %s does not match client state type %s", consensusState.ClientType(), clientState.ClientType(),
		)
	}

	clientID := k.GenerateClientIdentifier(ctx, clientState.ClientType())

	if err := clientState.Initialize(ctx, k.cdc, k.ClientStore(ctx, clientID), consensusState); err != nil {
		return "", err
	}

	if status := k.GetClientStatus(ctx, clientID); status != exported.Active {
		return "", sdkerrors.Wrapf(types.ErrClientNotActive, "cannot create client (%s) with status %s", clientID, status)
	}

	k.Logger(ctx).Info("client created at height", "client-id", clientID, "height", clientState.GetLatestHeight().String())

	defer func() {
		telemetry.IncrCounterWithLabels(
			[]string{"ibc", "client", "create"},
			1,
			[]metrics.Label{telemetry.NewLabel(types.LabelClientType, clientState.ClientType())},
		)
	}()

	EmitCreateClientEvent(ctx, clientID, clientState)

	return clientID, nil
}

// UpdateClient updates the consensus state and the state root from a provided header.
// Verified misbehaviour freezes the client instead of applying the update.
func (k Keeper) UpdateClient(ctx sdk.Context, clientID string, clientMsg exported.ClientMessage) error {
	clientState, err := k.activeClient(ctx, clientID)
	if err != nil {
		return err
	}

	clientStore := k.ClientStore(ctx, clientID)

	if err := clientState.VerifyClientMessage(ctx, k.cdc, clientStore, clientMsg); err != nil {
		return sdkerrors.Wrapf(types.ErrClientVerificationFailed, "client (%s): %s", clientID, err)
	}

	foundMisbehaviour := clientState.CheckForMisbehaviour(ctx, k.cdc, clientStore, clientMsg)
	if foundMisbehaviour {
		clientState.UpdateStateOnMisbehaviour(ctx, k.cdc, clientStore, clientMsg)

		k.Logger(ctx).Info("client frozen due to misbehaviour", "client-id", clientID)

		defer func() {
			telemetry.IncrCounterWithLabels(
				[]string{"ibc", "client", "misbehaviour"},
				1,
				[]metrics.Label{
					telemetry.NewLabel(types.LabelClientType, clientState.ClientType()),
					telemetry.NewLabel(types.LabelClientID, clientID),
					telemetry.NewLabel(types.LabelMsgType, "update"),
				},
			)
		}()

		EmitSubmitMisbehaviourEvent(ctx, clientID, clientState)

		return nil
	}

	consensusHeights := clientState.UpdateState(ctx, k.cdc, clientStore, clientMsg)

	k.Logger(ctx).Info("client state updated", "client-id", clientID, "heights", fmt.Sprintf("%v", consensusHeights))

	defer func() {
		telemetry.IncrCounterWithLabels(
			[]string{"ibc", "client", "update"},
			1,
			[]metrics.Label{
				telemetry.NewLabel(types.LabelClientType, clientState.ClientType()),
				telemetry.NewLabel(types.LabelClientID, clientID),
				telemetry.NewLabel(types.LabelUpdateType, "msg"),
			},
		)
	}()

	EmitUpdateClientEvent(ctx, clientID, clientState.ClientType(), consensusHeights)

	return nil
}

// CheckMisbehaviour verifies the provided evidence against the client and reports
// whether it proves misbehaviour. The client store is not modified.
func (k Keeper) CheckMisbehaviour(ctx sdk.Context, clientID string, evidence exported.ClientMessage) (bool, error) {
	clientState, err := k.activeClient(ctx, clientID)
	if err != nil {
		return false, err
	}

	// verification may cache intermediate results, discard every write
	cacheCtx, _ := ctx.CacheContext()
	clientStore := k.ClientStore(cacheCtx, clientID)

	if err := clientState.VerifyClientMessage(cacheCtx, k.cdc, clientStore, evidence); err != nil {
		return false, sdkerrors.Wrapf(types.ErrClientVerificationFailed, "client (%s): %s", clientID, err)
	}

	return clientState.CheckForMisbehaviour(cacheCtx, k.cdc, clientStore, evidence), nil
}

// SubmitMisbehaviour freezes the client if the provided evidence is valid
// misbehaviour. Evidence which does not prove misbehaviour is rejected.
func (k Keeper) SubmitMisbehaviour(ctx sdk.Context, clientID string, misbehaviour exported.ClientMessage) error {
	clientState, err := k.activeClient(ctx, clientID)
	if err != nil {
		return err
	}

	clientStore := k.ClientStore(ctx, clientID)

	if err := clientState.VerifyClientMessage(ctx, k.cdc, clientStore, misbehaviour); err != nil {
		return sdkerrors.Wrap(types.ErrInvalidMisbehaviour, err.Error())
	}

	if !clientState.CheckForMisbehaviour(ctx, k.cdc, clientStore, misbehaviour) {
		return sdkerrors.Wrapf(types.ErrInvalidMisbehaviour, "evidence does not prove misbehaviour of client (%s)", clientID)
	}

	clientState.UpdateStateOnMisbehaviour(ctx, k.cdc, clientStore, misbehaviour)

	k.Logger(ctx).Info("client frozen due to misbehaviour", "client-id", clientID)

	defer func() {
		telemetry.IncrCounterWithLabels(
			[]string{"ibc", "client", "misbehaviour"},
			1,
			[]metrics.Label{
				telemetry.NewLabel(types.LabelClientType, clientState.ClientType()),
				telemetry.NewLabel(types.LabelClientID, clientID),
				telemetry.NewLabel(types.LabelMsgType, "evidence"),
			},
		)
	}()

	EmitSubmitMisbehaviourEvent(ctx, clientID, clientState)

	return nil
}

// UpgradeClient upgrades the client to a new client state if this new client was committed to
// by the old client at the specified upgrade height
func (k Keeper) UpgradeClient(ctx sdk.Context, clientID string, upgradedClient exported.ClientState, upgradedConsState exported.ConsensusState,
	proofUpgradeClient, proofUpgradeConsState []byte,
) error {
	clientState, err := k.activeClient(ctx, clientID)
	if err != nil {
		return err
	}

	// last height of current counterparty chain must be client's latest height
	lastHeight := clientState.GetLatestHeight()
	if !upgradedClient.GetLatestHeight().GT(lastHeight) {
		return sdkerrors.Wrapf(types.ErrInvalidHeight, "upgraded client height %s must be at greater than current client height %s",
			upgradedClient.GetLatestHeight(), lastHeight)
	}

	if err := clientState.VerifyUpgradeAndUpdateState(ctx, k.cdc, k.ClientStore(ctx, clientID),
		upgradedClient, upgradedConsState, proofUpgradeClient, proofUpgradeConsState,
	); err != nil {
		return sdkerrors.Wrapf(err, "cannot upgrade client with ID %s", clientID)
	}

	k.Logger(ctx).Info("client state upgraded", "client-id", clientID, "height", upgradedClient.GetLatestHeight().String())

	defer func() {
		telemetry.IncrCounterWithLabels(
			[]string{"ibc", "client", "upgrade"},
			1,
			[]metrics.Label{
				telemetry.NewLabel(types.LabelClientType, upgradedClient.ClientType()),
				telemetry.NewLabel(types.LabelClientID, clientID),
			},
		)
	}()

	EmitUpgradeClientEvent(ctx, clientID, upgradedClient)

	return nil
}

// ScheduleIBCClientUpgrade commits the client state counterparties should upgrade
// to at the given plan height. Custom fields are zeroed before storage; the
// upgraded consensus state is written by the host at the end of the plan height.
func (k Keeper) ScheduleIBCClientUpgrade(ctx sdk.Context, planHeight int64, upgradedClientState exported.ClientState) error {
	if planHeight <= ctx.BlockHeight() {
		return sdkerrors.Wrapf(types.ErrInvalidUpgradeClient, "plan height %d must be in the future, current height %d", planHeight, ctx.BlockHeight())
	}

	bz, err := types.MarshalClientState(k.cdc, upgradedClientState.ZeroCustomFields())
	if err != nil {
		return sdkerrors.Wrap(types.ErrInvalidUpgradeClient, err.Error())
	}

	if err := k.upgradeKeeper.SetUpgradedClient(ctx, planHeight, bz); err != nil {
		return err
	}

	EmitScheduleIBCClientUpgradeEvent(ctx, planHeight)

	return nil
}

// SetUpgradedConsensusState stores the host's consensus state at the last height
// of the current revision, completing a scheduled client upgrade.
func (k Keeper) SetUpgradedConsensusState(ctx sdk.Context, planHeight int64, consensusState exported.ConsensusState) error {
	bz, err := types.MarshalConsensusState(k.cdc, consensusState)
	if err != nil {
		return sdkerrors.Wrap(types.ErrInvalidConsensus, err.Error())
	}

	return k.upgradeKeeper.SetUpgradedConsensusState(ctx, planHeight, bz)
}

// GetUpgradedClient returns the client state committed for the upgrade plan height.
func (k Keeper) GetUpgradedClient(ctx sdk.Context, planHeight int64) (exported.ClientState, bool) {
	bz, found := k.upgradeKeeper.GetUpgradedClient(ctx, planHeight)
	if !found {
		return nil, false
	}

	clientState, err := types.UnmarshalClientState(k.cdc, bz)
	if err != nil {
		return nil, false
	}
	return clientState, true
}

// activeClient returns the stored client state if the client exists and is Active.
func (k Keeper) activeClient(ctx sdk.Context, clientID string) (exported.ClientState, error) {
	clientState, found := k.GetClientState(ctx, clientID)
	if !found {
		return nil, sdkerrors.Wrapf(types.ErrClientNotFound, "cannot update client with ID %s", clientID)
	}

	switch status := clientState.Status(ctx, k.ClientStore(ctx, clientID), k.cdc); status {
	case exported.Active:
		return clientState, nil
	case exported.Frozen:
		return nil, sdkerrors.Wrapf(types.ErrClientFrozen, "client (%s) is frozen", clientID)
	default:
		return nil, sdkerrors.Wrapf(types.ErrClientNotActive, "client (%s) status is %s", clientID, status)
	}
}
