package beefy

import (
	"bytes"
	"strings"

	"github.com/ChainSafe/gossamer/lib/trie"
	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState tracks a parachain through the BEEFY commitments of its relay chain.
type ClientState struct {
	ChainId string `json:"chain_id" yaml:"chain_id"`
	// parachain id of the tracked chain on its relay chain
	ParaId uint32 `json:"para_id" yaml:"para_id"`
	// latest relay chain block finalized by a verified commitment
	LatestBeefyHeight uint32 `json:"latest_beefy_height" yaml:"latest_beefy_height"`
	// MMR root signed at LatestBeefyHeight
	MmrRootHash []byte `json:"mmr_root_hash" yaml:"mmr_root_hash"`
	// relay chain block at which BEEFY was activated, zero for genesis
	BeefyActivationBlock uint32       `json:"beefy_activation_block" yaml:"beefy_activation_block"`
	Authority            AuthoritySet `json:"authority" yaml:"authority"`
	NextAuthoritySet     AuthoritySet `json:"next_authority_set" yaml:"next_authority_set"`
	// latest parachain height with a consensus state
	LatestHeight clienttypes.Height `json:"latest_height" yaml:"latest_height"`
	// parachain height at which the client was frozen due to a misbehaviour
	FrozenHeight clienttypes.Height `json:"frozen_height" yaml:"frozen_height"`
}

// NewClientState creates a new ClientState instance
func NewClientState(
	chainID string, paraID, latestBeefyHeight uint32, mmrRootHash []byte,
	authority, nextAuthoritySet AuthoritySet, latestHeight clienttypes.Height,
) *ClientState {
	return &ClientState{
		ChainId:           chainID,
		ParaId:            paraID,
		LatestBeefyHeight: latestBeefyHeight,
		MmrRootHash:       mmrRootHash,
		Authority:         authority,
		NextAuthoritySet:  nextAuthoritySet,
		LatestHeight:      latestHeight,
		FrozenHeight:      clienttypes.ZeroHeight(),
	}
}

// ClientType is beefy.
func (cs ClientState) ClientType() string {
	return exported.Beefy
}

// GetLatestHeight returns the latest parachain height.
func (cs ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// Validate performs a basic validation of the client state fields.
func (cs ClientState) Validate() error {
	if strings.TrimSpace(cs.ChainId) == "" {
		return sdkerrors.Wrap(clienttypes.ErrInvalidClient, "chain id cannot be empty string")
	}
	if cs.LatestBeefyHeight == 0 {
		return sdkerrors.Wrap(ErrInvalidHeaderHeight, "latest beefy height cannot be zero")
	}
	if len(cs.MmrRootHash) != 32 {
		return sdkerrors.Wrapf(ErrInvalidMmrRoot, "expected 32 bytes, got %d", len(cs.MmrRootHash))
	}
	if err := cs.Authority.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "current authority set")
	}
	if err := cs.NextAuthoritySet.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(err, "next authority set")
	}
	if cs.NextAuthoritySet.Id <= cs.Authority.Id {
		return sdkerrors.Wrapf(ErrInvalidAuthoritySet, "next authority set id must be greater than the current one (%d <= %d)",
			cs.NextAuthoritySet.Id, cs.Authority.Id)
	}
	if cs.LatestHeight.RevisionNumber != revisionNumber || cs.LatestHeight.RevisionHeight == 0 {
		return sdkerrors.Wrapf(ErrInvalidHeaderHeight, "invalid latest parachain height %s", cs.LatestHeight)
	}
	return nil
}

// Status returns the status of the beefy client.
// The client may be:
// - Active: FrozenHeight is zero and the latest consensus state exists
// - Frozen: Frozen Height is not zero
// - Expired: the consensus state of the latest height is missing
func (cs ClientState) Status(_ sdk.Context, clientStore sdk.KVStore, cdc *codec.LegacyAmino) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	if _, found := GetConsensusState(clientStore, cdc, cs.GetLatestHeight()); !found {
		return exported.Expired
	}

	return exported.Active
}

// ZeroCustomFields returns a ClientState that is a copy of the current ClientState
// with all client customizable fields zeroed out
func (cs ClientState) ZeroCustomFields() exported.ClientState {
	return &ClientState{
		ChainId:              cs.ChainId,
		ParaId:               cs.ParaId,
		BeefyActivationBlock: cs.BeefyActivationBlock,
		LatestHeight:         cs.LatestHeight,
	}
}

// GetTimestampAtHeight returns the timestamp in nanoseconds of the consensus state at the given height.
func (cs ClientState) GetTimestampAtHeight(
	_ sdk.Context,
	clientStore sdk.KVStore,
	cdc *codec.LegacyAmino,
	height exported.Height,
) (uint64, error) {
	consState, found := GetConsensusState(clientStore, cdc, height)
	if !found {
		return 0, sdkerrors.Wrapf(clienttypes.ErrConsensusStateNotFound, "height (%s)", height)
	}
	return consState.GetTimestamp(), nil
}

// Initialize checks that the initial consensus state is a beefy consensus state and
// sets the client state, consensus state and associated metadata in the provided client store.
func (cs ClientState) Initialize(ctx sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, consState exported.ConsensusState) error {
	consensusState, ok := consState.(*ConsensusState)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidConsensus, "invalid initial consensus state. expected type: %T, got: %T",
			&ConsensusState{}, consState)
	}

	if err := consensusState.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(clienttypes.ErrInvalidConsensus, err.Error())
	}

	setClientState(clientStore, cdc, &cs)
	setConsensusState(clientStore, cdc, consensusState, cs.GetLatestHeight())
	setConsensusMetadata(ctx, clientStore, cs.GetLatestHeight())

	return nil
}

// VerifyMembership verifies a substrate state trie proof of the value stored
// under the key of path in the parachain state at height.
func (cs ClientState) VerifyMembership(
	ctx sdk.Context,
	clientStore sdk.KVStore,
	cdc *codec.LegacyAmino,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
	value []byte,
) error {
	if len(value) == 0 {
		return sdkerrors.Wrap(ErrInvalidProof, "value cannot be empty")
	}

	nodes, key, consensusState, err := cs.produceVerificationArgs(ctx, clientStore, cdc, height, delayTimePeriod, delayBlockPeriod, proof, path)
	if err != nil {
		return err
	}

	ok, err := trie.VerifyProof(nodes, consensusState.Root, []trie.Pair{{Key: key, Value: value}})
	if err != nil {
		return sdkerrors.Wrapf(ErrInvalidProof, "key %s: %s", path, err)
	}
	if !ok {
		return sdkerrors.Wrapf(ErrInvalidProof, "value of key %s does not match", path)
	}

	return nil
}

// VerifyNonMembership verifies a substrate state trie proof that nothing is
// stored under the key of path in the parachain state at height.
func (cs ClientState) VerifyNonMembership(
	ctx sdk.Context,
	clientStore sdk.KVStore,
	cdc *codec.LegacyAmino,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) error {
	nodes, key, consensusState, err := cs.produceVerificationArgs(ctx, clientStore, cdc, height, delayTimePeriod, delayBlockPeriod, proof, path)
	if err != nil {
		return err
	}

	partial := trie.NewEmptyTrie()
	if err := partial.LoadFromProof(nodes, consensusState.Root); err != nil {
		return sdkerrors.Wrap(ErrInvalidProof, err.Error())
	}

	if value := partial.Get(key); len(value) != 0 {
		return sdkerrors.Wrapf(ErrInvalidProof, "key %s is present", path)
	}

	return nil
}

// produceVerificationArgs performs the checks shared by membership and non-membership
// verification and decodes the proof into its trie nodes.
func (cs ClientState) produceVerificationArgs(
	ctx sdk.Context,
	clientStore sdk.KVStore,
	cdc *codec.LegacyAmino,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path exported.Path,
) ([][]byte, []byte, *ConsensusState, error) {
	if !cs.FrozenHeight.IsZero() {
		return nil, nil, nil, clienttypes.ErrClientFrozen
	}

	if cs.GetLatestHeight().LT(height) {
		return nil, nil, nil, sdkerrors.Wrapf(
			ibcerrors.ErrInvalidHeight,
			"client state height < proof height (%s < %s), please ensure the client has been updated", cs.GetLatestHeight(), height,
		)
	}

	if err := verifyDelayPeriodPassed(ctx, clientStore, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return nil, nil, nil, err
	}

	merklePath, ok := path.(commitmenttypes.MerklePath)
	if !ok {
		return nil, nil, nil, sdkerrors.Wrapf(ibcerrors.ErrInvalidType, "expected %T, got %T", commitmenttypes.MerklePath{}, path)
	}

	nodes, err := DecodeStateProof(proof)
	if err != nil {
		return nil, nil, nil, sdkerrors.Wrap(ErrInvalidProof, err.Error())
	}

	consensusState, found := GetConsensusState(clientStore, cdc, height)
	if !found {
		return nil, nil, nil, sdkerrors.Wrap(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client")
	}

	return nodes, StateKey(merklePath), consensusState, nil
}

// StateKey returns the parachain storage key of path: the concatenation of
// the commitment prefix and the path.
func StateKey(path commitmenttypes.MerklePath) []byte {
	return bytes.Join(path.GetKeyPath(), nil)
}

// DecodeStateProof decodes a scale encoded list of trie nodes.
func DecodeStateProof(proof []byte) ([][]byte, error) {
	if len(proof) == 0 {
		return nil, sdkerrors.Wrap(ErrInvalidProof, "proof cannot be empty")
	}

	var nodes [][]byte
	if err := substrate.DecodeFromBytes(proof, &nodes); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, sdkerrors.Wrap(ErrInvalidProof, "proof has no trie nodes")
	}
	return nodes, nil
}

// VerifyUpgradeAndUpdateState returns an error since the relay chain does not
// commit to upgraded beefy clients.
func (cs ClientState) VerifyUpgradeAndUpdateState(
	_ sdk.Context,
	_ *codec.LegacyAmino,
	_ sdk.KVStore,
	_ exported.ClientState,
	_ exported.ConsensusState,
	_, _ []byte,
) error {
	return sdkerrors.Wrap(ErrUpgradeNotSupported, "cannot upgrade beefy client")
}
