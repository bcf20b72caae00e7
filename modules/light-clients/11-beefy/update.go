package beefy

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/ChainSafe/gossamer/lib/trie"
	"github.com/ComposableFi/go-merkle-trees/merkle"
	"github.com/ComposableFi/go-merkle-trees/mmr"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/crypto"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// FrozenHeight is used to freeze a client when the conflicting height is not known.
var FrozenHeight = clienttypes.NewHeight(0, 1)

// TimestampExtrinsicKey is the extrinsics trie key of the timestamp extrinsic,
// the compact encoded index of the first extrinsic of a block.
var TimestampExtrinsicKey = []byte{0}

// parachainBlock is a verified parachain header.
type parachainBlock struct {
	height         clienttypes.Height
	consensusState *ConsensusState
}

// VerifyClientMessage checks that the clientMsg is a Header and verifies it:
// the optional signed commitment must be final and signed by a known authority
// set, and every parachain header must be proven against the resulting MMR root.
func (cs ClientState) VerifyClientMessage(
	_ sdk.Context, _ *codec.LegacyAmino, _ sdk.KVStore,
	clientMsg exported.ClientMessage,
) error {
	header, ok := clientMsg.(*Header)
	if !ok {
		return sdkerrors.Wrapf(clienttypes.ErrInvalidClientType, "expected type %T, got %T", &Header{}, clientMsg)
	}

	if err := header.ValidateBasic(); err != nil {
		return err
	}

	updated, err := cs.verifyMmrUpdate(header.MmrUpdateProof)
	if err != nil {
		return err
	}

	_, err = updated.verifyParachainHeaders(header)
	return err
}

// verifyMmrUpdate returns the client state implied by a verified MMR update
// proof. Commitments not newer than the latest beefy height leave the client
// state unchanged.
func (cs ClientState) verifyMmrUpdate(proof *MmrUpdateProof) (*ClientState, error) {
	updated := cs
	if proof == nil {
		return &updated, nil
	}

	var (
		commitment  = proof.SignedCommitment.Commitment
		signatures  = proof.SignedCommitment.Signatures
		authorities AuthoritySet
		rotated     bool
	)

	switch commitment.ValidatorSetId {
	case cs.Authority.Id:
		authorities = cs.Authority
	case cs.NextAuthoritySet.Id:
		authorities = cs.NextAuthoritySet
		rotated = true
	default:
		return nil, sdkerrors.Wrapf(ErrAuthoritySetUnknown, "validator set id %d", commitment.ValidatorSetId)
	}

	// recovering signers is expensive, check the threshold first
	if uint32(len(signatures)) < authorities.Threshold() {
		return nil, sdkerrors.Wrapf(ErrCommitmentNotFinal, "got %d signatures, need %d", len(signatures), authorities.Threshold())
	}

	commitmentHash, err := commitment.Hash()
	if err != nil {
		return nil, sdkerrors.Wrap(ErrInvalidCommitment, err.Error())
	}

	authorityLeaves := make([]merkle.Leaf, 0, len(signatures))
	seen := make(map[uint32]bool, len(signatures))
	for _, signature := range signatures {
		if signature.AuthorityIndex >= authorities.Len || seen[signature.AuthorityIndex] {
			return nil, sdkerrors.Wrapf(ErrInvalidCommitmentSignature, "invalid or duplicate authority index %d", signature.AuthorityIndex)
		}
		seen[signature.AuthorityIndex] = true

		pubkey, err := crypto.SigToPub(commitmentHash, signature.Signature)
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrInvalidCommitmentSignature, "authority %d: %s", signature.AuthorityIndex, err)
		}

		address := crypto.PubkeyToAddress(*pubkey)
		authorityLeaves = append(authorityLeaves, merkle.Leaf{
			Hash:  crypto.Keccak256(address[:]),
			Index: signature.AuthorityIndex,
		})
	}
	sort.Slice(authorityLeaves, func(i, j int) bool { return authorityLeaves[i].Index < authorityLeaves[j].Index })

	valid, err := merkle.NewProof(authorityLeaves, proof.AuthoritiesProof, authorities.Len, Keccak256{}).Verify(authorities.AuthorityRoot[:])
	if err != nil || !valid {
		return nil, sdkerrors.Wrapf(ErrAuthoritySetUnknown, "signers are not members of authority set %d", authorities.Id)
	}

	if commitment.BlockNumber <= cs.LatestBeefyHeight {
		return &updated, nil
	}

	mmrRoot, ok := commitment.MmrRoot()
	if !ok {
		return nil, sdkerrors.Wrap(ErrInvalidCommitment, "commitment payload does not carry an mmr root")
	}

	leafHash, err := proof.MmrLeaf.Hash()
	if err != nil {
		return nil, sdkerrors.Wrap(ErrFailedVerifyMMRLeaf, err.Error())
	}

	// the leaf proven is the latest leaf of the signed mmr
	mmrProof := mmr.NewProof(
		mmr.LeafIndexToMMRSize(proof.MmrLeafIndex), proof.MmrProof,
		[]mmr.Leaf{{Hash: leafHash, Index: proof.MmrLeafIndex}}, Keccak256{},
	)
	if !mmrProof.Verify(mmrRoot) {
		return nil, sdkerrors.Wrapf(ErrFailedVerifyMMRLeaf, "leaf %d is not committed to by the signed mmr root", proof.MmrLeafIndex)
	}

	updated.LatestBeefyHeight = commitment.BlockNumber
	updated.MmrRootHash = append([]byte(nil), mmrRoot...)
	if rotated {
		updated.Authority = cs.NextAuthoritySet
		updated.NextAuthoritySet = proof.MmrLeaf.BeefyNextAuthoritySet
	}

	return &updated, nil
}

// verifyParachainHeaders proves every parachain header of the header against
// the MMR root of the client and returns the consensus states they imply.
func (cs ClientState) verifyParachainHeaders(header *Header) ([]parachainBlock, error) {
	var (
		mmrLeaves = make([]mmr.Leaf, len(header.ParachainHeaders))
		blocks    = make([]parachainBlock, len(header.ParachainHeaders))
	)

	for i, ph := range header.ParachainHeaders {
		if ph.ParaId != cs.ParaId {
			return nil, sdkerrors.Wrapf(ErrInvalidParachainHeader, "para id %d does not match client para id %d", ph.ParaId, cs.ParaId)
		}

		parachainHeads, err := parachainHeadsRoot(ph)
		if err != nil {
			return nil, err
		}

		leafHash, err := ph.MmrLeafPartial.Leaf(parachainHeads).Hash()
		if err != nil {
			return nil, sdkerrors.Wrap(ErrFailedVerifyMMRLeaf, err.Error())
		}

		// the leaf of a relay chain block is appended at the next block
		leafIndex, err := cs.GetLeafIndexForBlockNumber(ph.MmrLeafPartial.ParentNumber + 1)
		if err != nil {
			return nil, err
		}

		mmrLeaves[i] = mmr.Leaf{Hash: leafHash, Index: uint64(leafIndex)}

		blocks[i], err = decodeParachainBlock(ph)
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(mmrLeaves, func(i, j int) bool { return mmrLeaves[i].Index < mmrLeaves[j].Index })

	if !mmr.NewProof(header.MmrSize, header.MmrProofs, mmrLeaves, Keccak256{}).Verify(cs.MmrRootHash) {
		return nil, sdkerrors.Wrap(ErrFailedVerifyMMRLeaf, "parachain headers are not committed to by the client mmr root")
	}

	return blocks, nil
}

// parachainHeadsRoot computes the root of the parachain heads tree from the
// proof of the parachain head.
func parachainHeadsRoot(ph *ParachainHeader) ([32]byte, error) {
	headsLeaf := make([]byte, 4, 4+len(ph.ParachainHeader))
	binary.LittleEndian.PutUint32(headsLeaf, ph.ParaId)
	headsLeaf = append(headsLeaf, ph.ParachainHeader...)

	headsProof := merkle.NewProof(
		[]merkle.Leaf{{Hash: crypto.Keccak256(headsLeaf), Index: ph.HeadsLeafIndex}},
		ph.ParachainHeadsProof, ph.HeadsTotalCount, Keccak256{},
	)

	root, err := headsProof.Root()
	if err != nil {
		return [32]byte{}, sdkerrors.Wrap(ErrInvalidParachainHeadsProof, err.Error())
	}

	var heads [32]byte
	copy(heads[:], root)
	return heads, nil
}

// decodeParachainBlock decodes the parachain header and proves its timestamp
// extrinsic against the extrinsics root.
func decodeParachainBlock(ph *ParachainHeader) (parachainBlock, error) {
	h, err := DecodeParachainHeader(ph.ParachainHeader)
	if err != nil {
		return parachainBlock{}, sdkerrors.Wrap(ErrInvalidParachainHeader, err.Error())
	}

	ok, err := trie.VerifyProof(ph.ExtrinsicProof, h.ExtrinsicsRoot[:], []trie.Pair{{Key: TimestampExtrinsicKey, Value: ph.TimestampExtrinsic}})
	if err != nil || !ok {
		return parachainBlock{}, sdkerrors.Wrapf(ErrInvalidTimestampProof, "parachain block %d", h.Number)
	}

	timestamp, err := DecodeExtrinsicTimestamp(ph.TimestampExtrinsic)
	if err != nil {
		return parachainBlock{}, sdkerrors.Wrap(ErrInvalidTimestampProof, err.Error())
	}

	return parachainBlock{
		height:         heightOf(h),
		consensusState: NewConsensusState(timestamp, append([]byte(nil), h.StateRoot[:]...)),
	}, nil
}

// GetLeafIndexForBlockNumber returns the index of the MMR leaf appended at
// the relay chain block blockNumber.
func (cs ClientState) GetLeafIndexForBlockNumber(blockNumber uint32) (uint32, error) {
	if cs.BeefyActivationBlock == 0 {
		if blockNumber == 0 {
			return 0, sdkerrors.Wrap(ErrInvalidHeaderHeight, "the genesis block has no mmr leaf")
		}
		return blockNumber - 1, nil
	}

	if blockNumber < cs.BeefyActivationBlock {
		return 0, sdkerrors.Wrapf(ErrInvalidHeaderHeight, "block %d precedes beefy activation at %d", blockNumber, cs.BeefyActivationBlock)
	}
	return blockNumber - cs.BeefyActivationBlock, nil
}

// GetBlockNumberForLeaf returns the relay chain block which appended the MMR leaf at leafIndex.
func (cs ClientState) GetBlockNumberForLeaf(leafIndex uint32) uint32 {
	if cs.BeefyActivationBlock == 0 {
		return leafIndex + 1
	}
	return cs.BeefyActivationBlock + leafIndex
}

// CheckForMisbehaviour detects a parachain header conflicting with a stored
// consensus state of the same height.
func (cs ClientState) CheckForMisbehaviour(_ sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg exported.ClientMessage) bool {
	header, ok := clientMsg.(*Header)
	if !ok {
		return false
	}

	_, found := conflictingHeight(cdc, clientStore, header)
	return found
}

// conflictingHeight returns the height of the first parachain header whose
// consensus state differs from the one stored at its height.
func conflictingHeight(cdc *codec.LegacyAmino, clientStore sdk.KVStore, header *Header) (clienttypes.Height, bool) {
	for _, ph := range header.ParachainHeaders {
		block, err := decodeParachainBlock(ph)
		if err != nil {
			continue
		}

		if prev, found := GetConsensusState(clientStore, cdc, block.height); found && !prev.Equal(block.consensusState) {
			return block.height, true
		}
	}
	return clienttypes.Height{}, false
}

// UpdateStateOnMisbehaviour freezes the client at the conflicting height. This
// method should only be called when misbehaviour is detected as it does not
// perform any misbehaviour checks.
func (cs ClientState) UpdateStateOnMisbehaviour(_ sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg exported.ClientMessage) {
	cs.FrozenHeight = FrozenHeight
	if header, ok := clientMsg.(*Header); ok {
		if height, found := conflictingHeight(cdc, clientStore, header); found {
			cs.FrozenHeight = height
		}
	}

	setClientState(clientStore, cdc, &cs)
}

// UpdateState moves the client to the MMR root of the header and stores a
// consensus state for every parachain header. Parachain heights which already
// have a consensus state are left untouched. It assumes the header was
// verified with VerifyClientMessage.
func (cs ClientState) UpdateState(ctx sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg exported.ClientMessage) []exported.Height {
	header, ok := clientMsg.(*Header)
	if !ok {
		panic(fmt.Errorf("expected type %T, got %T", &Header{}, clientMsg))
	}

	updated, err := cs.verifyMmrUpdate(header.MmrUpdateProof)
	if err != nil {
		panic(err)
	}

	blocks, err := updated.verifyParachainHeaders(header)
	if err != nil {
		panic(err)
	}

	heights := make([]exported.Height, 0, len(blocks))
	for _, block := range blocks {
		heights = append(heights, block.height)

		if _, found := GetConsensusState(clientStore, cdc, block.height); found {
			continue
		}

		setConsensusState(clientStore, cdc, block.consensusState, block.height)
		setConsensusMetadata(ctx, clientStore, block.height)

		if block.height.GT(updated.LatestHeight) {
			updated.LatestHeight = block.height
		}
	}

	setClientState(clientStore, cdc, updated)

	return heights
}
