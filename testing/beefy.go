package ibctesting

import (
	"crypto/ecdsa"
	"encoding/binary"
	"testing"
	"time"

	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ComposableFi/go-merkle-trees/merkle"
	"github.com/ComposableFi/go-merkle-trees/mmr"
	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	beefy "github.com/ComposableFi/ibc-core/modules/light-clients/11-beefy"
)

const (
	// DefaultParaID is the parachain id of the chain tracked by beefy test clients
	DefaultParaID uint32 = 2000

	// BeefyActivationBlock is the relay chain block appending the first mmr leaf
	BeefyActivationBlock uint32 = 10

	beefyAuthoritySize = 4
	paraBlockTime      = 6 * time.Second
)

// BeefyAuthorities is a BEEFY authority set with its secp256k1 keys.
type BeefyAuthorities struct {
	tb testing.TB

	Id   uint64
	Keys []*ecdsa.PrivateKey
}

// NewBeefyAuthorities generates an authority set of beefyAuthoritySize members.
func NewBeefyAuthorities(tb testing.TB, id uint64) *BeefyAuthorities {
	tb.Helper()

	keys := make([]*ecdsa.PrivateKey, beefyAuthoritySize)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(tb, err)
		keys[i] = key
	}

	return &BeefyAuthorities{tb: tb, Id: id, Keys: keys}
}

func (a *BeefyAuthorities) leaves() [][]byte {
	leaves := make([][]byte, len(a.Keys))
	for i, key := range a.Keys {
		address := crypto.PubkeyToAddress(key.PublicKey)
		leaves[i] = crypto.Keccak256(address[:])
	}
	return leaves
}

// Set returns the authority set committed to by the authority keys.
func (a *BeefyAuthorities) Set() beefy.AuthoritySet {
	tree, err := merkle.NewTree(beefy.Keccak256{}).FromLeaves(a.leaves())
	require.NoError(a.tb, err)

	set := beefy.AuthoritySet{Id: a.Id, Len: uint32(len(a.Keys))}
	copy(set.AuthorityRoot[:], tree.Root())
	return set
}

// Sign signs the commitment with the authorities at the given indices, which
// must be sorted, and returns the signed commitment with its authority proof.
func (a *BeefyAuthorities) Sign(commitment beefy.Commitment, indices ...uint32) (beefy.SignedCommitment, [][]byte) {
	hash, err := commitment.Hash()
	require.NoError(a.tb, err)

	signed := beefy.SignedCommitment{Commitment: commitment}
	for _, i := range indices {
		sig, err := crypto.Sign(hash, a.Keys[i])
		require.NoError(a.tb, err)
		signed.Signatures = append(signed.Signatures, beefy.CommitmentSignature{Signature: sig, AuthorityIndex: i})
	}

	tree, err := merkle.NewTree(beefy.Keccak256{}).FromLeaves(a.leaves())
	require.NoError(a.tb, err)

	return signed, tree.Proof(indices).ProofHashes()
}

// All returns the indices of every authority.
func (a *BeefyAuthorities) All() []uint32 {
	indices := make([]uint32, len(a.Keys))
	for i := range indices {
		indices[i] = uint32(i)
	}
	return indices
}

// Beefy is a testing helper simulating a relay chain finalizing a parachain
// with BEEFY. It holds an mmr of at most two leaves, enough for a client to
// be created and updated twice.
type Beefy struct {
	tb testing.TB

	ChainID         string
	ParaID          uint32
	BeefyHeight     uint32
	ParaHeight      uint64
	Time            time.Time
	StateRoot       []byte
	MmrRoot         []byte
	Authorities     *BeefyAuthorities
	NextAuthorities *BeefyAuthorities

	mmrLeaves [][]byte
}

// NewBeefy returns a relay chain whose next block activates BEEFY and a
// parachain at height 1.
func NewBeefy(tb testing.TB, chainID string) *Beefy {
	tb.Helper()

	return &Beefy{
		tb:              tb,
		ChainID:         chainID,
		ParaID:          DefaultParaID,
		BeefyHeight:     BeefyActivationBlock - 1,
		ParaHeight:      1,
		Time:            time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
		StateRoot:       crypto.Keccak256([]byte("genesis state")),
		MmrRoot:         crypto.Keccak256([]byte("genesis mmr")),
		Authorities:     NewBeefyAuthorities(tb, 0),
		NextAuthorities: NewBeefyAuthorities(tb, 1),
	}
}

// ClientState returns a beefy client state trusting the current authorities.
func (b *Beefy) ClientState() *beefy.ClientState {
	clientState := beefy.NewClientState(
		b.ChainID, b.ParaID, b.BeefyHeight, b.MmrRoot,
		b.Authorities.Set(), b.NextAuthorities.Set(), b.GetHeight(),
	)
	clientState.BeefyActivationBlock = BeefyActivationBlock
	return clientState
}

// ConsensusState returns the consensus state of the latest parachain block.
func (b *Beefy) ConsensusState() *beefy.ConsensusState {
	return beefy.NewConsensusState(b.Time, b.StateRoot)
}

// GetHeight returns the latest parachain height.
func (b *Beefy) GetHeight() clienttypes.Height {
	return clienttypes.NewHeight(0, b.ParaHeight)
}

// CreateClient creates a beefy client on the provided chain.
func (b *Beefy) CreateClient(chain *TestChain) string {
	msg := clienttypes.NewMsgCreateClient(b.ClientState(), b.ConsensusState(), chain.GetSenderAddress())

	events, err := chain.SendMsgs(msg)
	require.NoError(b.tb, err)

	clientID, err := ParseClientIDFromEvents(events)
	require.NoError(b.tb, err)

	return clientID
}

// UpdateClient finalizes a new parachain block committing to stateRoot and
// updates the given client to it.
func (b *Beefy) UpdateClient(chain *TestChain, clientID string, stateRoot []byte) {
	msg := clienttypes.NewMsgUpdateClient(clientID, b.NextHeader(stateRoot), chain.GetSenderAddress())

	_, err := chain.SendMsgs(msg)
	require.NoError(b.tb, err)
}

// NextHeader finalizes the next parachain block, committing to stateRoot,
// with a commitment signed by the current authorities.
func (b *Beefy) NextHeader(stateRoot []byte) *beefy.Header {
	b.ParaHeight++
	b.Time = b.Time.Add(paraBlockTime)
	b.StateRoot = stateRoot

	return b.CreateHeader(b.ParaHeight, stateRoot, b.Time, false)
}

// CreateHeader finalizes a parachain block in a new relay chain block. The
// commitment is signed by the next authority set when rotate is true, which
// then becomes the current set.
func (b *Beefy) CreateHeader(paraHeight uint64, stateRoot []byte, timestamp time.Time, rotate bool) *beefy.Header {
	require.Less(b.tb, len(b.mmrLeaves), 2, "the simulated mmr holds at most two leaves")

	signers, next := b.Authorities, b.NextAuthorities
	if rotate {
		signers, next = b.NextAuthorities, NewBeefyAuthorities(b.tb, b.NextAuthorities.Id+1)
	}

	blockNumber := b.BeefyHeight + 1
	ph, heads := b.parachainHeader(paraHeight, stateRoot, timestamp)
	ph.MmrLeafPartial = beefy.MmrLeafPartial{
		ParentNumber:          blockNumber - 1,
		ParentHash:            substrate.NewHash(crypto.Keccak256(binaryUint32(blockNumber - 1))),
		BeefyNextAuthoritySet: next.Set(),
	}

	leaf := ph.MmrLeafPartial.Leaf(heads)
	leafHash, err := leaf.Hash()
	require.NoError(b.tb, err)

	leafIndex := uint64(len(b.mmrLeaves))
	b.mmrLeaves = append(b.mmrLeaves, leafHash)
	mmrProof := b.mmrProof(leafIndex)
	b.MmrRoot = b.mmrRoot()

	commitment := beefy.Commitment{
		Payload:        []beefy.PayloadItem{{PayloadId: beefy.MmrRootPayloadID, PayloadData: b.MmrRoot}},
		BlockNumber:    blockNumber,
		ValidatorSetId: signers.Id,
	}
	signed, authoritiesProof := signers.Sign(commitment, signers.All()...)

	b.BeefyHeight = blockNumber
	if rotate {
		b.Authorities, b.NextAuthorities = b.NextAuthorities, next
	}

	return &beefy.Header{
		MmrUpdateProof: &beefy.MmrUpdateProof{
			MmrLeaf:          leaf,
			MmrLeafIndex:     leafIndex,
			MmrProof:         mmrProof,
			SignedCommitment: signed,
			AuthoritiesProof: authoritiesProof,
		},
		ParachainHeaders: []*beefy.ParachainHeader{ph},
		MmrProofs:        mmrProof,
		MmrSize:          mmr.LeafIndexToMMRSize(leafIndex),
	}
}

// parachainHeader builds the proofs of a parachain block except its mmr leaf
// and returns the root of the parachain heads tree including it.
func (b *Beefy) parachainHeader(paraHeight uint64, stateRoot []byte, timestamp time.Time) (*beefy.ParachainHeader, [32]byte) {
	extrinsic := b.TimestampExtrinsic(timestamp)
	extrinsicProof, extrinsicsRoot := TrieProof(b.tb, beefy.TimestampExtrinsicKey, extrinsic)

	headerBz, err := substrate.EncodeToBytes(substrate.Header{
		ParentHash:     substrate.NewHash(crypto.Keccak256(binaryUint32(uint32(paraHeight - 1)))),
		Number:         substrate.BlockNumber(paraHeight),
		StateRoot:      substrate.NewHash(stateRoot),
		ExtrinsicsRoot: substrate.NewHash(extrinsicsRoot),
	})
	require.NoError(b.tb, err)

	// the relay chain also includes the head of a sibling parachain
	headsLeaves := [][]byte{
		crypto.Keccak256(append(binaryUint32(b.ParaID), headerBz...)),
		crypto.Keccak256(append(binaryUint32(b.ParaID+1), []byte("sibling head")...)),
	}
	tree, err := merkle.NewTree(beefy.Keccak256{}).FromLeaves(headsLeaves)
	require.NoError(b.tb, err)

	var heads [32]byte
	copy(heads[:], tree.Root())

	return &beefy.ParachainHeader{
		ParachainHeader:     headerBz,
		ParaId:              b.ParaID,
		ParachainHeadsProof: tree.Proof([]uint32{0}).ProofHashes(),
		HeadsLeafIndex:      0,
		HeadsTotalCount:     uint32(len(headsLeaves)),
		ExtrinsicProof:      extrinsicProof,
		TimestampExtrinsic:  extrinsic,
	}, heads
}

// TimestampExtrinsic returns an encoded timestamp.set extrinsic.
func (b *Beefy) TimestampExtrinsic(timestamp time.Time) []byte {
	args, err := substrate.EncodeToBytes(substrate.NewUCompactFromUInt(uint64(timestamp.UnixMilli())))
	require.NoError(b.tb, err)

	bz, err := substrate.EncodeToBytes(substrate.NewExtrinsic(substrate.Call{
		CallIndex: substrate.CallIndex{SectionIndex: 3, MethodIndex: 0},
		Args:      args,
	}))
	require.NoError(b.tb, err)
	return bz
}

// mmrRoot returns the root of the single peak mmr.
func (b *Beefy) mmrRoot() []byte {
	if len(b.mmrLeaves) == 1 {
		return b.mmrLeaves[0]
	}
	return beefy.Keccak256{}.Merge(b.mmrLeaves[0], b.mmrLeaves[1]).([]byte)
}

// mmrProof returns the proof of the leaf at leafIndex, the sibling leaf if any.
func (b *Beefy) mmrProof(leafIndex uint64) [][]byte {
	if len(b.mmrLeaves) == 1 {
		return nil
	}
	return [][]byte{b.mmrLeaves[1-leafIndex]}
}

// StateProof returns a scale encoded proof of value under key and the root
// of the state trie holding it.
func (b *Beefy) StateProof(key, value []byte) ([]byte, []byte) {
	nodes, root := TrieProof(b.tb, key, value)

	proof, err := substrate.EncodeToBytes(nodes)
	require.NoError(b.tb, err)
	return proof, root
}

// TrieProof returns the proof of a substrate trie holding value under key as
// its only entry, which is the encoded root leaf, together with the trie root.
func TrieProof(tb testing.TB, key, value []byte) ([][]byte, []byte) {
	tb.Helper()

	// leaf node header: node type in the two high bits, then the partial key
	// length in nibbles
	nibbles := 2 * len(key)
	var node []byte
	if nibbles < 63 {
		node = append(node, 0x40|byte(nibbles))
	} else {
		node = append(node, 0x40|63)
		remaining := nibbles - 63
		for ; remaining >= 255; remaining -= 255 {
			node = append(node, 255)
		}
		node = append(node, byte(remaining))
	}
	node = append(node, key...)

	encodedValue, err := substrate.EncodeToBytes(value)
	require.NoError(tb, err)
	node = append(node, encodedValue...)

	root, err := common.Blake2bHash(node)
	require.NoError(tb, err)

	return [][]byte{node}, root[:]
}

func binaryUint32(v uint32) []byte {
	bz := make([]byte, 4)
	binary.LittleEndian.PutUint32(bz, v)
	return bz
}
