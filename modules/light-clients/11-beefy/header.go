package beefy

import (
	"bytes"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	substrate "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/crypto"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

var _ exported.ClientMessage = &Header{}

// revisionNumber is the revision of every parachain height tracked by a beefy client.
const revisionNumber = 0

// MmrRootPayloadID identifies the commitment payload item carrying the MMR root.
var MmrRootPayloadID = [2]byte{'m', 'h'}

// AuthoritySet is a BEEFY authority set committed to by the merkle root of
// the keccak hashes of its members' ethereum addresses.
type AuthoritySet struct {
	Id            uint64   `json:"id" yaml:"id"`
	Len           uint32   `json:"len" yaml:"len"`
	AuthorityRoot [32]byte `json:"authority_root" yaml:"authority_root"`
}

// ValidateBasic checks that the authority set is not empty and commits to a root.
func (as AuthoritySet) ValidateBasic() error {
	if as.Len == 0 {
		return sdkerrors.Wrap(ErrInvalidAuthoritySet, "authority set cannot be empty")
	}
	if as.AuthorityRoot == [32]byte{} {
		return sdkerrors.Wrap(ErrInvalidAuthoritySet, "authority root cannot be empty")
	}
	return nil
}

// Threshold returns the number of signatures finalizing a commitment.
func (as AuthoritySet) Threshold() uint32 {
	return 2*as.Len/3 + 1
}

// PayloadItem is an entry of a commitment payload.
type PayloadItem struct {
	PayloadId   [2]byte `json:"payload_id" yaml:"payload_id"`
	PayloadData []byte  `json:"payload_data" yaml:"payload_data"`
}

// Commitment is the message signed by the BEEFY authorities.
type Commitment struct {
	Payload        []PayloadItem `json:"payload" yaml:"payload"`
	BlockNumber    uint32        `json:"block_number" yaml:"block_number"`
	ValidatorSetId uint64        `json:"validator_set_id" yaml:"validator_set_id"`
}

// Hash returns the keccak hash of the scale encoded commitment, which is the
// digest signed by the authorities.
func (c Commitment) Hash() ([]byte, error) {
	bz, err := substrate.EncodeToBytes(c)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(bz), nil
}

// MmrRoot returns the MMR root carried by the commitment payload.
func (c Commitment) MmrRoot() ([]byte, bool) {
	for _, item := range c.Payload {
		if item.PayloadId == MmrRootPayloadID {
			return item.PayloadData, true
		}
	}
	return nil, false
}

// CommitmentSignature is a recoverable secp256k1 signature of the authority
// at AuthorityIndex.
type CommitmentSignature struct {
	Signature      []byte `json:"signature" yaml:"signature"`
	AuthorityIndex uint32 `json:"authority_index" yaml:"authority_index"`
}

// SignedCommitment is a commitment together with the authority signatures over it.
type SignedCommitment struct {
	Commitment Commitment            `json:"commitment" yaml:"commitment"`
	Signatures []CommitmentSignature `json:"signatures" yaml:"signatures"`
}

// MmrLeaf is the leaf appended to the MMR for every relay chain block.
type MmrLeaf struct {
	Version               uint8        `json:"version" yaml:"version"`
	ParentNumber          uint32       `json:"parent_number" yaml:"parent_number"`
	ParentHash            [32]byte     `json:"parent_hash" yaml:"parent_hash"`
	BeefyNextAuthoritySet AuthoritySet `json:"beefy_next_authority_set" yaml:"beefy_next_authority_set"`
	ParachainHeads        [32]byte     `json:"parachain_heads" yaml:"parachain_heads"`
}

// Hash returns the keccak hash of the scale encoded leaf.
func (l MmrLeaf) Hash() ([]byte, error) {
	bz, err := substrate.EncodeToBytes(l)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(bz), nil
}

// MmrLeafPartial holds the fields of an MMR leaf which cannot be derived
// from the parachain header.
type MmrLeafPartial struct {
	Version               uint8        `json:"version" yaml:"version"`
	ParentNumber          uint32       `json:"parent_number" yaml:"parent_number"`
	ParentHash            [32]byte     `json:"parent_hash" yaml:"parent_hash"`
	BeefyNextAuthoritySet AuthoritySet `json:"beefy_next_authority_set" yaml:"beefy_next_authority_set"`
}

// Leaf completes the partial leaf with the root of the parachain heads tree.
func (p MmrLeafPartial) Leaf(parachainHeads [32]byte) MmrLeaf {
	return MmrLeaf{
		Version:               p.Version,
		ParentNumber:          p.ParentNumber,
		ParentHash:            p.ParentHash,
		BeefyNextAuthoritySet: p.BeefyNextAuthoritySet,
		ParachainHeads:        parachainHeads,
	}
}

// MmrUpdateProof proves a new MMR root signed by a known authority set.
type MmrUpdateProof struct {
	MmrLeaf          MmrLeaf          `json:"mmr_leaf" yaml:"mmr_leaf"`
	MmrLeafIndex     uint64           `json:"mmr_leaf_index" yaml:"mmr_leaf_index"`
	MmrProof         [][]byte         `json:"mmr_proof" yaml:"mmr_proof"`
	SignedCommitment SignedCommitment `json:"signed_commitment" yaml:"signed_commitment"`
	AuthoritiesProof [][]byte         `json:"authorities_proof" yaml:"authorities_proof"`
}

// ParachainHeader is a parachain header together with the proofs of its
// inclusion in an MMR leaf and of its timestamp.
type ParachainHeader struct {
	// scale encoded substrate header
	ParachainHeader []byte         `json:"parachain_header" yaml:"parachain_header"`
	MmrLeafPartial  MmrLeafPartial `json:"mmr_leaf_partial" yaml:"mmr_leaf_partial"`
	ParaId          uint32         `json:"para_id" yaml:"para_id"`
	// proof of the parachain head in the parachain heads merkle tree
	ParachainHeadsProof [][]byte `json:"parachain_heads_proof" yaml:"parachain_heads_proof"`
	HeadsLeafIndex      uint32   `json:"heads_leaf_index" yaml:"heads_leaf_index"`
	HeadsTotalCount     uint32   `json:"heads_total_count" yaml:"heads_total_count"`
	// proof of the timestamp extrinsic in the extrinsics trie
	ExtrinsicProof     [][]byte `json:"extrinsic_proof" yaml:"extrinsic_proof"`
	TimestampExtrinsic []byte   `json:"timestamp_extrinsic" yaml:"timestamp_extrinsic"`
}

// Header updates a beefy client. An optional MmrUpdateProof moves the
// client to a newer MMR root, and every parachain header is then proven
// against the client's MMR root with a single batch proof.
type Header struct {
	MmrUpdateProof   *MmrUpdateProof    `json:"mmr_update_proof" yaml:"mmr_update_proof"`
	ParachainHeaders []*ParachainHeader `json:"parachain_headers" yaml:"parachain_headers"`
	MmrProofs        [][]byte           `json:"mmr_proofs" yaml:"mmr_proofs"`
	MmrSize          uint64             `json:"mmr_size" yaml:"mmr_size"`
}

// ClientType defines that the Header is a Beefy header.
func (Header) ClientType() string {
	return exported.Beefy
}

// ValidateBasic checks that the header carries decodable parachain headers
// and, when present, a signed commitment to an MMR root.
func (h Header) ValidateBasic() error {
	if len(h.ParachainHeaders) == 0 {
		return sdkerrors.Wrap(clienttypes.ErrInvalidHeader, "parachain headers cannot be empty")
	}

	for i, ph := range h.ParachainHeaders {
		if ph == nil {
			return sdkerrors.Wrapf(clienttypes.ErrInvalidHeader, "parachain header %d cannot be nil", i)
		}
		if _, err := DecodeParachainHeader(ph.ParachainHeader); err != nil {
			return sdkerrors.Wrapf(ErrInvalidParachainHeader, "parachain header %d: %s", i, err)
		}
		if len(ph.ExtrinsicProof) == 0 || len(ph.TimestampExtrinsic) == 0 {
			return sdkerrors.Wrapf(ErrInvalidTimestampProof, "parachain header %d is missing its timestamp extrinsic proof", i)
		}
	}

	if h.MmrUpdateProof != nil {
		commitment := h.MmrUpdateProof.SignedCommitment
		if len(commitment.Signatures) == 0 {
			return sdkerrors.Wrap(ErrInvalidCommitment, "signed commitment has no signatures")
		}
		if root, ok := commitment.Commitment.MmrRoot(); !ok || len(root) != 32 {
			return sdkerrors.Wrap(ErrInvalidCommitment, "commitment payload does not carry a 32 byte mmr root")
		}
	}

	return nil
}

// DecodeParachainHeader decodes a scale encoded substrate header.
func DecodeParachainHeader(bz []byte) (substrate.Header, error) {
	var h substrate.Header
	if err := substrate.DecodeFromBytes(bz, &h); err != nil {
		return substrate.Header{}, err
	}
	return h, nil
}

// DecodeExtrinsicTimestamp decodes the compact encoded millisecond
// timestamp carried by a timestamp.set extrinsic.
func DecodeExtrinsicTimestamp(bz []byte) (time.Time, error) {
	var extrinsic substrate.Extrinsic
	if err := substrate.DecodeFromBytes(bz, &extrinsic); err != nil {
		return time.Time{}, err
	}

	millis, err := scale.NewDecoder(bytes.NewReader(extrinsic.Method.Args)).DecodeUintCompact()
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(millis.Int64()).UTC(), nil
}

// heightOf returns the client height of a decoded parachain header.
func heightOf(h substrate.Header) clienttypes.Height {
	return clienttypes.NewHeight(revisionNumber, uint64(h.Number))
}
