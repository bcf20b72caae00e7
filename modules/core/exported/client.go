package exported

import (
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Status represents the status of a client
type Status string

const (
	// TypeClientMisbehaviour is the shared evidence misbehaviour type
	TypeClientMisbehaviour string = "client_misbehaviour"

	// Solomachine is used to indicate that the light client is a solo machine.
	Solomachine string = "06-solomachine"

	// Tendermint is used to indicate that the client uses the Tendermint Consensus Algorithm.
	Tendermint string = "07-tendermint"

	// Beefy is used to indicate that the light client tracks a parachain through the BEEFY finality gadget of its relay chain.
	Beefy string = "11-beefy"

	// Active is a status type of a client. An active client is allowed to be used.
	Active Status = "Active"

	// Frozen is a status type of a client. A frozen client is not allowed to be used.
	Frozen Status = "Frozen"

	// Expired is a status type of a client. An expired client is not allowed to be used.
	Expired Status = "Expired"

	// Unknown indicates there was an error in determining the status of a client.
	Unknown Status = "Unknown"
)

// ClientState defines the required common functions for light clients.
// The set of implementations is closed: every variant must be registered
// with the client codec (see clienttypes.RegisterLegacyAminoCodec).
type ClientState interface {
	ClientType() string
	GetLatestHeight() Height
	Validate() error

	// Status must return the status of the client. Only Active clients are allowed to process packets.
	Status(ctx sdk.Context, clientStore sdk.KVStore, cdc *codec.LegacyAmino) Status

	// ZeroCustomFields zeroes out any client customizable fields in client state
	// Ledger enforced fields are maintained while all custom fields are zero values
	// Used to verify upgrades
	ZeroCustomFields() ClientState

	// GetTimestampAtHeight must return the timestamp for the consensus state associated with the provided height.
	GetTimestampAtHeight(
		ctx sdk.Context,
		clientStore sdk.KVStore,
		cdc *codec.LegacyAmino,
		height Height,
	) (uint64, error)

	// Initialize validates the initial consensus state and stores the client
	// state, consensus state and any client-specific metadata.
	Initialize(ctx sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, consensusState ConsensusState) error

	// VerifyMembership verifies a proof of the existence of a value at a given path at the specified height.
	// The caller is expected to construct the full path from a commitment prefix and an ICS 24 path.
	VerifyMembership(
		ctx sdk.Context,
		clientStore sdk.KVStore,
		cdc *codec.LegacyAmino,
		height Height,
		delayTimePeriod uint64,
		delayBlockPeriod uint64,
		proof []byte,
		path Path,
		value []byte,
	) error

	// VerifyNonMembership verifies the absence of a given path at a specified height.
	VerifyNonMembership(
		ctx sdk.Context,
		clientStore sdk.KVStore,
		cdc *codec.LegacyAmino,
		height Height,
		delayTimePeriod uint64,
		delayBlockPeriod uint64,
		proof []byte,
		path Path,
	) error

	// VerifyClientMessage must verify a ClientMessage. A ClientMessage could be a Header or Misbehaviour.
	// Calls to CheckForMisbehaviour, UpdateState, and UpdateStateOnMisbehaviour assume that the
	// content of the ClientMessage has been verified and can be trusted.
	VerifyClientMessage(ctx sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg ClientMessage) error

	// CheckForMisbehaviour checks for evidence of a misbehaviour in a Header or Misbehaviour type.
	// It assumes the ClientMessage has already been verified.
	CheckForMisbehaviour(ctx sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg ClientMessage) bool

	// UpdateStateOnMisbehaviour freezes the client given that misbehaviour has been detected and verified.
	UpdateStateOnMisbehaviour(ctx sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg ClientMessage)

	// UpdateState stores the client state and the consensus states implied by a verified ClientMessage.
	// The consensus heights written are returned.
	UpdateState(ctx sdk.Context, cdc *codec.LegacyAmino, clientStore sdk.KVStore, clientMsg ClientMessage) []Height

	// VerifyUpgradeAndUpdateState verifies that the counterparty committed to the upgraded client
	// and consensus states under its upgrade path and stores them.
	// NOTE: proof heights are not included as upgrade to a new revision is expected to pass only on the last
	// height committed by the current revision.
	VerifyUpgradeAndUpdateState(
		ctx sdk.Context,
		cdc *codec.LegacyAmino,
		store sdk.KVStore,
		newClient ClientState,
		newConsState ConsensusState,
		proofUpgradeClient,
		proofUpgradeConsState []byte,
	) error
}

// ConsensusState is the state of the consensus process
type ConsensusState interface {
	ClientType() string // Consensus kind

	// GetRoot returns the commitment root of the consensus state,
	// which is used for key-value pair verification.
	GetRoot() Root

	// GetTimestamp returns the timestamp (in nanoseconds) of the consensus state
	GetTimestamp() uint64

	ValidateBasic() error
}

// ClientMessage is an interface used to update an IBC client.
// The update may be done by a single header, a batch of headers, misbehaviour, or any type which when verified produces
// a change to state of the IBC client
type ClientMessage interface {
	ClientType() string
	ValidateBasic() error
}

// Height is a wrapper interface over clienttypes.Height
// all clients must use the concrete implementation in types
type Height interface {
	IsZero() bool
	LT(Height) bool
	LTE(Height) bool
	EQ(Height) bool
	GT(Height) bool
	GTE(Height) bool
	GetRevisionNumber() uint64
	GetRevisionHeight() uint64
	Increment() Height
	Decrement() (Height, bool)
	String() string
}

// String returns the string representation of a client status.
func (s Status) String() string {
	return string(s)
}
