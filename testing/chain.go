package ibctesting

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
	"github.com/tendermint/tendermint/libs/log"
	tmproto "github.com/tendermint/tendermint/proto/tendermint/types"
	tmprotoversion "github.com/tendermint/tendermint/proto/tendermint/version"
	tmtypes "github.com/tendermint/tendermint/types"
	tmversion "github.com/tendermint/tendermint/version"
	dbm "github.com/tendermint/tm-db"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctypes "github.com/ComposableFi/ibc-core/modules/core/types"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	"github.com/ComposableFi/ibc-core/testing/simapp"
)

// TestChain is a testing struct that wraps a simapp with the last TM Header, the current ABCI
// header and the validators of the TestChain. It also contains a field called ChainID. This
// is the clientID that *other* chains use to refer to this TestChain. The SenderAccount
// is used for delivering messages. The Vals are fixed for the lifetime of the chain.
type TestChain struct {
	TB testing.TB

	Coordinator   *Coordinator
	App           *simapp.SimApp
	ChainID       string
	LastHeader    *ibctm.Header  // header for last block height committed
	CurrentHeader tmproto.Header // header for current block height
	Codec         *codec.LegacyAmino

	Vals    *tmtypes.ValidatorSet
	Signers []tmtypes.PrivValidator

	SenderPrivKey cryptotypes.PrivKey
	SenderAccount authtypes.AccountI
}

// NewTestChain initializes a new TestChain instance with a single validator set using a
// generated private key. It also creates a sender account to be used for delivering
// messages.
//
// The first block height is committed to state in order to allow for client creations on
// counterparty chains. The TestChain will return with a block height starting at 2.
//
// Time management is handled by the Coordinator in order to ensure synchrony between chains.
// Each update of any chain increments the block header time for all chains by 5 seconds.
func NewTestChain(tb testing.TB, coord *Coordinator, chainID string) *TestChain {
	tb.Helper()

	// generate validator private/public key
	privVal := tmtypes.NewMockPV()
	pubKey, err := privVal.GetPubKey()
	require.NoError(tb, err)

	// create validator set with single validator
	validator := tmtypes.NewValidator(pubKey, 1)
	valSet := tmtypes.NewValidatorSet([]*tmtypes.Validator{validator})
	signers := []tmtypes.PrivValidator{privVal}

	// generate genesis account
	senderPrivKey := secp256k1.GenPrivKey()
	acc := authtypes.NewBaseAccount(senderPrivKey.PubKey().Address().Bytes(), senderPrivKey.PubKey(), 0, 0)
	balance := banktypes.Balance{
		Address: acc.GetAddress().String(),
		Coins:   sdk.NewCoins(sdk.NewCoin(sdk.DefaultBondDenom, DefaultGenesisAccBalance)),
	}

	logger := coord.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	app := simapp.NewSimApp(logger.With("chain-id", chainID), dbm.NewMemDB())
	app.InitChain(chainID, []authtypes.GenesisAccount{acc}, []banktypes.Balance{balance})

	chain := &TestChain{
		TB:            tb,
		Coordinator:   coord,
		ChainID:       chainID,
		App:           app,
		Codec:         app.LegacyAmino(),
		Vals:          valSet,
		Signers:       signers,
		SenderPrivKey: senderPrivKey,
		SenderAccount: acc,
	}

	lastCommit := app.LastCommitID()
	chain.CurrentHeader = tmproto.Header{
		ChainID:            chainID,
		Height:             lastCommit.Version + 1,
		AppHash:            lastCommit.Hash,
		Time:               coord.CurrentTime.UTC(),
		ValidatorsHash:     valSet.Hash(),
		NextValidatorsHash: valSet.Hash(),
	}
	chain.BeginBlock()

	coord.CommitBlock(chain)

	return chain
}

// GetContext returns the current context for the application.
func (chain *TestChain) GetContext() sdk.Context {
	return chain.App.NewContext(chain.CurrentHeader)
}

// GetSimApp returns the SimApp of the chain.
func (chain *TestChain) GetSimApp() *simapp.SimApp {
	return chain.App
}

// QueryProof performs an abci query with the given key and returns the proto encoded merkle proof
// for the query and the height at which the proof will succeed on a tendermint verifier.
func (chain *TestChain) QueryProof(key []byte) ([]byte, clienttypes.Height) {
	return chain.QueryProofAtHeight(key, chain.App.LastCommitID().Version)
}

// QueryProofAtHeight performs an abci query with the given key and returns the encoded merkle proof
// for the query and the height at which the proof will succeed on a tendermint verifier.
func (chain *TestChain) QueryProofAtHeight(key []byte, height int64) ([]byte, clienttypes.Height) {
	return chain.queryProofForStore(exported.StoreKey, key, height)
}

// QueryUpgradeProof performs an abci query with the given key against the upgrade store and
// returns the encoded merkle proof for the query and the height at which the proof will
// succeed on a tendermint verifier.
func (chain *TestChain) QueryUpgradeProof(key []byte, height uint64) ([]byte, clienttypes.Height) {
	return chain.queryProofForStore("upgrade", key, int64(height))
}

func (chain *TestChain) queryProofForStore(storeKey string, key []byte, height int64) ([]byte, clienttypes.Height) {
	res := chain.App.Query(abci.RequestQuery{
		Path:   fmt.Sprintf("/%s/key", storeKey),
		Height: height - 1,
		Data:   key,
		Prove:  true,
	})

	merkleProof, err := commitmenttypes.ConvertProofs(res.ProofOps)
	require.NoError(chain.TB, err)

	proof, err := merkleProof.Marshal()
	require.NoError(chain.TB, err)

	revision := clienttypes.ParseChainID(chain.ChainID)

	// proof height + 1 is returned as the proof created corresponds to the height the proof
	// was created in the IAVL tree. Tendermint and subsequently the clients that rely on it
	// have heights 1 above the IAVL tree. Thus we return proof height + 1
	return proof, clienttypes.NewHeight(revision, uint64(res.Height)+1)
}

// QueryConsensusStateProof performs an abci query for a consensus state
// stored on the given clientID. The proof and consensusHeight are returned.
func (chain *TestChain) QueryConsensusStateProof(clientID string) ([]byte, clienttypes.Height) {
	clientState := chain.GetClientState(clientID)

	consensusHeight := clientState.GetLatestHeight().(clienttypes.Height)
	consensusKey := host.FullConsensusStateKey(clientID, consensusHeight)
	proofConsensus, _ := chain.QueryProof(consensusKey)

	return proofConsensus, consensusHeight
}

// NextBlock commits the current block, sets the last header to the current header and
// increments the current header to be at the next block height. It does not update the
// time as that is handled by the Coordinator. The header of the new block is recorded
// by BeginBlock.
func (chain *TestChain) NextBlock() {
	chain.App.Commit()

	// set the last header to the current header
	// use nil trusted fields
	chain.LastHeader = chain.CurrentTMClientHeader()

	// increment the current header
	lastCommit := chain.App.LastCommitID()
	chain.CurrentHeader = tmproto.Header{
		ChainID: chain.ChainID,
		Height:  lastCommit.Version + 1,
		AppHash: lastCommit.Hash,
		// NOTE: the time is increased by the coordinator to maintain time synchrony amongst
		// chains.
		Time:               chain.CurrentHeader.Time,
		ValidatorsHash:     chain.Vals.Hash(),
		NextValidatorsHash: chain.Vals.Hash(),
	}

	chain.BeginBlock()
}

// BeginBlock runs the begin block logic of the app for the current header.
func (chain *TestChain) BeginBlock() {
	chain.App.BeginBlock(chain.GetContext())
}

// SendMsgs executes the messages against the current block and commits it. The messages
// are first passed through the redundant relay check. Execution is atomic: either every
// message succeeds or the state changes of the batch are discarded. The block is committed
// and the time incremented in both cases. The events emitted by the messages are returned.
func (chain *TestChain) SendMsgs(msgs ...exported.Msg) (sdk.Events, error) {
	events, err := chain.deliverMsgs(msgs)

	chain.Coordinator.CommitBlock(chain)

	return events, err
}

func (chain *TestChain) deliverMsgs(msgs []exported.Msg) (sdk.Events, error) {
	ctx := chain.GetContext()

	if err := chain.App.RelayChecker.CheckBatch(ctx, msgs); err != nil {
		return nil, err
	}

	cacheCtx, writeFn := ctx.CacheContext()

	var events sdk.Events
	for _, msg := range msgs {
		res, err := chain.App.IBCKeeper.Dispatch(cacheCtx, msg)
		if err != nil {
			return nil, err
		}
		events = append(events, res...)
	}

	writeFn()

	return events, nil
}

// SendMsgBatch executes the messages independently against the current block, the way a
// relayer submission is handled: a failing message does not revert the ones before it. The
// batch is rejected as a whole only when the redundant relay check fails. One result per
// message is returned and the block is committed.
func (chain *TestChain) SendMsgBatch(msgs ...exported.Msg) ([]ibctypes.Result, error) {
	ctx := chain.GetContext()

	if err := chain.App.RelayChecker.CheckBatch(ctx, msgs); err != nil {
		chain.Coordinator.CommitBlock(chain)
		return nil, err
	}

	results := chain.App.IBCKeeper.DispatchBatch(ctx, msgs)

	chain.Coordinator.CommitBlock(chain)

	return results, nil
}

// GetClientState retrieves the client state for the provided clientID. The client is
// expected to exist otherwise testing will fail.
func (chain *TestChain) GetClientState(clientID string) exported.ClientState {
	clientState, found := chain.App.IBCKeeper.ClientKeeper.GetClientState(chain.GetContext(), clientID)
	require.True(chain.TB, found)

	return clientState
}

// GetConsensusState retrieves the consensus state for the provided clientID and height.
// It will return a success boolean depending on if consensus state exists or not.
func (chain *TestChain) GetConsensusState(clientID string, height exported.Height) (exported.ConsensusState, bool) {
	return chain.App.IBCKeeper.ClientKeeper.GetClientConsensusState(chain.GetContext(), clientID, height)
}

// GetConnection retrieves an IBC Connection for the provided connectionID. The
// connection is expected to exist otherwise testing will fail.
func (chain *TestChain) GetConnection(connectionID string) connectiontypes.ConnectionEnd {
	connection, found := chain.App.IBCKeeper.ConnectionKeeper.GetConnection(chain.GetContext(), connectionID)
	require.True(chain.TB, found)

	return connection
}

// GetChannel retrieves an IBC Channel for the provided portID and channelID.
// The channel is expected to exist otherwise testing will fail.
func (chain *TestChain) GetChannel(portID, channelID string) channeltypes.Channel {
	channel, found := chain.App.IBCKeeper.ChannelKeeper.GetChannel(chain.GetContext(), portID, channelID)
	require.True(chain.TB, found)

	return channel
}

// GetAcknowledgement retrieves an acknowledgement for the provided packet. If the
// acknowledgement does not exist then testing will fail.
func (chain *TestChain) GetAcknowledgement(packet exported.PacketI) []byte {
	ack, found := chain.App.IBCKeeper.ChannelKeeper.GetPacketAcknowledgement(chain.GetContext(), packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
	require.True(chain.TB, found)

	return ack
}

// GetPrefix returns the prefix for used by a chain in connection creation
func (chain *TestChain) GetPrefix() commitmenttypes.MerklePrefix {
	return commitmenttypes.NewMerklePrefix(chain.App.IBCKeeper.ConnectionKeeper.GetCommitmentPrefix().Bytes())
}

// GetTimeoutHeight is a convenience function which returns a IBC packet timeout height
// to be used for testing. It returns the current IBC height + 100 blocks
func (chain *TestChain) GetTimeoutHeight() clienttypes.Height {
	return clienttypes.NewHeight(clienttypes.ParseChainID(chain.ChainID), uint64(chain.GetContext().BlockHeight())+100)
}

// ConstructUpdateTMClientHeader will construct a valid 07-tendermint Header to update the
// light client on the source chain.
func (chain *TestChain) ConstructUpdateTMClientHeader(counterparty *TestChain, clientID string) (*ibctm.Header, error) {
	// Relayer must query for LatestHeight on client to get TrustedHeight if the trusted height is not set
	trustedHeight := chain.GetClientState(clientID).GetLatestHeight().(clienttypes.Height)
	return chain.ConstructUpdateTMClientHeaderWithTrustedHeight(counterparty, clientID, trustedHeight)
}

// ConstructUpdateTMClientHeaderWithTrustedHeight will construct a valid 07-tendermint Header to update the
// light client on the source chain.
func (chain *TestChain) ConstructUpdateTMClientHeaderWithTrustedHeight(counterparty *TestChain, clientID string, trustedHeight clienttypes.Height) (*ibctm.Header, error) {
	if trustedHeight.IsZero() {
		return nil, fmt.Errorf("trusted height of client %s cannot be zero", clientID)
	}

	// the validator set of the counterparty never changes, so the validators
	// trusted at any height are the current ones
	header := *counterparty.LastHeader
	header.TrustedHeight = trustedHeight
	header.TrustedValidators = counterparty.Vals

	return &header, nil
}

// ExpireClient fast forwards the chain's block time by the provided amount of time which will
// expire any clients with a trusting period less than or equal to this amount of time.
func (chain *TestChain) ExpireClient(amount time.Duration) {
	chain.Coordinator.IncrementTimeBy(amount)
}

// CurrentTMClientHeader creates a TM header using the current header parameters
// on the chain. The trusted fields in the header are set to nil.
func (chain *TestChain) CurrentTMClientHeader() *ibctm.Header {
	return chain.CreateTMClientHeader(
		chain.ChainID, chain.CurrentHeader.Height, clienttypes.Height{}, chain.CurrentHeader.Time,
		chain.Vals, nil, chain.Signers,
	)
}

// CreateTMClientHeader creates a TM header to update the TM client. Args are passed in to allow
// caller flexibility to use params that differ from the chain.
func (chain *TestChain) CreateTMClientHeader(
	chainID string, blockHeight int64, trustedHeight clienttypes.Height, timestamp time.Time,
	tmValSet, tmTrustedVals *tmtypes.ValidatorSet, signers []tmtypes.PrivValidator,
) *ibctm.Header {
	require.NotNil(chain.TB, tmValSet)

	vsetHash := tmValSet.Hash()

	tmHeader := tmtypes.Header{
		Version:            tmprotoversion.Consensus{Block: tmversion.BlockProtocol, App: 2},
		ChainID:            chainID,
		Height:             blockHeight,
		Time:               timestamp,
		LastBlockID:        MakeBlockID(make([]byte, tmhash.Size), 10_000, make([]byte, tmhash.Size)),
		LastCommitHash:     chain.App.LastCommitID().Hash,
		DataHash:           tmhash.Sum([]byte("data_hash")),
		ValidatorsHash:     vsetHash,
		NextValidatorsHash: vsetHash,
		ConsensusHash:      tmhash.Sum([]byte("consensus_hash")),
		AppHash:            chain.CurrentHeader.AppHash,
		LastResultsHash:    tmhash.Sum([]byte("last_results_hash")),
		EvidenceHash:       tmhash.Sum([]byte("evidence_hash")),
		ProposerAddress:    tmValSet.Proposer.Address,
	}

	hhash := tmHeader.Hash()
	blockID := MakeBlockID(hhash, 3, tmhash.Sum([]byte("part_set")))
	voteSet := tmtypes.NewVoteSet(chainID, blockHeight, 1, tmproto.PrecommitType, tmValSet)

	commit, err := tmtypes.MakeCommit(blockID, blockHeight, 1, voteSet, signers, timestamp)
	require.NoError(chain.TB, err)

	// The trusted fields may be nil. They may be filled before relaying messages to a client.
	// The relayer is responsible for querying client and injecting appropriate trusted fields.
	return &ibctm.Header{
		SignedHeader: &tmtypes.SignedHeader{
			Header: &tmHeader,
			Commit: commit,
		},
		ValidatorSet:      tmValSet,
		TrustedHeight:     trustedHeight,
		TrustedValidators: tmTrustedVals,
	}
}

// MakeBlockID copied unimported test functions from tmtypes to use them here
func MakeBlockID(hash []byte, partSetSize uint32, partSetHash []byte) tmtypes.BlockID {
	return tmtypes.BlockID{
		Hash: hash,
		PartSetHeader: tmtypes.PartSetHeader{
			Total: partSetSize,
			Hash:  partSetHash,
		},
	}
}

// CreateSortedSignerArray takes two PrivValidators, and the corresponding Validator structs
// (including voting power). It returns a signer array of PrivValidators that matches the
// sorting of ValidatorSet.
// The sorting is first by .VotingPower (descending), with secondary index of .Address (ascending).
func CreateSortedSignerArray(altPrivVal, suitePrivVal tmtypes.PrivValidator,
	altVal, suiteVal *tmtypes.Validator,
) []tmtypes.PrivValidator {
	switch {
	case altVal.VotingPower > suiteVal.VotingPower:
		return []tmtypes.PrivValidator{altPrivVal, suitePrivVal}
	case altVal.VotingPower < suiteVal.VotingPower:
		return []tmtypes.PrivValidator{suitePrivVal, altPrivVal}
	default:
		if bytes.Compare(altVal.Address, suiteVal.Address) == -1 {
			return []tmtypes.PrivValidator{altPrivVal, suitePrivVal}
		}
		return []tmtypes.PrivValidator{suitePrivVal, altPrivVal}
	}
}

// GetSenderAddress returns the bech32 address of the sender account.
func (chain *TestChain) GetSenderAddress() string {
	return chain.SenderAccount.GetAddress().String()
}

// GetTimeoutTimestamp returns a packet timeout timestamp one hour after the current block time.
func (chain *TestChain) GetTimeoutTimestamp() uint64 {
	return uint64(chain.CurrentHeader.Time.Add(time.Hour).UnixNano())
}
