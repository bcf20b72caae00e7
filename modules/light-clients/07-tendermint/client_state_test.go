package tendermint_test

import (
	"strings"
	"time"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

const chainID = "gaia-1"

var height = clienttypes.NewHeight(1, 10)

func (suite *TendermintTestSuite) TestValidate() {
	testCases := []struct {
		name        string
		clientState *ibctm.ClientState
		expErr      error
	}{
		{
			name:        "valid client",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, ibctesting.UpgradePath),
		},
		{
			name:        "valid client with nil upgrade path",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, nil),
		},
		{
			name:        "valid client with revision zero chain id",
			clientState: ibctm.NewClientState("gaia", ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, clienttypes.NewHeight(0, 10), nil),
		},
		{
			name:        "invalid chainID",
			clientState: ibctm.NewClientState("  ", ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidChainID,
		},
		{
			name:        "chainID is too long",
			clientState: ibctm.NewClientState(strings.Repeat("a", 51)+"-1", ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidChainID,
		},
		{
			name:        "invalid trust level",
			clientState: ibctm.NewClientState(chainID, ibctm.Fraction{Numerator: 0, Denominator: 1}, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidTrustLevel,
		},
		{
			name:        "invalid zero trusting period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, 0, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidTrustingPeriod,
		},
		{
			name:        "invalid zero unbonding period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, 0, ibctesting.MaxClockDrift, height, ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidUnbondingPeriod,
		},
		{
			name:        "invalid zero max clock drift",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, 0, height, ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidMaxClockDrift,
		},
		{
			name:        "invalid revision number",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, clienttypes.NewHeight(2, 10), ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidHeaderHeight,
		},
		{
			name:        "invalid revision height",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, clienttypes.NewHeight(1, 0), ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidHeaderHeight,
		},
		{
			name:        "trusting period not less than unbonding period",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.UnbondingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, ibctesting.UpgradePath),
			expErr:      ibctm.ErrInvalidTrustingPeriod,
		},
		{
			name:        "empty key in upgrade path",
			clientState: ibctm.NewClientState(chainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift, height, []string{"upgrade", ""}),
			expErr:      clienttypes.ErrInvalidClient,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			err := tc.clientState.Validate()
			if tc.expErr == nil {
				suite.Require().NoError(err)
				return
			}

			suite.Require().ErrorIs(err, tc.expErr)
		})
	}
}

func (suite *TendermintTestSuite) TestZeroCustomFields() {
	clientState := suite.clientState()
	clientState.FrozenHeight = ibctm.FrozenHeight

	zeroed, ok := clientState.ZeroCustomFields().(*ibctm.ClientState)
	suite.Require().True(ok)

	suite.Require().Equal(&ibctm.ClientState{
		ChainId:         clientState.ChainId,
		UnbondingPeriod: clientState.UnbondingPeriod,
		LatestHeight:    clientState.LatestHeight,
		UpgradePath:     clientState.UpgradePath,
	}, zeroed)
}

func (suite *TendermintTestSuite) TestStatus() {
	var clientState *ibctm.ClientState

	testCases := []struct {
		name      string
		malleate  func()
		expStatus exported.Status
	}{
		{"client is active", func() {}, exported.Active},
		{"client is frozen", func() {
			clientState.FrozenHeight = ibctm.FrozenHeight
		}, exported.Frozen},
		{"frozen takes precedence over expired", func() {
			clientState.FrozenHeight = ibctm.FrozenHeight
			suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
		}, exported.Frozen},
		{"client status without consensus state at latest height", func() {
			clientState.LatestHeight = clientState.LatestHeight.Increment().(clienttypes.Height)
		}, exported.Expired},
		{"client status is expired", func() {
			suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
		}, exported.Expired},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState = suite.clientState()

			tc.malleate()

			ctx := suite.chainA.GetContext()
			status := clientState.Status(ctx, suite.clientStore(ctx), suite.chainA.Codec)
			suite.Require().Equal(tc.expStatus, status)
		})
	}
}

func (suite *TendermintTestSuite) TestIsExpired() {
	clientState := suite.clientState()
	now := suite.chainA.CurrentHeader.Time

	suite.Require().False(clientState.IsExpired(now, now))
	suite.Require().False(clientState.IsExpired(now, now.Add(ibctesting.TrustingPeriod-time.Nanosecond)))
	suite.Require().True(clientState.IsExpired(now, now.Add(ibctesting.TrustingPeriod)))
}

func (suite *TendermintTestSuite) TestGetTimestampAtHeight() {
	ctx := suite.chainA.GetContext()
	clientState := suite.clientState()

	consensusState, found := ibctm.GetConsensusState(suite.clientStore(ctx), suite.chainA.Codec, clientState.LatestHeight)
	suite.Require().True(found)

	timestamp, err := clientState.GetTimestampAtHeight(ctx, suite.clientStore(ctx), suite.chainA.Codec, clientState.LatestHeight)
	suite.Require().NoError(err)
	suite.Require().Equal(consensusState.GetTimestamp(), timestamp)

	_, err = clientState.GetTimestampAtHeight(ctx, suite.clientStore(ctx), suite.chainA.Codec, clientState.LatestHeight.Increment())
	suite.Require().ErrorIs(err, clienttypes.ErrConsensusStateNotFound)
}

func (suite *TendermintTestSuite) TestInitialize() {
	const newClientID = "07-tendermint-100"

	var consensusState exported.ConsensusState

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"valid consensus state",
			func() {},
			nil,
		},
		{
			"invalid consensus state type",
			func() {
				consensusState = ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, "06-solomachine-0", "testing").ConsensusState()
			},
			clienttypes.ErrInvalidConsensus,
		},
		{
			"consensus state without root",
			func() {
				consensusState = ibctm.NewConsensusState(suite.chainB.LastHeader.GetTime(), commitmenttypes.MerkleRoot{}, suite.chainB.Vals.Hash())
			},
			clienttypes.ErrInvalidConsensus,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState := ibctm.NewClientState(
				suite.chainB.ChainID, ibctm.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift,
				suite.chainB.LastHeader.GetHeight(), ibctesting.UpgradePath,
			)
			consensusState = suite.chainB.LastHeader.ConsensusState()

			tc.malleate()

			ctx := suite.chainA.GetContext()
			store := suite.chainA.App.IBCKeeper.ClientKeeper.ClientStore(ctx, newClientID)
			err := clientState.Initialize(ctx, suite.chainA.Codec, store, consensusState)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().False(store.Has(host.ClientStateKey()))
				return
			}

			suite.Require().NoError(err)
			suite.Require().True(store.Has(host.ClientStateKey()))

			stored, found := ibctm.GetConsensusState(store, suite.chainA.Codec, clientState.LatestHeight)
			suite.Require().True(found)
			suite.Require().True(stored.Equal(consensusState.(*ibctm.ConsensusState)))

			processedTime, found := ibctm.GetProcessedTime(store, clientState.LatestHeight)
			suite.Require().True(found)
			suite.Require().Equal(uint64(ctx.BlockTime().UnixNano()), processedTime)

			processedHeight, found := ibctm.GetProcessedHeight(store, clientState.LatestHeight)
			suite.Require().True(found)
			suite.Require().Equal(clienttypes.GetSelfHeight(ctx), processedHeight)
		})
	}
}

func (suite *TendermintTestSuite) TestVerifyMembership() {
	var (
		clientState      *ibctm.ClientState
		proofHeight      exported.Height
		delayTimePeriod  uint64
		delayBlockPeriod uint64
		proof            []byte
		merklePath       exported.Path
		value            []byte
	)

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
		expErr   error
	}{
		{
			"successful client state verification",
			func() {},
			true,
			nil,
		},
		{
			"successful verification with delay time period passed",
			func() {
				delayTimePeriod = uint64(time.Second.Nanoseconds())
			},
			true,
			nil,
		},
		{
			"delay time period has not passed",
			func() {
				delayTimePeriod = uint64(time.Hour.Nanoseconds())
			},
			false,
			ibctm.ErrDelayPeriodNotPassed,
		},
		{
			"successful verification with delay block period passed",
			func() {
				delayBlockPeriod = 1
			},
			true,
			nil,
		},
		{
			"delay block period has not passed",
			func() {
				delayBlockPeriod = 1000
			},
			false,
			ibctm.ErrDelayPeriodNotPassed,
		},
		{
			"latest client height < proof height",
			func() {
				proofHeight = clientState.LatestHeight.Increment()
			},
			false,
			ibcerrors.ErrInvalidHeight,
		},
		{
			"consensus state not found at proof height",
			func() {
				proofHeight = clienttypes.NewHeight(clientState.LatestHeight.RevisionNumber, 1)
			},
			false,
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"client is frozen",
			func() {
				clientState.FrozenHeight = ibctm.FrozenHeight
			},
			false,
			clienttypes.ErrClientFrozen,
		},
		{
			"proof cannot be unmarshalled",
			func() {
				proof = []byte("invalid proof")
			},
			false,
			commitmenttypes.ErrInvalidProof,
		},
		{
			"path is not a merkle path",
			func() {
				merklePath = invalidPath{}
			},
			false,
			ibcerrors.ErrInvalidType,
		},
		{
			"value does not match the proof",
			func() {
				value = []byte("invalid value")
			},
			false,
			nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			// the client state of chainA stored on chainB must be part of a root known to chainA
			suite.Require().NoError(suite.path.EndpointA.UpdateClient())

			clientID := suite.path.EndpointB.ClientID
			key := host.FullClientStateKey(clientID)
			proof, proofHeight = suite.path.EndpointB.QueryProof(key)

			path, err := commitmenttypes.ApplyPrefix(suite.chainB.GetPrefix(), commitmenttypes.NewMerklePath([]byte(host.FullClientStatePath(clientID))))
			suite.Require().NoError(err)
			merklePath = path

			ctxB := suite.chainB.GetContext()
			value = suite.chainB.App.IBCKeeper.ClientKeeper.ClientStore(ctxB, clientID).Get(host.ClientStateKey())
			suite.Require().NotEmpty(value)

			clientState = suite.clientState()
			delayTimePeriod, delayBlockPeriod = 0, 0

			tc.malleate()

			ctx := suite.chainA.GetContext()
			err = clientState.VerifyMembership(
				ctx, suite.clientStore(ctx), suite.chainA.Codec, proofHeight,
				delayTimePeriod, delayBlockPeriod, proof, merklePath, value,
			)

			if tc.expPass {
				suite.Require().NoError(err)
				return
			}

			suite.Require().Error(err)
			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestVerifyNonMembership() {
	testCases := []struct {
		name     string
		clientID func() string
		expPass  bool
	}{
		{
			"absent client state",
			func() string { return "07-tendermint-100" },
			true,
		},
		{
			"client state exists",
			func() string { return suite.path.EndpointB.ClientID },
			false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()
			suite.Require().NoError(suite.path.EndpointA.UpdateClient())

			clientID := tc.clientID()
			proof, proofHeight := suite.path.EndpointB.QueryProof(host.FullClientStateKey(clientID))

			path, err := commitmenttypes.ApplyPrefix(suite.chainB.GetPrefix(), commitmenttypes.NewMerklePath([]byte(host.FullClientStatePath(clientID))))
			suite.Require().NoError(err)

			ctx := suite.chainA.GetContext()
			err = suite.clientState().VerifyNonMembership(ctx, suite.clientStore(ctx), suite.chainA.Codec, proofHeight, 0, 0, proof, path)

			if tc.expPass {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
			}
		})
	}
}

// invalidPath is a commitment path of an unknown type.
type invalidPath struct{}

func (invalidPath) String() string { return "invalid" }
func (invalidPath) Empty() bool    { return false }
