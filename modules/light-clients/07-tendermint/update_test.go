package tendermint_test

import (
	"time"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

func (suite *TendermintTestSuite) TestVerifyHeader() {
	var header *ibctm.Header

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
		expErr   error
	}{
		{
			"success",
			func() {},
			true,
			nil,
		},
		{
			"success: header skipping heights",
			func() {
				suite.coordinator.CommitNBlocks(suite.chainB, 3)
				var err error
				header, err = suite.chainA.ConstructUpdateTMClientHeader(suite.chainB, suite.path.EndpointA.ClientID)
				suite.Require().NoError(err)
			},
			true,
			nil,
		},
		{
			"success: header already stored",
			func() {
				trustedHeight := suite.latestHeight()
				suite.Require().NoError(suite.path.EndpointA.UpdateClient())

				resubmitted := *suite.chainB.LastHeader
				resubmitted.TrustedHeight = trustedHeight
				resubmitted.TrustedValidators = suite.chainB.Vals
				header = &resubmitted
			},
			true,
			nil,
		},
		{
			"signed header is nil",
			func() {
				header.SignedHeader = nil
			},
			false,
			clienttypes.ErrInvalidHeader,
		},
		{
			"trusted height is not less than header height",
			func() {
				header.TrustedHeight = header.GetHeight()
			},
			false,
			ibctm.ErrInvalidHeaderHeight,
		},
		{
			"trusted consensus state not found",
			func() {
				header.TrustedHeight = clienttypes.NewHeight(header.TrustedHeight.RevisionNumber, 1)
			},
			false,
			clienttypes.ErrConsensusStateNotFound,
		},
		{
			"trusted validators are nil",
			func() {
				header.TrustedValidators = nil
			},
			false,
			ibctm.ErrInvalidValidatorSet,
		},
		{
			"trusted validators do not match the trusted consensus state",
			func() {
				header.TrustedValidators, _ = suite.altValidators()
			},
			false,
			ibctm.ErrInvalidValidatorSet,
		},
		{
			"header signed by an unknown validator set",
			func() {
				valSet, signers := suite.altValidators()
				header = suite.chainB.CreateTMClientHeader(
					suite.chainB.ChainID, int64(header.GetHeight().RevisionHeight), suite.latestHeight(),
					header.GetTime(), valSet, suite.chainB.Vals, signers,
				)
			},
			false,
			nil,
		},
		{
			"header time exceeds the max clock drift",
			func() {
				header = suite.chainBHeader(int64(header.GetHeight().RevisionHeight), suite.chainA.CurrentHeader.Time.Add(time.Hour))
			},
			false,
			nil,
		},
		{
			"trusted consensus state is outside the trusting period",
			func() {
				suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
			},
			false,
			nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			header = suite.updateHeader()

			tc.malleate()

			ctx := suite.chainA.GetContext()
			err := suite.clientState().VerifyClientMessage(ctx, suite.chainA.Codec, suite.clientStore(ctx), header)

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

func (suite *TendermintTestSuite) TestVerifyClientMessageUnknownType() {
	ctx := suite.chainA.GetContext()
	msg := ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, "06-solomachine-0", "testing").CreateHeader("new diversifier")

	err := suite.clientState().VerifyClientMessage(ctx, suite.chainA.Codec, suite.clientStore(ctx), msg)
	suite.Require().ErrorIs(err, clienttypes.ErrInvalidClientType)
}

func (suite *TendermintTestSuite) TestUpdateState() {
	var (
		clientState *ibctm.ClientState
		header      *ibctm.Header
		expLatest   clienttypes.Height
	)

	testCases := []struct {
		name     string
		malleate func()
	}{
		{
			"update to a future height",
			func() {
				expLatest = header.GetHeight()
			},
		},
		{
			"update to a past height keeps the latest height",
			func() {
				past := header
				future := suite.updateHeader()

				ctx := suite.chainA.GetContext()
				clientState.UpdateState(ctx, suite.chainA.Codec, suite.clientStore(ctx), future)

				header = past
				expLatest = future.GetHeight()
			},
		},
		{
			"duplicate update is a no-op",
			func() {
				ctx := suite.chainA.GetContext()
				clientState.UpdateState(ctx, suite.chainA.Codec, suite.clientStore(ctx), header)

				expLatest = header.GetHeight()
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState = suite.clientState()
			header = suite.updateHeader()

			tc.malleate()

			ctx := suite.chainA.GetContext()
			store := suite.clientStore(ctx)
			heights := clientState.UpdateState(ctx, suite.chainA.Codec, store, header)

			suite.Require().Equal([]exported.Height{header.GetHeight()}, heights)
			suite.Require().Equal(expLatest, clientState.LatestHeight)
			suite.Require().Equal(expLatest, suite.clientState().LatestHeight)

			consensusState, found := ibctm.GetConsensusState(store, suite.chainA.Codec, header.GetHeight())
			suite.Require().True(found)
			suite.Require().True(consensusState.Equal(header.ConsensusState()))

			_, found = ibctm.GetProcessedTime(store, header.GetHeight())
			suite.Require().True(found)
			_, found = ibctm.GetProcessedHeight(store, header.GetHeight())
			suite.Require().True(found)
			suite.Require().Equal(host.ConsensusStateKey(header.GetHeight()), ibctm.GetIterationKey(store, header.GetHeight()))
		})
	}
}

func (suite *TendermintTestSuite) TestUpdateStatePanicsOnMisbehaviour() {
	ctx := suite.chainA.GetContext()
	header := suite.updateHeader()

	suite.Require().Panics(func() {
		suite.clientState().UpdateState(ctx, suite.chainA.Codec, suite.clientStore(ctx), ibctm.NewMisbehaviour(suite.path.EndpointA.ClientID, header, header))
	})
}

func (suite *TendermintTestSuite) TestPruneConsensusState() {
	initialHeight := suite.latestHeight()

	// expire the initial consensus state, the header is created afterwards so it stays valid
	suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
	header := suite.updateHeader()

	ctx := suite.chainA.GetContext()
	store := suite.clientStore(ctx)
	suite.clientState().UpdateState(ctx, suite.chainA.Codec, store, header)

	_, found := ibctm.GetConsensusState(store, suite.chainA.Codec, initialHeight)
	suite.Require().False(found)
	_, found = ibctm.GetProcessedTime(store, initialHeight)
	suite.Require().False(found)
	_, found = ibctm.GetProcessedHeight(store, initialHeight)
	suite.Require().False(found)
	suite.Require().Nil(ibctm.GetIterationKey(store, initialHeight))

	_, found = ibctm.GetConsensusState(store, suite.chainA.Codec, header.GetHeight())
	suite.Require().True(found)
}

func (suite *TendermintTestSuite) TestPruneAllExpiredConsensusStates() {
	suite.Require().NoError(suite.path.EndpointA.UpdateClient())
	suite.Require().NoError(suite.path.EndpointA.UpdateClient())

	var expired []exported.Height
	ctx := suite.chainA.GetContext()
	ibctm.IterateConsensusStateAscending(suite.clientStore(ctx), func(height exported.Height) bool {
		expired = append(expired, height)
		return false
	})
	suite.Require().Len(expired, 3)

	suite.chainA.ExpireClient(ibctesting.TrustingPeriod)

	// a consensus state added after expiry is kept
	header := suite.updateHeader()
	ctx = suite.chainA.GetContext()
	store := suite.clientStore(ctx)

	clientState := suite.clientState()
	clientState.UpdateState(ctx, suite.chainA.Codec, store, header)

	pruned := ibctm.PruneAllExpiredConsensusStates(ctx, store, suite.chainA.Codec, clientState)
	// the oldest consensus state is already pruned by the update
	suite.Require().Equal(len(expired)-1, pruned)

	for _, height := range expired {
		_, found := ibctm.GetConsensusState(store, suite.chainA.Codec, height)
		suite.Require().False(found)
	}

	_, found := ibctm.GetConsensusState(store, suite.chainA.Codec, header.GetHeight())
	suite.Require().True(found)
}

func (suite *TendermintTestSuite) TestCheckForMisbehaviourHeader() {
	var header *ibctm.Header

	testCases := []struct {
		name            string
		malleate        func()
		expMisbehaviour bool
	}{
		{
			"no misbehaviour for a new height",
			func() {},
			false,
		},
		{
			"no misbehaviour for an identical header at a stored height",
			func() {
				suite.Require().NoError(suite.path.EndpointA.UpdateClient())

				resubmitted := *suite.chainB.LastHeader
				header = &resubmitted
			},
			false,
		},
		{
			"conflicting header at a stored height",
			func() {
				suite.Require().NoError(suite.path.EndpointA.UpdateClient())

				latest := suite.latestHeight()
				header = suite.chainBHeader(int64(latest.RevisionHeight), suite.chainB.LastHeader.GetTime().Add(time.Second))
			},
			true,
		},
		{
			"header time not after the previous consensus state",
			func() {
				ctx := suite.chainA.GetContext()
				previous, found := ibctm.GetConsensusState(suite.clientStore(ctx), suite.chainA.Codec, suite.latestHeight())
				suite.Require().True(found)

				header = suite.chainBHeader(int64(header.GetHeight().RevisionHeight), previous.Timestamp)
			},
			true,
		},
		{
			"header time not before the next consensus state",
			func() {
				past := suite.latestHeight()
				suite.Require().NoError(suite.path.EndpointA.UpdateClient())

				// fill in a height between the two stored consensus states
				ctx := suite.chainA.GetContext()
				next, found := ibctm.GetNextConsensusState(suite.clientStore(ctx), suite.chainA.Codec, past)
				suite.Require().True(found)

				header = suite.chainB.CreateTMClientHeader(
					suite.chainB.ChainID, int64(suite.latestHeight().RevisionHeight)-1, past,
					next.Timestamp.Add(time.Second), suite.chainB.Vals, suite.chainB.Vals, suite.chainB.Signers,
				)
			},
			true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			header = suite.updateHeader()

			tc.malleate()

			ctx := suite.chainA.GetContext()
			found := suite.clientState().CheckForMisbehaviour(ctx, suite.chainA.Codec, suite.clientStore(ctx), header)
			suite.Require().Equal(tc.expMisbehaviour, found)
		})
	}
}

func (suite *TendermintTestSuite) TestUpdateStateOnMisbehaviour() {
	var clientMsg exported.ClientMessage

	testCases := []struct {
		name      string
		malleate  func()
		expFrozen func() clienttypes.Height
	}{
		{
			"conflicting header",
			func() {
				clientMsg = suite.updateHeader()
			},
			func() clienttypes.Height { return clientMsg.(*ibctm.Header).GetHeight() },
		},
		{
			"misbehaviour",
			func() {
				height := int64(suite.latestHeight().RevisionHeight) + 1
				now := suite.chainB.CurrentHeader.Time
				clientMsg = ibctm.NewMisbehaviour(
					suite.path.EndpointA.ClientID,
					suite.chainBHeader(height, now),
					suite.chainBHeader(height, now.Add(-time.Second)),
				)
			},
			func() clienttypes.Height {
				return clienttypes.NewHeight(suite.latestHeight().RevisionNumber, suite.latestHeight().RevisionHeight+1)
			},
		},
		{
			"unknown conflicting height",
			func() {
				clientMsg = nil
			},
			func() clienttypes.Height { return ibctm.FrozenHeight },
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			tc.malleate()
			expFrozen := tc.expFrozen()

			ctx := suite.chainA.GetContext()
			store := suite.clientStore(ctx)

			clientState := suite.clientState()
			clientState.UpdateStateOnMisbehaviour(ctx, suite.chainA.Codec, store, clientMsg)

			suite.Require().Equal(expFrozen, clientState.FrozenHeight)
			suite.Require().Equal(expFrozen, suite.clientState().FrozenHeight)
			suite.Require().Equal(exported.Frozen, suite.clientState().Status(ctx, store, suite.chainA.Codec))
		})
	}
}
