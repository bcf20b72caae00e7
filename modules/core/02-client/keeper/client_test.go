package keeper_test

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	upgradetypes "github.com/cosmos/cosmos-sdk/x/upgrade/types"

	"github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	solomachine "github.com/ComposableFi/ibc-core/modules/light-clients/06-solomachine"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

func (suite *KeeperTestSuite) TestCreateClient() {
	var (
		clientState    exported.ClientState
		consensusState exported.ConsensusState
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: tendermint client",
			func() {},
			nil,
		},
		{
			"success: solo machine client",
			func() {
				solo := ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, ibctesting.DefaultSolomachineClientID, "testing")
				clientState = solo.ClientState()
				consensusState = solo.ConsensusState()
			},
			nil,
		},
		{
			"failure: invalid client state",
			func() {
				tmClientState := clientState.(*ibctm.ClientState)
				tmClientState.TrustingPeriod = ibctesting.UnbondingPeriod
			},
			types.ErrInvalidClient,
		},
		{
			"failure: client type not allowed",
			func() {
				params := types.NewParams(exported.Solomachine)
				suite.chainA.App.IBCKeeper.ClientKeeper.SetParams(suite.chainA.GetContext(), params)
			},
			types.ErrInvalidClientType,
		},
		{
			"failure: consensus state type does not match client",
			func() {
				solo := ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, ibctesting.DefaultSolomachineClientID, "testing")
				consensusState = solo.ConsensusState()
			},
			types.ErrInvalidConsensus,
		},
		{
			"failure: solo machine consensus state differs from client",
			func() {
				solo := ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, ibctesting.DefaultSolomachineClientID, "testing")
				clientState = solo.ClientState()
				solo.Time++
				consensusState = solo.ConsensusState()
			},
			types.ErrInvalidConsensus,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			clientState = ibctm.NewClientState(
				suite.chainB.ChainID, ibctesting.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift,
				suite.chainB.LastHeader.GetHeight(), ibctesting.UpgradePath,
			)
			consensusState = suite.chainB.LastHeader.ConsensusState()

			tc.malleate()

			ctx := suite.chainA.GetContext()
			clientID, err := suite.keeper().CreateClient(ctx, clientState, consensusState)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Empty(clientID)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(types.FormatClientIdentifier(clientState.ClientType(), 0), clientID)
			suite.Require().Equal(exported.Active, suite.keeper().GetClientStatus(ctx, clientID))

			stored, found := suite.keeper().GetClientState(ctx, clientID)
			suite.Require().True(found)
			suite.Require().Equal(clientState.GetLatestHeight(), stored.GetLatestHeight())

			if clientState.ClientType() == exported.Tendermint {
				suite.Require().True(suite.keeper().HasClientConsensusState(ctx, clientID, clientState.GetLatestHeight()))
			}

			expectedEvents := sdk.Events{
				sdk.NewEvent(
					types.EventTypeCreateClient,
					sdk.NewAttribute(types.AttributeKeyClientID, clientID),
					sdk.NewAttribute(types.AttributeKeyClientType, clientState.ClientType()),
					sdk.NewAttribute(types.AttributeKeyConsensusHeight, clientState.GetLatestHeight().String()),
				),
			}
			ibctesting.AssertEvents(&suite.Suite, expectedEvents, ctx.EventManager().Events())
		})
	}
}

func (suite *KeeperTestSuite) TestUpdateClientTendermint() {
	var (
		path   *ibctesting.Path
		header *ibctm.Header
	)

	testCases := []struct {
		name      string
		malleate  func()
		expErr    error
		expFrozen bool
	}{
		{
			"success: valid update",
			func() {},
			nil,
			false,
		},
		{
			"success: header already submitted is a no-op",
			func() {
				trustedHeight := path.EndpointA.GetClientState().GetLatestHeight().(types.Height)
				suite.Require().NoError(path.EndpointA.UpdateClient())

				resubmitted := *suite.chainB.LastHeader
				resubmitted.TrustedHeight = trustedHeight
				resubmitted.TrustedValidators = suite.chainB.Vals
				header = &resubmitted
			},
			nil,
			false,
		},
		{
			"misbehaviour: conflicting header at an existing height freezes the client",
			func() {
				trustedHeight := path.EndpointA.GetClientState().GetLatestHeight().(types.Height)
				suite.Require().NoError(path.EndpointA.UpdateClient())

				latest := path.EndpointA.GetClientState().GetLatestHeight().(types.Height)
				header = suite.chainB.CreateTMClientHeader(
					suite.chainB.ChainID, int64(latest.RevisionHeight), trustedHeight,
					suite.chainB.LastHeader.GetTime().Add(time.Second), suite.chainB.Vals, suite.chainB.Vals, suite.chainB.Signers,
				)
			},
			nil,
			true,
		},
		{
			"failure: client not found",
			func() {
				path.EndpointA.ClientID = "07-tendermint-100"
			},
			types.ErrClientNotFound,
			false,
		},
		{
			"failure: client frozen",
			func() {
				clientState := path.EndpointA.GetClientState().(*ibctm.ClientState)
				clientState.FrozenHeight = ibctm.FrozenHeight
				path.EndpointA.SetClientState(clientState)
			},
			types.ErrClientFrozen,
			false,
		},
		{
			"failure: client expired",
			func() {
				suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
			},
			types.ErrClientNotActive,
			false,
		},
		{
			"failure: trusted consensus state not found",
			func() {
				header.TrustedHeight = types.NewHeight(1, 1)
			},
			types.ErrClientVerificationFailed,
			false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()

			suite.coordinator.CommitBlock(suite.chainB)

			var err error
			header, err = suite.chainA.ConstructUpdateTMClientHeader(suite.chainB, path.EndpointA.ClientID)
			suite.Require().NoError(err)

			tc.malleate()

			ctx := suite.chainA.GetContext()
			err = suite.keeper().UpdateClient(ctx, path.EndpointA.ClientID, header)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)

			status := suite.keeper().GetClientStatus(ctx, path.EndpointA.ClientID)
			if tc.expFrozen {
				suite.Require().Equal(exported.Frozen, status)
				frozen := path.EndpointA.GetClientState().(*ibctm.ClientState).FrozenHeight
				suite.Require().Equal(header.GetHeight(), frozen)
				return
			}

			suite.Require().Equal(exported.Active, status)
			suite.Require().True(suite.keeper().HasClientConsensusState(ctx, path.EndpointA.ClientID, header.GetHeight()))
			suite.Require().Equal(header.GetHeight(), path.EndpointA.GetClientState().GetLatestHeight())
		})
	}
}

func (suite *KeeperTestSuite) TestUpdateClientSolomachine() {
	solo := ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, ibctesting.DefaultSolomachineClientID, "testing")
	clientID := solo.CreateClient(suite.chainA)

	oldPublicKey := solo.PublicKey.Bytes()

	solo.UpdateClient(suite.chainA, clientID)

	clientState, ok := suite.chainA.GetClientState(clientID).(*solomachine.ClientState)
	suite.Require().True(ok)
	suite.Require().Equal(uint64(2), clientState.Sequence)
	suite.Require().Equal(solo.PublicKey.Bytes(), clientState.ConsensusState.PublicKey)
	suite.Require().NotEqual(oldPublicKey, clientState.ConsensusState.PublicKey)

	// a header signed by a rotated out key is rejected
	header := solo.CreateHeader("new diversifier")
	header.Signature = []byte("invalid signature")

	err := suite.keeper().UpdateClient(suite.chainA.GetContext(), clientID, header)
	suite.Require().ErrorIs(err, types.ErrClientVerificationFailed)
}

func (suite *KeeperTestSuite) TestSubmitMisbehaviourSolomachine() {
	solo := ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, ibctesting.DefaultSolomachineClientID, "testing")
	clientID := solo.CreateClient(suite.chainA)

	// a header is not evidence of misbehaviour
	header := solo.CreateHeader(solo.Diversifier)
	err := suite.keeper().SubmitMisbehaviour(suite.chainA.GetContext(), clientID, header)
	suite.Require().Error(err)

	solo = ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, ibctesting.DefaultSolomachineClientID, "testing")
	clientID = solo.CreateClient(suite.chainA)

	misbehaviour := solo.CreateMisbehaviour()

	found, err := suite.keeper().CheckMisbehaviour(suite.chainA.GetContext(), clientID, misbehaviour)
	suite.Require().NoError(err)
	suite.Require().True(found)

	// checking does not freeze the client
	suite.Require().Equal(exported.Active, suite.keeper().GetClientStatus(suite.chainA.GetContext(), clientID))

	ctx := suite.chainA.GetContext()
	suite.Require().NoError(suite.keeper().SubmitMisbehaviour(ctx, clientID, misbehaviour))
	suite.Require().Equal(exported.Frozen, suite.keeper().GetClientStatus(ctx, clientID))

	expectedEvents := sdk.Events{
		sdk.NewEvent(
			types.EventTypeSubmitMisbehaviour,
			sdk.NewAttribute(types.AttributeKeyClientID, clientID),
			sdk.NewAttribute(types.AttributeKeyClientType, exported.Solomachine),
		),
	}
	ibctesting.AssertEvents(&suite.Suite, expectedEvents, ctx.EventManager().Events())

	// a frozen client rejects further evidence
	err = suite.keeper().SubmitMisbehaviour(ctx, clientID, misbehaviour)
	suite.Require().ErrorIs(err, types.ErrClientFrozen)
}

func (suite *KeeperTestSuite) TestSubmitMisbehaviourTendermint() {
	var (
		path         *ibctesting.Path
		misbehaviour *ibctm.Misbehaviour
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{
			"success: fork at the same height",
			func() {},
			nil,
		},
		{
			"failure: identical headers",
			func() {
				misbehaviour.Header2 = misbehaviour.Header1
			},
			types.ErrInvalidMisbehaviour,
		},
		{
			"failure: trusted consensus state not found",
			func() {
				misbehaviour.Header1.TrustedHeight = types.NewHeight(1, 1000)
			},
			types.ErrInvalidMisbehaviour,
		},
		{
			"failure: client already frozen",
			func() {
				clientState := path.EndpointA.GetClientState().(*ibctm.ClientState)
				clientState.FrozenHeight = ibctm.FrozenHeight
				path.EndpointA.SetClientState(clientState)
			},
			types.ErrClientFrozen,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()

			trustedHeight := path.EndpointA.GetClientState().GetLatestHeight().(types.Height)
			height := int64(trustedHeight.RevisionHeight) + 1
			now := suite.chainB.CurrentHeader.Time

			misbehaviour = ibctm.NewMisbehaviour(
				path.EndpointA.ClientID,
				suite.chainB.CreateTMClientHeader(suite.chainB.ChainID, height, trustedHeight, now, suite.chainB.Vals, suite.chainB.Vals, suite.chainB.Signers),
				suite.chainB.CreateTMClientHeader(suite.chainB.ChainID, height, trustedHeight, now.Add(-time.Second), suite.chainB.Vals, suite.chainB.Vals, suite.chainB.Signers),
			)

			tc.malleate()

			ctx := suite.chainA.GetContext()
			err := suite.keeper().SubmitMisbehaviour(ctx, path.EndpointA.ClientID, misbehaviour)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(exported.Frozen, suite.keeper().GetClientStatus(ctx, path.EndpointA.ClientID))

			// the client is frozen at the height of the conflicting headers
			conflicting := types.NewHeight(trustedHeight.RevisionNumber, uint64(height))
			frozen := path.EndpointA.GetClientState().(*ibctm.ClientState).FrozenHeight
			suite.Require().Equal(conflicting, frozen)
			suite.Require().Equal(misbehaviour.GetHeight(), frozen)
		})
	}
}

func (suite *KeeperTestSuite) TestUpgradeClient() {
	var (
		path              *ibctesting.Path
		upgradedClient    *ibctm.ClientState
		upgradedConsState *ibctm.ConsensusState
		planHeight        int64
		proofClient       []byte
		proofConsState    []byte
	)

	newChainID := "testchain2-2"

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
	}{
		{
			"success",
			func() {},
			true,
		},
		{
			"failure: upgraded height not greater than current height",
			func() {
				upgradedClient.LatestHeight = types.NewHeight(1, 1)
			},
			false,
		},
		{
			"failure: upgraded client differs from committed client",
			func() {
				upgradedClient.UnbondingPeriod += time.Hour
			},
			false,
		},
		{
			"failure: invalid client proof",
			func() {
				proofClient = []byte("invalid proof")
			},
			false,
		},
		{
			"failure: consensus state proof for another key",
			func() {
				proofConsState = proofClient
			},
			false,
		},
		{
			"failure: client has no upgrade path",
			func() {
				clientState := path.EndpointA.GetClientState().(*ibctm.ClientState)
				clientState.UpgradePath = nil
				path.EndpointA.SetClientState(clientState)
			},
			false,
		},
		{
			"failure: client frozen",
			func() {
				clientState := path.EndpointA.GetClientState().(*ibctm.ClientState)
				clientState.FrozenHeight = ibctm.FrozenHeight
				path.EndpointA.SetClientState(clientState)
			},
			false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()

			upgradedClient = ibctm.NewClientState(
				newChainID, ibctesting.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod+ibctesting.TrustingPeriod, ibctesting.MaxClockDrift,
				types.NewHeight(2, 1), ibctesting.UpgradePath,
			)
			upgradedConsState = ibctm.NewConsensusState(
				suite.chainB.CurrentHeader.Time, commitmenttypes.NewMerkleRoot([]byte(ibctm.SentinelRoot)), suite.chainB.Vals.Hash(),
			)

			// the plan height is the height the client of chainB is updated to
			planHeight = suite.chainB.CurrentHeader.Height + 1

			chainBKeeper := suite.chainB.App.IBCKeeper.ClientKeeper
			ctx := suite.chainB.GetContext()
			suite.Require().NoError(chainBKeeper.ScheduleIBCClientUpgrade(ctx, planHeight, upgradedClient))
			suite.Require().NoError(chainBKeeper.SetUpgradedConsensusState(ctx, planHeight, upgradedConsState))

			suite.coordinator.CommitBlock(suite.chainB)
			suite.Require().NoError(path.EndpointA.UpdateClient())

			latestHeight := path.EndpointA.GetClientState().GetLatestHeight()
			suite.Require().Equal(uint64(planHeight), latestHeight.GetRevisionHeight())

			proofClient, _ = suite.chainB.QueryUpgradeProof(upgradetypes.UpgradedClientKey(planHeight), latestHeight.GetRevisionHeight())
			proofConsState, _ = suite.chainB.QueryUpgradeProof(upgradetypes.UpgradedConsStateKey(planHeight), latestHeight.GetRevisionHeight())

			tc.malleate()

			ctx = suite.chainA.GetContext()
			err := suite.keeper().UpgradeClient(ctx, path.EndpointA.ClientID, upgradedClient, upgradedConsState, proofClient, proofConsState)

			if !tc.expPass {
				suite.Require().Error(err)
				return
			}

			suite.Require().NoError(err)

			clientState, ok := path.EndpointA.GetClientState().(*ibctm.ClientState)
			suite.Require().True(ok)
			suite.Require().Equal(newChainID, clientState.ChainId)
			suite.Require().Equal(types.NewHeight(2, 1), clientState.LatestHeight)

			// client chosen parameters are kept
			suite.Require().Equal(ibctesting.TrustingPeriod, clientState.TrustingPeriod)
			suite.Require().Equal(ibctesting.UnbondingPeriod+ibctesting.TrustingPeriod, clientState.UnbondingPeriod)

			expectedEvents := sdk.Events{
				sdk.NewEvent(
					types.EventTypeUpgradeClient,
					sdk.NewAttribute(types.AttributeKeyClientID, path.EndpointA.ClientID),
					sdk.NewAttribute(types.AttributeKeyClientType, exported.Tendermint),
					sdk.NewAttribute(types.AttributeKeyConsensusHeight, upgradedClient.LatestHeight.String()),
				),
			}
			ibctesting.AssertEvents(&suite.Suite, expectedEvents, ctx.EventManager().Events())
		})
	}
}

func (suite *KeeperTestSuite) TestScheduleIBCClientUpgrade() {
	ctx := suite.chainA.GetContext()
	k := suite.keeper()

	clientState := ibctm.NewClientState(
		"testchain1-2", ibctesting.DefaultTrustLevel, ibctesting.TrustingPeriod, ibctesting.UnbondingPeriod, ibctesting.MaxClockDrift,
		types.NewHeight(2, 1), ibctesting.UpgradePath,
	)

	err := k.ScheduleIBCClientUpgrade(ctx, ctx.BlockHeight(), clientState)
	suite.Require().ErrorIs(err, types.ErrInvalidUpgradeClient)

	planHeight := ctx.BlockHeight() + 10
	suite.Require().NoError(k.ScheduleIBCClientUpgrade(ctx, planHeight, clientState))

	stored, found := k.GetUpgradedClient(ctx, planHeight)
	suite.Require().True(found)

	// client chosen fields are zeroed
	tmClientState, ok := stored.(*ibctm.ClientState)
	suite.Require().True(ok)
	suite.Require().Equal(clientState.ChainId, tmClientState.ChainId)
	suite.Require().Equal(clientState.UnbondingPeriod, tmClientState.UnbondingPeriod)
	suite.Require().Zero(tmClientState.TrustingPeriod)
	suite.Require().Zero(tmClientState.MaxClockDrift)

	_, found = k.GetUpgradedClient(ctx, planHeight+1)
	suite.Require().False(found)
}
