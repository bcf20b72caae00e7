package beefy_test

import (
	"time"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	beefy "github.com/ComposableFi/ibc-core/modules/light-clients/11-beefy"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

// keyPath is a path which is not a merkle path.
type keyPath string

func (p keyPath) String() string { return string(p) }
func (p keyPath) Empty() bool    { return p == "" }

func (suite *BeefyTestSuite) TestValidate() {
	var clientState *beefy.ClientState

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"valid client", func() {}, nil},
		{"empty chain id", func() { clientState.ChainId = "  " }, clienttypes.ErrInvalidClient},
		{"zero beefy height", func() { clientState.LatestBeefyHeight = 0 }, beefy.ErrInvalidHeaderHeight},
		{"short mmr root", func() { clientState.MmrRootHash = clientState.MmrRootHash[:31] }, beefy.ErrInvalidMmrRoot},
		{"empty authority set", func() { clientState.Authority.Len = 0 }, beefy.ErrInvalidAuthoritySet},
		{"empty next authority root", func() { clientState.NextAuthoritySet.AuthorityRoot = [32]byte{} }, beefy.ErrInvalidAuthoritySet},
		{"next authority set is not newer", func() { clientState.NextAuthoritySet.Id = clientState.Authority.Id }, beefy.ErrInvalidAuthoritySet},
		{"zero latest height", func() { clientState.LatestHeight = clienttypes.ZeroHeight() }, beefy.ErrInvalidHeaderHeight},
		{"non zero revision number", func() { clientState.LatestHeight = clienttypes.NewHeight(1, 5) }, beefy.ErrInvalidHeaderHeight},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			clientState = suite.relay.ClientState()
			tc.malleate()

			err := clientState.Validate()
			if tc.expErr == nil {
				suite.Require().NoError(err)
				return
			}
			suite.Require().ErrorIs(err, tc.expErr)
		})
	}
}

func (suite *BeefyTestSuite) TestCreateClientNotAllowed() {
	params := clienttypes.NewParams(exported.Tendermint)
	suite.chainA.App.IBCKeeper.ClientKeeper.SetParams(suite.chainA.GetContext(), params)

	_, err := suite.chainA.App.IBCKeeper.ClientKeeper.CreateClient(
		suite.chainA.GetContext(), suite.relay.ClientState(), suite.relay.ConsensusState(),
	)
	suite.Require().ErrorIs(err, clienttypes.ErrInvalidClientType)
}

func (suite *BeefyTestSuite) TestZeroCustomFields() {
	clientState := suite.relay.ClientState()

	zeroed, ok := clientState.ZeroCustomFields().(*beefy.ClientState)
	suite.Require().True(ok)
	suite.Require().Equal(&beefy.ClientState{
		ChainId:              clientState.ChainId,
		ParaId:               clientState.ParaId,
		BeefyActivationBlock: clientState.BeefyActivationBlock,
		LatestHeight:         clientState.LatestHeight,
	}, zeroed)
}

func (suite *BeefyTestSuite) TestGetTimestampAtHeight() {
	ctx := suite.chainA.GetContext()
	clientState := suite.clientState()

	timestamp, err := clientState.GetTimestampAtHeight(ctx, suite.clientStore(ctx), suite.chainA.Codec, suite.relay.GetHeight())
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(suite.relay.Time.UnixNano()), timestamp)

	_, err = clientState.GetTimestampAtHeight(ctx, suite.clientStore(ctx), suite.chainA.Codec, clienttypes.NewHeight(0, 100))
	suite.Require().ErrorIs(err, clienttypes.ErrConsensusStateNotFound)
}

func (suite *BeefyTestSuite) TestLeafIndexForBlockNumber() {
	clientState := suite.relay.ClientState()

	leafIndex, err := clientState.GetLeafIndexForBlockNumber(ibctesting.BeefyActivationBlock + 3)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(3), leafIndex)
	suite.Require().Equal(ibctesting.BeefyActivationBlock+3, clientState.GetBlockNumberForLeaf(leafIndex))

	_, err = clientState.GetLeafIndexForBlockNumber(ibctesting.BeefyActivationBlock - 1)
	suite.Require().ErrorIs(err, beefy.ErrInvalidHeaderHeight)

	clientState.BeefyActivationBlock = 0
	leafIndex, err = clientState.GetLeafIndexForBlockNumber(5)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(4), leafIndex)
	suite.Require().Equal(uint32(5), clientState.GetBlockNumberForLeaf(leafIndex))

	_, err = clientState.GetLeafIndexForBlockNumber(0)
	suite.Require().ErrorIs(err, beefy.ErrInvalidHeaderHeight)
}

func (suite *BeefyTestSuite) TestVerifyMembership() {
	var (
		clientState      *beefy.ClientState
		proof            []byte
		path             exported.Path
		value            []byte
		proofHeight      exported.Height
		delayTimePeriod  uint64
		delayBlockPeriod uint64
	)

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{
			"success: delay period passed",
			func() {
				suite.coordinator.CommitNBlocks(suite.chainA, 2)
				delayBlockPeriod = 2
			},
			nil,
		},
		{"value does not match", func() { value = []byte("closed") }, beefy.ErrInvalidProof},
		{"empty value", func() { value = nil }, beefy.ErrInvalidProof},
		{"other path", func() { path = channelPath("channel-1") }, beefy.ErrInvalidProof},
		{"empty proof", func() { proof = nil }, beefy.ErrInvalidProof},
		{"proof is not a list of trie nodes", func() { proof = []byte{0xff} }, beefy.ErrInvalidProof},
		{"path is not a merkle path", func() { path = keyPath("ibc/channel-0") }, ibcerrors.ErrInvalidType},
		{
			"proof height is greater than the latest height",
			func() { proofHeight = clientState.LatestHeight.Increment() },
			ibcerrors.ErrInvalidHeight,
		},
		{
			"consensus state not found",
			func() { suite.clientStore(suite.chainA.GetContext()).Delete(host.ConsensusStateKey(proofHeight)) },
			clienttypes.ErrConsensusStateNotFound,
		},
		{"delay time period not passed", func() { delayTimePeriod = uint64(time.Hour.Nanoseconds()) }, beefy.ErrDelayPeriodNotPassed},
		{"delay block period not passed", func() { delayBlockPeriod = 10 }, beefy.ErrDelayPeriodNotPassed},
		{"client is frozen", func() { clientState.FrozenHeight = beefy.FrozenHeight }, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			path = channelPath("channel-0")
			value = []byte("open")
			var root []byte
			proof, root = suite.relay.StateProof(beefy.StateKey(path.(commitmenttypes.MerklePath)), value)
			suite.relay.UpdateClient(suite.chainA, suite.clientID, root)

			clientState = suite.clientState()
			proofHeight = suite.relay.GetHeight()
			delayTimePeriod, delayBlockPeriod = 0, 0

			tc.malleate()

			ctx := suite.chainA.GetContext()
			err := clientState.VerifyMembership(
				ctx, suite.clientStore(ctx), suite.chainA.Codec, proofHeight,
				delayTimePeriod, delayBlockPeriod, proof, path, value,
			)

			if tc.expErr == nil {
				suite.Require().NoError(err)
				return
			}
			suite.Require().ErrorIs(err, tc.expErr)
		})
	}
}

func (suite *BeefyTestSuite) TestVerifyNonMembership() {
	openPath := channelPath("channel-0")
	proof, root := suite.relay.StateProof(beefy.StateKey(openPath), []byte("open"))
	suite.relay.UpdateClient(suite.chainA, suite.clientID, root)

	ctx := suite.chainA.GetContext()
	clientState := suite.clientState()
	height := suite.relay.GetHeight()

	err := clientState.VerifyNonMembership(ctx, suite.clientStore(ctx), suite.chainA.Codec, height, 0, 0, proof, channelPath("channel-1"))
	suite.Require().NoError(err)

	err = clientState.VerifyNonMembership(ctx, suite.clientStore(ctx), suite.chainA.Codec, height, 0, 0, proof, openPath)
	suite.Require().ErrorIs(err, beefy.ErrInvalidProof)

	// the proof must resolve to the state root of the proof height
	otherProof, _ := suite.relay.StateProof(beefy.StateKey(openPath), []byte("closed"))
	err = clientState.VerifyNonMembership(ctx, suite.clientStore(ctx), suite.chainA.Codec, height, 0, 0, otherProof, channelPath("channel-1"))
	suite.Require().ErrorIs(err, beefy.ErrInvalidProof)
}

func (suite *BeefyTestSuite) TestVerifyUpgradeAndUpdateState() {
	ctx := suite.chainA.GetContext()
	clientState := suite.clientState()

	err := clientState.VerifyUpgradeAndUpdateState(
		ctx, suite.chainA.Codec, suite.clientStore(ctx),
		suite.relay.ClientState(), suite.relay.ConsensusState(), []byte("proof"), []byte("proof"),
	)
	suite.Require().ErrorIs(err, beefy.ErrUpgradeNotSupported)
}
