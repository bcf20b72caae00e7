package tendermint_test

import (
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

func (suite *TendermintTestSuite) TestGetConsensusState() {
	ctx := suite.chainA.GetContext()
	store := suite.clientStore(ctx)
	height := suite.latestHeight()

	consensusState, found := ibctm.GetConsensusState(store, suite.chainA.Codec, height)
	suite.Require().True(found)
	suite.Require().Equal(suite.path.EndpointA.GetConsensusState(height), consensusState)

	_, found = ibctm.GetConsensusState(store, suite.chainA.Codec, height.Increment())
	suite.Require().False(found)

	// a consensus state of another client type is not returned
	solomachine := ibctesting.NewSolomachine(suite.T(), suite.chainA.Codec, "06-solomachine-0", "testing")
	store.Set(host.ConsensusStateKey(height), clienttypes.MustMarshalConsensusState(suite.chainA.Codec, solomachine.ConsensusState()))
	_, found = ibctm.GetConsensusState(store, suite.chainA.Codec, height)
	suite.Require().False(found)
}

func (suite *TendermintTestSuite) TestIterationKey() {
	testHeights := []exported.Height{
		clienttypes.NewHeight(0, 1),
		clienttypes.NewHeight(0, 1234),
		clienttypes.NewHeight(7890, 4321),
		clienttypes.NewHeight(^uint64(0), ^uint64(0)),
	}
	for _, h := range testHeights {
		key := ibctm.IterationKey(h)
		suite.Require().Equal(h, ibctm.GetHeightFromIterationKey(key))
	}
}

func (suite *TendermintTestSuite) TestIterateConsensusStates() {
	ctx := suite.chainA.GetContext()
	store := suite.clientStore(ctx)

	// heights stored out of order are iterated in ascending order
	heights := []clienttypes.Height{
		clienttypes.NewHeight(1, 300),
		clienttypes.NewHeight(2, 1),
		clienttypes.NewHeight(1, 20),
		clienttypes.NewHeight(1, 100),
	}
	for _, h := range heights {
		ibctm.SetIterationKey(store, h)
	}

	var iterated []exported.Height
	ibctm.IterateConsensusStateAscending(store, func(h exported.Height) bool {
		iterated = append(iterated, h)
		return false
	})

	expected := []exported.Height{
		clienttypes.NewHeight(1, 20),
		clienttypes.NewHeight(1, 100),
		clienttypes.NewHeight(1, 300),
		clienttypes.NewHeight(2, 1),
	}
	// the consensus state of the client itself is stored below all test heights
	suite.Require().Equal(expected, iterated[len(iterated)-len(expected):])

	// iteration stops when the callback returns true
	var visited int
	ibctm.IterateConsensusStateAscending(store, func(exported.Height) bool {
		visited++
		return true
	})
	suite.Require().Equal(1, visited)
}

func (suite *TendermintTestSuite) TestGetNeighboringConsensusStates() {
	first := suite.latestHeight()
	suite.Require().NoError(suite.path.EndpointA.UpdateClient())
	second := suite.latestHeight()
	// leave a gap of unstored heights before the third consensus state
	suite.coordinator.CommitNBlocks(suite.chainB, 2)
	suite.Require().NoError(suite.path.EndpointA.UpdateClient())
	third := suite.latestHeight()

	ctx := suite.chainA.GetContext()
	store := suite.clientStore(ctx)
	cdc := suite.chainA.Codec

	consensusStateAt := func(h clienttypes.Height) *ibctm.ConsensusState {
		consensusState, found := ibctm.GetConsensusState(store, cdc, h)
		suite.Require().True(found)
		return consensusState
	}

	prev, found := ibctm.GetPreviousConsensusState(store, cdc, second)
	suite.Require().True(found)
	suite.Require().Equal(consensusStateAt(first), prev)

	next, found := ibctm.GetNextConsensusState(store, cdc, second)
	suite.Require().True(found)
	suite.Require().Equal(consensusStateAt(third), next)

	// heights between stored consensus states resolve to their neighbours
	between := clienttypes.NewHeight(second.RevisionNumber, second.RevisionHeight+1)
	suite.Require().True(between.LT(third))

	prev, found = ibctm.GetPreviousConsensusState(store, cdc, between)
	suite.Require().True(found)
	suite.Require().Equal(consensusStateAt(second), prev)

	next, found = ibctm.GetNextConsensusState(store, cdc, between)
	suite.Require().True(found)
	suite.Require().Equal(consensusStateAt(third), next)

	_, found = ibctm.GetPreviousConsensusState(store, cdc, first)
	suite.Require().False(found)

	_, found = ibctm.GetNextConsensusState(store, cdc, third)
	suite.Require().False(found)
}

func (suite *TendermintTestSuite) TestProcessedMetadata() {
	ctx := suite.chainA.GetContext()
	store := suite.clientStore(ctx)
	height := clienttypes.NewHeight(1, 1000)

	_, found := ibctm.GetProcessedTime(store, height)
	suite.Require().False(found)
	_, found = ibctm.GetProcessedHeight(store, height)
	suite.Require().False(found)

	ibctm.SetProcessedTime(store, height, 42)
	ibctm.SetProcessedHeight(store, height, clienttypes.NewHeight(1, 7))

	processedTime, found := ibctm.GetProcessedTime(store, height)
	suite.Require().True(found)
	suite.Require().Equal(uint64(42), processedTime)

	processedHeight, found := ibctm.GetProcessedHeight(store, height)
	suite.Require().True(found)
	suite.Require().Equal(clienttypes.NewHeight(1, 7), processedHeight)
}
