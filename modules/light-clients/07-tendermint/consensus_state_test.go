package tendermint_test

import (
	"time"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
)

func (suite *TendermintTestSuite) TestConsensusStateValidateBasic() {
	valsHash := suite.chainB.Vals.Hash()
	now := suite.chainB.CurrentHeader.Time

	testCases := []struct {
		msg            string
		consensusState *ibctm.ConsensusState
		expPass        bool
	}{
		{
			"success",
			ibctm.NewConsensusState(now, commitmenttypes.NewMerkleRoot([]byte("app_hash")), valsHash),
			true,
		},
		{
			"success with sentinel root",
			ibctm.NewConsensusState(now, commitmenttypes.NewMerkleRoot([]byte(ibctm.SentinelRoot)), valsHash),
			true,
		},
		{
			"root is nil",
			ibctm.NewConsensusState(now, commitmenttypes.MerkleRoot{}, valsHash),
			false,
		},
		{
			"root is empty",
			ibctm.NewConsensusState(now, commitmenttypes.NewMerkleRoot([]byte{}), valsHash),
			false,
		},
		{
			"next validators hash is invalid",
			ibctm.NewConsensusState(now, commitmenttypes.NewMerkleRoot([]byte("app_hash")), []byte("hi")),
			false,
		},
		{
			"timestamp is zero",
			ibctm.NewConsensusState(time.Time{}, commitmenttypes.NewMerkleRoot([]byte("app_hash")), valsHash),
			false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.Require().Equal(exported.Tendermint, tc.consensusState.ClientType())
			suite.Require().Equal(tc.consensusState.GetRoot(), tc.consensusState.Root)

			err := tc.consensusState.ValidateBasic()
			if tc.expPass {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
			}
		})
	}
}

func (suite *TendermintTestSuite) TestConsensusStateEqual() {
	consensusState := suite.chainB.LastHeader.ConsensusState()

	suite.Require().True(consensusState.Equal(suite.chainB.LastHeader.ConsensusState()))
	suite.Require().False(consensusState.Equal(nil))

	other := *consensusState
	other.Timestamp = other.Timestamp.Add(time.Second)
	suite.Require().False(consensusState.Equal(&other))

	other = *consensusState
	other.Root = commitmenttypes.NewMerkleRoot([]byte("other"))
	suite.Require().False(consensusState.Equal(&other))

	other = *consensusState
	other.NextValidatorsHash = []byte("other")
	suite.Require().False(consensusState.Equal(&other))
}

func (suite *TendermintTestSuite) TestConsensusStateTimestamp() {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	consensusState := ibctm.NewConsensusState(now, commitmenttypes.NewMerkleRoot([]byte("app_hash")), suite.chainB.Vals.Hash())

	suite.Require().Equal(uint64(now.UnixNano()), consensusState.GetTimestamp())

	bz, err := clienttypes.MarshalConsensusState(suite.chainA.Codec, consensusState)
	suite.Require().NoError(err)

	decoded, err := clienttypes.UnmarshalConsensusState(suite.chainA.Codec, bz)
	suite.Require().NoError(err)
	suite.Require().True(consensusState.Equal(decoded.(*ibctm.ConsensusState)))
}
