package tendermint_test

import (
	"time"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
)

func (suite *TendermintTestSuite) TestGetHeightAndTime() {
	header := suite.chainB.LastHeader

	suite.Require().Equal(exported.Tendermint, header.ClientType())
	suite.Require().Equal(clienttypes.NewHeight(1, uint64(header.Header.Height)), header.GetHeight())
	suite.Require().Equal(header.Header.Time, header.GetTime())

	consensusState := header.ConsensusState()
	suite.Require().Equal(header.Header.Time, consensusState.Timestamp)
	suite.Require().Equal([]byte(header.Header.AppHash), consensusState.Root.GetHash())
	suite.Require().Equal(header.Header.NextValidatorsHash, consensusState.NextValidatorsHash)
}

func (suite *TendermintTestSuite) TestHeaderValidateBasic() {
	var header *ibctm.Header

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
		expErr   error
	}{
		{"valid header", func() {}, true, nil},
		{"valid header without trusted fields", func() {
			header.TrustedHeight = clienttypes.ZeroHeight()
			header.TrustedValidators = nil
		}, true, nil},
		{"signed header is nil", func() {
			header.SignedHeader = nil
		}, false, clienttypes.ErrInvalidHeader},
		{"tendermint header is nil", func() {
			header.SignedHeader.Header = nil
		}, false, clienttypes.ErrInvalidHeader},
		{"signed header fails basic validation", func() {
			header.SignedHeader.Commit.Height = header.Header.Height - 1
		}, false, nil},
		{"trusted height is equal to header height", func() {
			header.TrustedHeight = header.GetHeight()
		}, false, ibctm.ErrInvalidHeaderHeight},
		{"validator set is nil", func() {
			header.ValidatorSet = nil
		}, false, ibctm.ErrInvalidValidatorSet},
		{"validator set does not match the header", func() {
			header.ValidatorSet, _ = suite.altValidators()
		}, false, ibctm.ErrInvalidValidatorSet},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			header = suite.chainBHeader(int64(suite.latestHeight().RevisionHeight)+1, suite.chainB.CurrentHeader.Time.Add(-time.Second))

			tc.malleate()

			err := header.ValidateBasic()
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
