package solomachine_test

import (
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"

	solomachine "github.com/ComposableFi/ibc-core/modules/light-clients/06-solomachine"
)

func (suite *SoloMachineTestSuite) TestHeaderValidateBasic() {
	testCases := []struct {
		name     string
		malleate func(h *solomachine.Header)
		expPass  bool
	}{
		{"valid header", func(*solomachine.Header) {}, true},
		{"empty diversifier", func(h *solomachine.Header) { h.NewDiversifier = "" }, true},
		{"blank diversifier", func(h *solomachine.Header) { h.NewDiversifier = " " }, false},
		{"timestamp is zero", func(h *solomachine.Header) { h.Timestamp = 0 }, false},
		{"signature is empty", func(h *solomachine.Header) { h.Signature = nil }, false},
		{"public key is nil", func(h *solomachine.Header) { h.NewPublicKey = nil }, false},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			header := suite.solomachine.CreateHeader("diversifier")
			tc.malleate(header)

			err := header.ValidateBasic()
			if tc.expPass {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
			}
		})
	}
}

func (suite *SoloMachineTestSuite) TestMisbehaviourValidateBasic() {
	testCases := []struct {
		name     string
		malleate func(m *solomachine.Misbehaviour)
		expPass  bool
	}{
		{"valid misbehaviour", func(*solomachine.Misbehaviour) {}, true},
		{"invalid client id", func(m *solomachine.Misbehaviour) { m.ClientId = "(invalid)" }, false},
		{"sequence is zero", func(m *solomachine.Misbehaviour) { m.Sequence = 0 }, false},
		{"signature one is nil", func(m *solomachine.Misbehaviour) { m.SignatureOne = nil }, false},
		{"signature two has no data", func(m *solomachine.Misbehaviour) { m.SignatureTwo.Data = nil }, false},
		{"signature one has no path", func(m *solomachine.Misbehaviour) { m.SignatureOne.Path = nil }, false},
		{"signature two has no timestamp", func(m *solomachine.Misbehaviour) { m.SignatureTwo.Timestamp = 0 }, false},
		{"signature one is empty", func(m *solomachine.Misbehaviour) { m.SignatureOne.Signature = nil }, false},
		{"identical signatures", func(m *solomachine.Misbehaviour) { m.SignatureTwo.Signature = m.SignatureOne.Signature }, false},
		{
			"same data signed twice",
			func(m *solomachine.Misbehaviour) {
				m.SignatureTwo.Path = m.SignatureOne.Path
				m.SignatureTwo.Data = m.SignatureOne.Data
			},
			false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			misbehaviour := suite.solomachine.CreateMisbehaviour()
			tc.malleate(misbehaviour)

			err := misbehaviour.ValidateBasic()
			if tc.expPass {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
			}
		})
	}
}

func (suite *SoloMachineTestSuite) TestConsensusState() {
	consensusState := suite.solomachine.ConsensusState()

	suite.Require().NoError(consensusState.ValidateBasic())
	suite.Require().Nil(consensusState.GetRoot())
	suite.Require().Equal(suite.solomachine.Time, consensusState.GetTimestamp())

	pubKey, err := consensusState.GetPubKey()
	suite.Require().NoError(err)
	suite.Require().Equal(suite.solomachine.PublicKey, pubKey)
}

func (suite *SoloMachineTestSuite) TestVerifySignature() {
	data := []byte("testing")
	signature := suite.solomachine.GenerateSignature(data)

	suite.Require().NoError(solomachine.VerifySignature(suite.solomachine.PublicKey, data, signature))
	suite.Require().ErrorIs(solomachine.VerifySignature(suite.solomachine.PublicKey, []byte("other"), signature), solomachine.ErrSignatureVerificationFailed)
	suite.Require().ErrorIs(solomachine.VerifySignature(suite.solomachine.PublicKey, data, nil), solomachine.ErrSignatureVerificationFailed)
	suite.Require().ErrorIs(solomachine.VerifySignature(ed25519.GenPrivKey().PubKey(), data, signature), solomachine.ErrSignatureVerificationFailed)

	_, err := solomachine.PubKeyFromBytes([]byte("short"))
	suite.Require().Error(err)
}
