package beefy_test

import (
	"time"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	beefy "github.com/ComposableFi/ibc-core/modules/light-clients/11-beefy"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

// otherMessage is a client message of another light client.
type otherMessage struct{}

func (otherMessage) ClientType() string   { return exported.Tendermint }
func (otherMessage) ValidateBasic() error { return nil }

func (suite *BeefyTestSuite) TestVerifyClientMessage() {
	var header *beefy.Header

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{
			"success: commitment signed by two thirds of the authorities",
			func() {
				commitment := header.MmrUpdateProof.SignedCommitment.Commitment
				header.MmrUpdateProof.SignedCommitment, header.MmrUpdateProof.AuthoritiesProof = suite.relay.Authorities.Sign(commitment, 0, 2, 3)
			},
			nil,
		},
		{
			"no parachain headers",
			func() { header.ParachainHeaders = nil },
			clienttypes.ErrInvalidHeader,
		},
		{
			"commitment is not final",
			func() {
				header.MmrUpdateProof.SignedCommitment.Signatures = header.MmrUpdateProof.SignedCommitment.Signatures[:2]
			},
			beefy.ErrCommitmentNotFinal,
		},
		{
			"unknown validator set id",
			func() { header.MmrUpdateProof.SignedCommitment.Commitment.ValidatorSetId = 7 },
			beefy.ErrAuthoritySetUnknown,
		},
		{
			"duplicate authority index",
			func() {
				signatures := header.MmrUpdateProof.SignedCommitment.Signatures
				signatures[1] = signatures[0]
			},
			beefy.ErrInvalidCommitmentSignature,
		},
		{
			"authority index out of range",
			func() { header.MmrUpdateProof.SignedCommitment.Signatures[0].AuthorityIndex = 4 },
			beefy.ErrInvalidCommitmentSignature,
		},
		{
			"malformed signature",
			func() { header.MmrUpdateProof.SignedCommitment.Signatures[0].Signature = []byte("signature") },
			beefy.ErrInvalidCommitmentSignature,
		},
		{
			"signed by authorities outside the set",
			func() {
				outsiders := ibctesting.NewBeefyAuthorities(suite.T(), suite.relay.Authorities.Id)
				commitment := header.MmrUpdateProof.SignedCommitment.Commitment
				header.MmrUpdateProof.SignedCommitment, header.MmrUpdateProof.AuthoritiesProof = outsiders.Sign(commitment, outsiders.All()...)
			},
			beefy.ErrAuthoritySetUnknown,
		},
		{
			"commitment altered after signing",
			func() { header.MmrUpdateProof.SignedCommitment.Commitment.BlockNumber++ },
			beefy.ErrAuthoritySetUnknown,
		},
		{
			"mmr leaf is not committed to",
			func() { header.MmrUpdateProof.MmrLeaf.ParachainHeads[0] ^= 1 },
			beefy.ErrFailedVerifyMMRLeaf,
		},
		{
			"parachain header of another para",
			func() { header.ParachainHeaders[0].ParaId++ },
			beefy.ErrInvalidParachainHeader,
		},
		{
			"tampered parachain heads proof",
			func() { header.ParachainHeaders[0].ParachainHeadsProof[0] = stateRoot("sibling") },
			beefy.ErrFailedVerifyMMRLeaf,
		},
		{
			"tampered partial mmr leaf",
			func() { header.ParachainHeaders[0].MmrLeafPartial.ParentHash[0] ^= 1 },
			beefy.ErrFailedVerifyMMRLeaf,
		},
		{
			"parachain header precedes beefy activation",
			func() { header.ParachainHeaders[0].MmrLeafPartial.ParentNumber = 0 },
			beefy.ErrInvalidHeaderHeight,
		},
		{
			"timestamp extrinsic does not match its proof",
			func() {
				header.ParachainHeaders[0].TimestampExtrinsic = suite.relay.TimestampExtrinsic(suite.relay.Time.Add(time.Hour))
			},
			beefy.ErrInvalidTimestampProof,
		},
		{
			"parachain header committed to an mmr root unknown to the client",
			func() { header.MmrUpdateProof = nil },
			beefy.ErrFailedVerifyMMRLeaf,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			header = suite.relay.NextHeader(stateRoot("block 2"))
			tc.malleate()

			ctx := suite.chainA.GetContext()
			err := suite.clientState().VerifyClientMessage(ctx, suite.chainA.Codec, suite.clientStore(ctx), header)
			if tc.expErr == nil {
				suite.Require().NoError(err)
				return
			}
			suite.Require().ErrorIs(err, tc.expErr)
		})
	}
}

func (suite *BeefyTestSuite) TestVerifyClientMessageType() {
	ctx := suite.chainA.GetContext()
	err := suite.clientState().VerifyClientMessage(ctx, suite.chainA.Codec, suite.clientStore(ctx), otherMessage{})
	suite.Require().ErrorIs(err, clienttypes.ErrInvalidClientType)
}

// TestStaleCommitment checks that a commitment not newer than the latest
// beefy height is still verified but leaves the mmr root unchanged.
func (suite *BeefyTestSuite) TestStaleCommitment() {
	suite.relay.UpdateClient(suite.chainA, suite.clientID, stateRoot("block 2"))
	clientState := suite.clientState()

	header := suite.relay.NextHeader(stateRoot("block 3"))
	header.MmrUpdateProof.SignedCommitment.Commitment.BlockNumber = clientState.LatestBeefyHeight
	commitment := header.MmrUpdateProof.SignedCommitment.Commitment

	ctx := suite.chainA.GetContext()

	// the stale commitment does not move the client to the new mmr root
	header.MmrUpdateProof.SignedCommitment, header.MmrUpdateProof.AuthoritiesProof = suite.relay.Authorities.Sign(commitment, suite.relay.Authorities.All()...)
	err := clientState.VerifyClientMessage(ctx, suite.chainA.Codec, suite.clientStore(ctx), header)
	suite.Require().ErrorIs(err, beefy.ErrFailedVerifyMMRLeaf)

	// its signatures are still checked
	header.MmrUpdateProof.SignedCommitment.Signatures = header.MmrUpdateProof.SignedCommitment.Signatures[:1]
	err = clientState.VerifyClientMessage(ctx, suite.chainA.Codec, suite.clientStore(ctx), header)
	suite.Require().ErrorIs(err, beefy.ErrCommitmentNotFinal)
}

func (suite *BeefyTestSuite) TestCheckForMisbehaviour() {
	ctx := suite.chainA.GetContext()
	clientState := suite.clientState()

	// a header at a new height
	header := suite.relay.NextHeader(stateRoot("block 2"))
	suite.Require().False(clientState.CheckForMisbehaviour(ctx, suite.chainA.Codec, suite.clientStore(ctx), header))

	_, err := suite.chainA.SendMsgs(clienttypes.NewMsgUpdateClient(suite.clientID, header, suite.chainA.GetSenderAddress()))
	suite.Require().NoError(err)

	// the same header once applied
	ctx = suite.chainA.GetContext()
	suite.Require().False(clientState.CheckForMisbehaviour(ctx, suite.chainA.Codec, suite.clientStore(ctx), header))

	// a header conflicting with the consensus state at height 2
	conflicting := suite.relay.CreateHeader(2, stateRoot("fork of block 2"), suite.relay.Time, false)
	suite.Require().True(clientState.CheckForMisbehaviour(ctx, suite.chainA.Codec, suite.clientStore(ctx), conflicting))

	suite.Require().False(clientState.CheckForMisbehaviour(ctx, suite.chainA.Codec, suite.clientStore(ctx), otherMessage{}))
}
