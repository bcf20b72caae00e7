package keeper_test

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ComposableFi/ibc-core/modules/apps/transfer/keeper"
	"github.com/ComposableFi/ibc-core/modules/apps/transfer/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

func (suite *KeeperTestSuite) TestMsgTransfer() {
	var msg *types.MsgTransfer

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
			"send disabled",
			func() {
				suite.chainA.GetSimApp().TransferKeeper.SetParams(suite.chainA.GetContext(), types.NewParams(false, true))
			},
			false,
		},
		{
			"invalid sender",
			func() {
				msg.Sender = "address"
			},
			false,
		},
		{
			"channel does not exist",
			func() {
				msg.SourceChannel = "channel-100"
			},
			false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			path := ibctesting.NewTransferPath(suite.chainA, suite.chainB)
			path.Setup()

			coin := sdk.NewCoin(sdk.DefaultBondDenom, sdk.NewInt(100))
			msg = types.NewMsgTransfer(
				path.EndpointA.ChannelConfig.PortID,
				path.EndpointA.ChannelID,
				coin, suite.chainA.SenderAccount.GetAddress().String(), suite.chainB.SenderAccount.GetAddress().String(),
				suite.chainB.GetTimeoutHeight(), 0,
			)

			tc.malleate()

			ctx := suite.chainA.GetContext()
			sequence, err := suite.chainA.GetSimApp().TransferKeeper.Transfer(ctx, msg)

			if !tc.expPass {
				suite.Require().Error(err)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(uint64(1), sequence)

			ibctesting.AssertEvents(&suite.Suite, sdk.Events{
				sdk.NewEvent(
					types.EventTypeTransfer,
					sdk.NewAttribute(sdk.AttributeKeySender, msg.Sender),
					sdk.NewAttribute(types.AttributeKeyReceiver, msg.Receiver),
					sdk.NewAttribute(types.AttributeKeyDenom, coin.Denom),
					sdk.NewAttribute(types.AttributeKeyAmount, coin.Amount.String()),
				),
			}, ctx.EventManager().Events())
		})
	}
}

func (suite *KeeperTestSuite) TestMsgHandler() {
	path := ibctesting.NewTransferPath(suite.chainA, suite.chainB)
	path.Setup()

	handler := keeper.NewMsgHandler(suite.chainA.GetSimApp().TransferKeeper)
	ctx := suite.chainA.GetContext()

	// messages of other applications are left to the next handler
	handled, err := handler(ctx, channeltypes.NewMsgChannelCloseInit(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, suite.chainA.GetSenderAddress()))
	suite.Require().False(handled)
	suite.Require().NoError(err)

	msg := types.NewMsgTransfer(
		path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
		sdk.NewCoin(sdk.DefaultBondDenom, sdk.NewInt(100)),
		suite.chainA.SenderAccount.GetAddress().String(), suite.chainB.SenderAccount.GetAddress().String(),
		suite.chainB.GetTimeoutHeight(), 0,
	)

	handled, err = handler(ctx, msg)
	suite.Require().True(handled)
	suite.Require().NoError(err)

	// routed through the core handler the transfer emits the send_packet event
	events, err := suite.chainA.SendMsgs(msg)
	suite.Require().NoError(err)

	packet, err := ibctesting.ParsePacketFromEvents(events)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), packet.GetSequence())
}
