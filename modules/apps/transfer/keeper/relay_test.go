package keeper_test

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/ComposableFi/ibc-core/modules/apps/transfer/types"
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

// voucherDenom returns the denomination a token sent over path from
// EndpointA carries once received on EndpointB.
func voucherDenom(path *ibctesting.Path, fullDenomPath string) string {
	prefixed := types.GetPrefixedDenom(path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID, fullDenomPath)
	return types.ParseDenomTrace(prefixed).IBCDenom()
}

func (suite *KeeperTestSuite) TestSendTransfer() {
	var (
		path   *ibctesting.Path
		sender sdk.AccAddress
		amount sdk.Coin
	)

	testCases := []struct {
		name         string
		malleate     func()
		sourceIsHome bool
		expErr       error
	}{
		{
			"successful transfer from source chain",
			func() {},
			true,
			nil,
		},
		{
			"successful transfer of a voucher back to its source",
			func() {
				ctx := suite.chainA.GetContext()
				k := suite.chainA.GetSimApp().TransferKeeper

				trace := types.ParseDenomTrace(types.GetPrefixedDenom(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, sdk.DefaultBondDenom))
				k.SetDenomTrace(ctx, trace)

				amount = sdk.NewCoin(trace.IBCDenom(), sdk.NewInt(100))
				suite.Require().NoError(k.Ledger().Mint(ctx, sender, amount))
			},
			false,
			nil,
		},
		{
			"send disabled",
			func() {
				suite.chainA.GetSimApp().TransferKeeper.SetParams(suite.chainA.GetContext(), types.NewParams(false, true))
			},
			true,
			types.ErrSendDisabled,
		},
		{
			"source channel not found",
			func() {
				path.EndpointA.ChannelID = ibctesting.InvalidID
			},
			true,
			channeltypes.ErrChannelNotFound,
		},
		{
			"denom trace not found",
			func() {
				amount = sdk.NewCoin(types.ParseDenomTrace("transfer/channel-9/uatom").IBCDenom(), sdk.NewInt(100))
			},
			false,
			types.ErrTraceNotFound,
		},
		{
			"insufficient funds to escrow",
			func() {
				amount = sdk.NewCoin(sdk.DefaultBondDenom, ibctesting.DefaultGenesisAccBalance.AddRaw(1))
			},
			true,
			sdkerrors.ErrInsufficientFunds,
		},
		{
			"voucher not held by sender",
			func() {
				trace := types.ParseDenomTrace(types.GetPrefixedDenom(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, sdk.DefaultBondDenom))
				suite.chainA.GetSimApp().TransferKeeper.SetDenomTrace(suite.chainA.GetContext(), trace)

				amount = sdk.NewCoin(trace.IBCDenom(), sdk.NewInt(100))
			},
			false,
			sdkerrors.ErrInsufficientFunds,
		},
		{
			"channel is closed",
			func() {
				suite.Require().NoError(path.EndpointA.SetChannelState(channeltypes.CLOSED))
			},
			true,
			channeltypes.ErrChannelNotOpen,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			path = ibctesting.NewTransferPath(suite.chainA, suite.chainB)
			path.Setup()

			sender = suite.chainA.SenderAccount.GetAddress()
			amount = sdk.NewCoin(sdk.DefaultBondDenom, sdk.NewInt(100))

			tc.malleate()

			ctx := suite.chainA.GetContext()
			k := suite.chainA.GetSimApp().TransferKeeper

			sequence, err := k.SendTransfer(
				ctx, path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, amount,
				sender, suite.chainB.SenderAccount.GetAddress().String(), suite.chainB.GetTimeoutHeight(), 0,
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(uint64(1), sequence)

			commitment := suite.chainA.App.IBCKeeper.ChannelKeeper.GetPacketCommitment(ctx, path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, sequence)
			suite.Require().NotEmpty(commitment)

			escrow := types.GetEscrowAddress(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)
			if tc.sourceIsHome {
				suite.Require().Equal(amount, k.Ledger().GetBalance(ctx, escrow, amount.Denom))
			} else {
				// vouchers are burned instead of escrowed
				suite.Require().True(k.Ledger().GetBalance(ctx, escrow, amount.Denom).IsZero())
				suite.Require().True(k.Ledger().GetBalance(ctx, sender, amount.Denom).IsZero())
			}
		})
	}
}

func (suite *KeeperTestSuite) TestOnRecvPacket() {
	var (
		path     *ibctesting.Path
		data     types.FungibleTokenPacketData
		receiver sdk.AccAddress
		expDenom string
	)

	amount := sdk.NewInt(100)

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
		expErr   error
	}{
		{
			"success: mint vouchers for a token native to the sender chain",
			func() {},
			true,
			nil,
		},
		{
			"success: mint vouchers for a multi-hop token",
			func() {
				data.Denom = "transfer/channel-5/uatom"
				expDenom = voucherDenom(path, data.Denom)
			},
			true,
			nil,
		},
		{
			"success: unescrow a token returning to its source",
			func() {
				ctx := suite.chainB.GetContext()
				escrow := types.GetEscrowAddress(path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID)
				coin := sdk.NewCoin(sdk.DefaultBondDenom, amount)
				suite.Require().NoError(suite.chainB.GetSimApp().TransferKeeper.Ledger().Escrow(ctx, suite.chainB.SenderAccount.GetAddress(), escrow, coin))

				data.Denom = types.GetPrefixedDenom(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, sdk.DefaultBondDenom)
				expDenom = sdk.DefaultBondDenom
			},
			true,
			nil,
		},
		{
			"escrow holds too little to unescrow",
			func() {
				data.Denom = types.GetPrefixedDenom(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, sdk.DefaultBondDenom)
			},
			false,
			sdkerrors.ErrInsufficientFunds,
		},
		{
			"receive disabled",
			func() {
				suite.chainB.GetSimApp().TransferKeeper.SetParams(suite.chainB.GetContext(), types.NewParams(true, false))
			},
			false,
			types.ErrReceiveDisabled,
		},
		{
			"invalid amount",
			func() {
				data.Amount = "-1"
			},
			false,
			types.ErrInvalidAmount,
		},
		{
			"amount not a number",
			func() {
				data.Amount = "one hundred"
			},
			false,
			types.ErrInvalidAmount,
		},
		{
			"invalid receiver address",
			func() {
				data.Receiver = "cosmos1invalid"
			},
			false,
			nil,
		},
		{
			"blank denom",
			func() {
				data.Denom = ""
			},
			false,
			nil,
		},
		{
			"receiver is a blocked module account",
			func() {
				receiver = suite.chainB.GetSimApp().AccountKeeper.GetModuleAddress(stakingtypes.BondedPoolName)
				data.Receiver = receiver.String()
			},
			false,
			ibcerrors.ErrUnauthorized,
		},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			path = ibctesting.NewTransferPath(suite.chainA, suite.chainB)
			path.Setup()

			receiver = suite.chainB.SenderAccount.GetAddress()
			data = types.NewFungibleTokenPacketData(sdk.DefaultBondDenom, amount.String(), suite.chainA.SenderAccount.GetAddress().String(), receiver.String())
			expDenom = voucherDenom(path, sdk.DefaultBondDenom)

			tc.malleate()

			packet := channeltypes.NewPacket(
				data.GetBytes(), 1,
				path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
				path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
				suite.chainB.GetTimeoutHeight(), 0,
			)

			ctx := suite.chainB.GetContext()
			k := suite.chainB.GetSimApp().TransferKeeper
			balanceBefore := k.Ledger().GetBalance(ctx, receiver, expDenom)

			err := k.OnRecvPacket(ctx, packet, data)

			if !tc.expPass {
				suite.Require().Error(err)
				if tc.expErr != nil {
					suite.Require().ErrorIs(err, tc.expErr)
				}
				return
			}

			suite.Require().NoError(err)
			balance := k.Ledger().GetBalance(ctx, receiver, expDenom)
			suite.Require().Equal(balanceBefore.Amount.Add(amount), balance.Amount)

			if expDenom != sdk.DefaultBondDenom {
				trace := types.ParseDenomTrace(types.GetPrefixedDenom(path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID, data.Denom))
				suite.Require().True(k.HasDenomTrace(ctx, trace.Hash()))
			}
		})
	}
}

func (suite *KeeperTestSuite) TestRefundPacketToken() {
	var (
		path   *ibctesting.Path
		data   types.FungibleTokenPacketData
		sender sdk.AccAddress
		denom  string
	)

	amount := sdk.NewInt(100)

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
		expErr   error
	}{
		{
			"unescrow a native token",
			func() {
				ctx := suite.chainA.GetContext()
				escrow := types.GetEscrowAddress(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)
				coin := sdk.NewCoin(sdk.DefaultBondDenom, amount)
				suite.Require().NoError(suite.chainA.GetSimApp().TransferKeeper.Ledger().Escrow(ctx, sender, escrow, coin))
			},
			true,
			nil,
		},
		{
			"mint back a burned voucher",
			func() {
				data.Denom = types.GetPrefixedDenom(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, sdk.DefaultBondDenom)
				denom = types.ParseDenomTrace(data.Denom).IBCDenom()
			},
			true,
			nil,
		},
		{
			"escrow is empty",
			func() {},
			false,
			sdkerrors.ErrInsufficientFunds,
		},
		{
			"invalid amount",
			func() {
				data.Amount = "abc"
			},
			false,
			types.ErrInvalidAmount,
		},
		{
			"invalid sender",
			func() {
				data.Sender = "cosmos1invalid"
			},
			false,
			nil,
		},
	}

	for _, tc := range testCases {
		tc := tc

		refunds := map[string]func(ctx sdk.Context, packet channeltypes.Packet) error{
			"timeout": func(ctx sdk.Context, packet channeltypes.Packet) error {
				return suite.chainA.GetSimApp().TransferKeeper.OnTimeoutPacket(ctx, packet, data)
			},
			"error acknowledgement": func(ctx sdk.Context, packet channeltypes.Packet) error {
				ack := channeltypes.NewErrorAcknowledgement(types.ErrReceiveDisabled)
				return suite.chainA.GetSimApp().TransferKeeper.OnAcknowledgementPacket(ctx, packet, data, ack)
			},
		}

		for trigger, refund := range refunds {
			refund := refund
			suite.Run(tc.name+" on "+trigger, func() {
				suite.SetupTest()

				path = ibctesting.NewTransferPath(suite.chainA, suite.chainB)
				path.Setup()

				sender = suite.chainA.SenderAccount.GetAddress()
				data = types.NewFungibleTokenPacketData(sdk.DefaultBondDenom, amount.String(), sender.String(), suite.chainB.SenderAccount.GetAddress().String())
				denom = sdk.DefaultBondDenom

				tc.malleate()

				packet := channeltypes.NewPacket(
					data.GetBytes(), 1,
					path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
					path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
					suite.chainB.GetTimeoutHeight(), 0,
				)

				ctx := suite.chainA.GetContext()
				ledger := suite.chainA.GetSimApp().TransferKeeper.Ledger()
				balanceBefore := ledger.GetBalance(ctx, sender, denom)

				err := refund(ctx, packet)

				if !tc.expPass {
					suite.Require().Error(err)
					if tc.expErr != nil {
						suite.Require().ErrorIs(err, tc.expErr)
					}
					return
				}

				suite.Require().NoError(err)
				suite.Require().Equal(balanceBefore.Amount.Add(amount), ledger.GetBalance(ctx, sender, denom).Amount)
			})
		}
	}
}

func (suite *KeeperTestSuite) TestOnAcknowledgementPacketSuccess() {
	path := ibctesting.NewTransferPath(suite.chainA, suite.chainB)
	path.Setup()

	sender := suite.chainA.SenderAccount.GetAddress()
	data := types.NewFungibleTokenPacketData(sdk.DefaultBondDenom, "100", sender.String(), suite.chainB.SenderAccount.GetAddress().String())
	packet := channeltypes.NewPacket(
		data.GetBytes(), 1,
		path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
		path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
		suite.chainB.GetTimeoutHeight(), 0,
	)

	ctx := suite.chainA.GetContext()
	k := suite.chainA.GetSimApp().TransferKeeper
	balanceBefore := k.Ledger().GetBalance(ctx, sender, sdk.DefaultBondDenom)

	// a successful acknowledgement leaves the escrow untouched
	err := k.OnAcknowledgementPacket(ctx, packet, data, channeltypes.NewResultAcknowledgement([]byte{byte(1)}))
	suite.Require().NoError(err)
	suite.Require().Equal(balanceBefore, k.Ledger().GetBalance(ctx, sender, sdk.DefaultBondDenom))
}

// TestTransferRoundTrip sends a native token A -> B -> C and then unwinds it
// C -> B -> A, relaying every packet through the handshaken channels.
func (suite *KeeperTestSuite) TestTransferRoundTrip() {
	pathAB := ibctesting.NewTransferPath(suite.chainA, suite.chainB)
	pathAB.Setup()
	pathBC := ibctesting.NewTransferPath(suite.chainB, suite.chainC)
	pathBC.Setup()

	amount := sdk.NewInt(100)
	senderA := suite.chainA.SenderAccount.GetAddress()
	senderB := suite.chainB.SenderAccount.GetAddress()
	senderC := suite.chainC.SenderAccount.GetAddress()

	transfer := func(path *ibctesting.Path, src *ibctesting.Endpoint, denom string, from, to sdk.AccAddress) []byte {
		msg := types.NewMsgTransfer(
			src.ChannelConfig.PortID, src.ChannelID,
			sdk.NewCoin(denom, amount), from.String(), to.String(),
			src.Counterparty.Chain.GetTimeoutHeight(), 0,
		)
		events, err := src.Chain.SendMsgs(msg)
		suite.Require().NoError(err)

		packet, err := ibctesting.ParsePacketFromEvents(events)
		suite.Require().NoError(err)

		_, ack, err := path.RelayPacketWithResults(packet)
		suite.Require().NoError(err)
		return ack
	}

	successAck := channeltypes.NewResultAcknowledgement([]byte{byte(1)}).Acknowledgement()

	// A -> B: A escrows, B mints transfer/channel-0/stake
	ack := transfer(pathAB, pathAB.EndpointA, sdk.DefaultBondDenom, senderA, senderB)
	suite.Require().Equal(successAck, ack)

	escrowA := types.GetEscrowAddress(pathAB.EndpointA.ChannelConfig.PortID, pathAB.EndpointA.ChannelID)
	suite.Require().Equal(amount, suite.chainA.GetSimApp().BankKeeper.GetBalance(suite.chainA.GetContext(), escrowA, sdk.DefaultBondDenom).Amount)

	denomB := voucherDenom(pathAB, sdk.DefaultBondDenom)
	suite.Require().Equal(amount, suite.chainB.GetSimApp().BankKeeper.GetBalance(suite.chainB.GetContext(), senderB, denomB).Amount)

	// B -> C: B is the source of the new hop so the voucher is escrowed
	fullPathB := types.GetPrefixedDenom(pathAB.EndpointB.ChannelConfig.PortID, pathAB.EndpointB.ChannelID, sdk.DefaultBondDenom)
	ack = transfer(pathBC, pathBC.EndpointA, denomB, senderB, senderC)
	suite.Require().Equal(successAck, ack)

	escrowB := types.GetEscrowAddress(pathBC.EndpointA.ChannelConfig.PortID, pathBC.EndpointA.ChannelID)
	suite.Require().Equal(amount, suite.chainB.GetSimApp().BankKeeper.GetBalance(suite.chainB.GetContext(), escrowB, denomB).Amount)

	denomC := voucherDenom(pathBC, fullPathB)
	suite.Require().Equal(amount, suite.chainC.GetSimApp().BankKeeper.GetBalance(suite.chainC.GetContext(), senderC, denomC).Amount)

	trace, found := suite.chainC.GetSimApp().TransferKeeper.GetDenomTrace(suite.chainC.GetContext(), types.ParseDenomTrace(types.GetPrefixedDenom(pathBC.EndpointB.ChannelConfig.PortID, pathBC.EndpointB.ChannelID, fullPathB)).Hash())
	suite.Require().True(found)
	suite.Require().Equal(sdk.DefaultBondDenom, trace.BaseDenom)

	// C -> B: C burns, B unescrows
	ack = transfer(pathBC, pathBC.EndpointB, denomC, senderC, senderB)
	suite.Require().Equal(successAck, ack)

	suite.Require().True(suite.chainC.GetSimApp().BankKeeper.GetBalance(suite.chainC.GetContext(), senderC, denomC).IsZero())
	suite.Require().True(suite.chainB.GetSimApp().BankKeeper.GetBalance(suite.chainB.GetContext(), escrowB, denomB).IsZero())
	suite.Require().Equal(amount, suite.chainB.GetSimApp().BankKeeper.GetBalance(suite.chainB.GetContext(), senderB, denomB).Amount)

	// B -> A: B burns, A unescrows
	ack = transfer(pathAB, pathAB.EndpointB, denomB, senderB, senderA)
	suite.Require().Equal(successAck, ack)

	suite.Require().True(suite.chainB.GetSimApp().BankKeeper.GetBalance(suite.chainB.GetContext(), senderB, denomB).IsZero())
	suite.Require().True(suite.chainA.GetSimApp().BankKeeper.GetBalance(suite.chainA.GetContext(), escrowA, sdk.DefaultBondDenom).IsZero())
	suite.Require().Equal(ibctesting.DefaultGenesisAccBalance, suite.chainA.GetSimApp().BankKeeper.GetBalance(suite.chainA.GetContext(), senderA, sdk.DefaultBondDenom).Amount)
}

// TestTransferRefunds checks the sender gets their tokens back when the
// receiving chain rejects the packet and when the packet times out.
func (suite *KeeperTestSuite) TestTransferRefunds() {
	path := ibctesting.NewTransferPath(suite.chainA, suite.chainB)
	path.Setup()

	sender := suite.chainA.SenderAccount.GetAddress()
	coin := sdk.NewCoin(sdk.DefaultBondDenom, sdk.NewInt(100))
	bank := suite.chainA.GetSimApp().BankKeeper
	escrow := types.GetEscrowAddress(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)

	// rejected: chainB has receiving disabled and writes an error acknowledgement
	suite.chainB.GetSimApp().TransferKeeper.SetParams(suite.chainB.GetContext(), types.NewParams(true, false))

	msg := types.NewMsgTransfer(
		path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID, coin,
		sender.String(), suite.chainB.SenderAccount.GetAddress().String(), suite.chainB.GetTimeoutHeight(), 0,
	)
	events, err := suite.chainA.SendMsgs(msg)
	suite.Require().NoError(err)
	packet, err := ibctesting.ParsePacketFromEvents(events)
	suite.Require().NoError(err)

	_, ack, err := path.RelayPacketWithResults(packet)
	suite.Require().NoError(err)

	acknowledgement, err := channeltypes.UnmarshalAcknowledgement(ack)
	suite.Require().NoError(err)
	suite.Require().False(acknowledgement.Success())

	suite.Require().True(bank.GetBalance(suite.chainA.GetContext(), escrow, sdk.DefaultBondDenom).IsZero())
	suite.Require().Equal(ibctesting.DefaultGenesisAccBalance, bank.GetBalance(suite.chainA.GetContext(), sender, sdk.DefaultBondDenom).Amount)

	// timed out: the packet expires one height past what chainA's client knows
	latest := path.EndpointA.GetClientState().GetLatestHeight()
	msg.TimeoutHeight = clienttypes.NewHeight(latest.GetRevisionNumber(), latest.GetRevisionHeight()+1)

	events, err = suite.chainA.SendMsgs(msg)
	suite.Require().NoError(err)
	packet, err = ibctesting.ParsePacketFromEvents(events)
	suite.Require().NoError(err)

	suite.Require().Equal(coin, bank.GetBalance(suite.chainA.GetContext(), escrow, sdk.DefaultBondDenom))

	suite.coordinator.CommitNBlocks(suite.chainB, 3)
	suite.Require().NoError(path.EndpointA.UpdateClient())
	suite.Require().NoError(path.EndpointA.TimeoutPacket(packet))

	suite.Require().True(bank.GetBalance(suite.chainA.GetContext(), escrow, sdk.DefaultBondDenom).IsZero())
	suite.Require().Equal(ibctesting.DefaultGenesisAccBalance, bank.GetBalance(suite.chainA.GetContext(), sender, sdk.DefaultBondDenom).Amount)
}
