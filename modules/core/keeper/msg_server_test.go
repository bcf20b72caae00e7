package keeper_test

import (
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/ComposableFi/ibc-core/modules/core/05-port/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	coretypes "github.com/ComposableFi/ibc-core/modules/core/types"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
	"github.com/ComposableFi/ibc-core/testing/mock"
)

// unknownMsg is a valid message which no handler accepts.
type unknownMsg struct{}

func (unknownMsg) ValidateBasic() error { return nil }

func hasEvent(events sdk.Events, eventType string) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// sendPacket sends data from chainA over the path and returns the committed packet.
func (suite *KeeperTestSuite) sendPacket(path *ibctesting.Path, data []byte, timeoutHeight clienttypes.Height) channeltypes.Packet {
	sequence, err := path.EndpointA.SendPacket(timeoutHeight, 0, data)
	suite.Require().NoError(err)

	return channeltypes.NewPacket(
		data, sequence,
		path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
		path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
		timeoutHeight, 0,
	)
}

// recvMsg builds a MsgRecvPacket for chainB proving the packet commitment on chainA.
func (suite *KeeperTestSuite) recvMsg(path *ibctesting.Path, packet channeltypes.Packet) *channeltypes.MsgRecvPacket {
	packetKey := host.PacketCommitmentKey(packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())
	proof, proofHeight := path.EndpointA.QueryProof(packetKey)

	return channeltypes.NewMsgRecvPacket(packet, proof, proofHeight, suite.chainB.GetSenderAddress())
}

// ackMsg builds a MsgAcknowledgement for chainA proving the acknowledgement on chainB.
func (suite *KeeperTestSuite) ackMsg(path *ibctesting.Path, packet channeltypes.Packet, ack []byte) *channeltypes.MsgAcknowledgement {
	ackKey := host.PacketAcknowledgementKey(packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
	proof, proofHeight := path.EndpointB.QueryProof(ackKey)

	return channeltypes.NewMsgAcknowledgement(packet, ack, proof, proofHeight, suite.chainA.GetSenderAddress())
}

func (suite *KeeperTestSuite) TestDispatch() {
	testCases := []struct {
		name   string
		msg    func() exported.Msg
		expErr error
	}{
		{"nil message", func() exported.Msg {
			return nil
		}, ibcerrors.ErrUnknownRequest},
		{"unknown message type", func() exported.Msg {
			return unknownMsg{}
		}, ibcerrors.ErrUnknownRequest},
		{"message fails basic validation", func() exported.Msg {
			return channeltypes.NewMsgRecvPacket(channeltypes.Packet{}, nil, clienttypes.NewHeight(0, 1), suite.chainA.GetSenderAddress())
		}, nil},
		{"port has no application bound", func() exported.Msg {
			return channeltypes.NewMsgChannelOpenInit(
				"unbound", ibctesting.DefaultChannelVersion, channeltypes.UNORDERED,
				[]string{ibctesting.FirstConnectionID}, ibctesting.MockPort, suite.chainA.GetSenderAddress(),
			)
		}, porttypes.ErrInvalidPort},
		{"handshake step fails", func() exported.Msg {
			return channeltypes.NewMsgChannelOpenInit(
				ibctesting.MockPort, ibctesting.DefaultChannelVersion, channeltypes.UNORDERED,
				[]string{"connection-100"}, ibctesting.MockPort, suite.chainA.GetSenderAddress(),
			)
		}, connectiontypes.ErrConnectionNotFound},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()

			ctx := suite.chainA.GetContext()
			events, err := suite.chainA.App.IBCKeeper.Dispatch(ctx, tc.msg())

			suite.Require().Error(err)
			suite.Require().Empty(events)
			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
			}

			// nothing is written by a failed message
			suite.Require().Empty(ctx.EventManager().Events())
			suite.Require().Equal(uint64(0), suite.chainA.App.IBCKeeper.ChannelKeeper.GetNextChannelSequence(suite.chainA.GetContext()))
		})
	}
}

// TestChannelOpenInitCallbackFailure checks that a rejected channel is never written.
func (suite *KeeperTestSuite) TestChannelOpenInitCallbackFailure() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.coordinator.SetupConnections(path)

	suite.chainA.App.MockApp.OnChanOpenInit = func(
		sdk.Context, channeltypes.Order, []string, string, string, channeltypes.Counterparty, string,
	) (string, error) {
		return "", mock.MockApplicationCallbackError
	}

	err := path.EndpointA.ChanOpenInit()
	suite.Require().ErrorIs(err, mock.MockApplicationCallbackError)

	suite.Require().Empty(suite.chainA.App.IBCKeeper.ChannelKeeper.GetAllChannels(suite.chainA.GetContext()))
	suite.Require().Equal(uint64(0), suite.chainA.App.IBCKeeper.ChannelKeeper.GetNextChannelSequence(suite.chainA.GetContext()))
}

// TestChannelCloseCallbackFailure checks that channels close even when the
// application rejects the close.
func (suite *KeeperTestSuite) TestChannelCloseCallbackFailure() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.coordinator.Setup(path)

	suite.chainA.App.MockApp.OnChanCloseInit = func(sdk.Context, string, string) error {
		return mock.MockApplicationCallbackError
	}
	suite.chainB.App.MockApp.OnChanCloseConfirm = func(sdk.Context, string, string) error {
		return mock.MockApplicationCallbackError
	}

	suite.Require().NoError(path.EndpointA.ChanCloseInit())
	suite.Require().Equal(channeltypes.CLOSED, path.EndpointA.GetChannel().State)

	suite.Require().NoError(path.EndpointB.ChanCloseConfirm())
	suite.Require().Equal(channeltypes.CLOSED, path.EndpointB.GetChannel().State)
}

func (suite *KeeperTestSuite) TestDispatchRecvPacket() {
	var (
		path   *ibctesting.Path
		packet channeltypes.Packet
	)

	testCases := []struct {
		name     string
		data     []byte
		malleate func()
		expErr   error
		expAck   []byte
	}{
		{"success: synchronous acknowledgement", ibctesting.MockPacketData, func() {}, nil, ibctesting.MockAcknowledgement},
		{"success: asynchronous acknowledgement", mock.MockAsyncPacketData, func() {}, nil, nil},
		{"success: error acknowledgement", ibctesting.MockFailPacketData, func() {}, nil, mock.MockFailAcknowledgement.Acknowledgement()},
		{"redundant relay", ibctesting.MockPacketData, func() {
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
		}, channeltypes.ErrPacketReceived, nil},
		{"receive verification fails", ibctesting.MockPacketData, func() {
			packet.Data = []byte("never sent")
		}, clienttypes.ErrFailedPacketCommitmentVerification, nil},
		{"port has no application bound", ibctesting.MockPacketData, func() {
			packet.DestinationPort = "unbound"
		}, porttypes.ErrInvalidPort, nil},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.Setup(path)

			packet = suite.sendPacket(path, tc.data, suite.chainB.GetTimeoutHeight())

			tc.malleate()

			msg := suite.recvMsg(path, packet)
			events, err := suite.chainB.App.IBCKeeper.Dispatch(suite.chainB.GetContext(), msg)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().True(hasEvent(events, channeltypes.EventTypeRecvPacket))

			ctx := suite.chainB.GetContext()
			_, found := suite.chainB.App.IBCKeeper.ChannelKeeper.GetPacketReceipt(ctx, packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
			suite.Require().True(found)

			stored, found := suite.chainB.App.IBCKeeper.ChannelKeeper.GetPacketAcknowledgement(ctx, packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
			if tc.expAck == nil {
				suite.Require().False(found)
				suite.Require().False(hasEvent(events, channeltypes.EventTypeWriteAck))
				return
			}

			suite.Require().True(found)
			suite.Require().Equal(channeltypes.CommitAcknowledgement(tc.expAck), stored)
			suite.Require().True(hasEvent(events, channeltypes.EventTypeWriteAck))
		})
	}
}

// TestRecvPacketCallbackState checks that state written by the receiving application
// is kept for successful acknowledgements and discarded for error acknowledgements.
func (suite *KeeperTestSuite) TestRecvPacketCallbackState() {
	testCases := []struct {
		name     string
		ack      exported.Acknowledgement
		expWrite bool
	}{
		{"successful acknowledgement keeps state", mock.MockAcknowledgement, true},
		{"asynchronous acknowledgement keeps state", nil, true},
		{"error acknowledgement discards state", mock.MockFailAcknowledgement, false},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()
			path := ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.Setup(path)

			packet := suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())

			// the application records the packet sequence under an unused channel sequence
			suite.chainB.App.MockApp.OnRecvPacket = func(ctx sdk.Context, packet channeltypes.Packet, _ sdk.AccAddress) exported.Acknowledgement {
				suite.chainB.App.IBCKeeper.ChannelKeeper.SetNextSequenceSend(ctx, ibctesting.MockPort, "channel-100", packet.GetSequence())
				ctx.EventManager().EmitEvent(mock.NewMockRecvPacketEvent())
				return tc.ack
			}

			events, err := suite.chainB.App.IBCKeeper.Dispatch(suite.chainB.GetContext(), suite.recvMsg(path, packet))
			suite.Require().NoError(err)

			_, found := suite.chainB.App.IBCKeeper.ChannelKeeper.GetNextSequenceSend(suite.chainB.GetContext(), ibctesting.MockPort, "channel-100")
			suite.Require().Equal(tc.expWrite, found)

			for _, event := range events {
				if event.Type != mock.MockEventTypeRecvPacket {
					continue
				}
				for _, attr := range event.Attributes {
					// events of a discarded callback are marked as errors
					suite.Require().Equal(!tc.expWrite, strings.HasSuffix(string(attr.Key), coretypes.ErrorAttributeKeySuffix))
				}
			}
		})
	}
}

func (suite *KeeperTestSuite) TestDispatchAcknowledgement() {
	var (
		path   *ibctesting.Path
		packet channeltypes.Packet
		ack    []byte
	)

	testCases := []struct {
		name     string
		ordered  bool
		malleate func()
		expErr   error
	}{
		{"success: unordered channel", false, func() {}, nil},
		{"success: ordered channel", true, func() {}, nil},
		{"redundant relay", false, func() {
			suite.Require().NoError(path.EndpointA.AcknowledgePacket(packet, ack))
		}, channeltypes.ErrPacketCommitmentNotFound},
		{"application callback fails", false, func() {
			suite.chainA.App.MockApp.OnAcknowledgementPacket = func(sdk.Context, channeltypes.Packet, []byte, sdk.AccAddress) error {
				return mock.MockApplicationCallbackError
			}
		}, mock.MockApplicationCallbackError},
		{"acknowledgement does not match the proof", false, func() {
			ack = mock.MockFailAcknowledgement.Acknowledgement()
		}, clienttypes.ErrFailedPacketAckVerification},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			if tc.ordered {
				path.SetChannelOrdered()
			}
			suite.coordinator.Setup(path)

			packet = suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
			ack = ibctesting.MockAcknowledgement

			tc.malleate()

			events, err := suite.chainA.App.IBCKeeper.Dispatch(suite.chainA.GetContext(), suite.ackMsg(path, packet, ack))

			hasCommitment := suite.chainA.App.IBCKeeper.ChannelKeeper.HasPacketCommitment(
				suite.chainA.GetContext(), packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence(),
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)

				// a failed callback reverts the whole message
				if tc.expErr == mock.MockApplicationCallbackError {
					suite.Require().True(hasCommitment)
				}
				return
			}

			suite.Require().NoError(err)
			suite.Require().False(hasCommitment)
			suite.Require().True(hasEvent(events, channeltypes.EventTypeAcknowledgePacket))
			suite.Require().True(hasEvent(events, mock.MockEventTypeAcknowledgePacket))
		})
	}
}

func (suite *KeeperTestSuite) TestDispatchTimeout() {
	testCases := []struct {
		name     string
		ordered  bool
		expState channeltypes.State
	}{
		{"unordered channel stays open", false, channeltypes.OPEN},
		{"ordered channel is closed", true, channeltypes.CLOSED},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.name, func() {
			suite.SetupTest()
			path := ibctesting.NewPath(suite.chainA, suite.chainB)
			if tc.ordered {
				path.SetChannelOrdered()
			}
			suite.coordinator.Setup(path)

			var timedOut bool
			suite.chainA.App.MockApp.OnTimeoutPacket = func(sdk.Context, channeltypes.Packet, sdk.AccAddress) error {
				timedOut = true
				return nil
			}

			timeoutHeight := clienttypes.NewHeight(1, uint64(suite.chainB.GetContext().BlockHeight()))
			packet := suite.sendPacket(path, ibctesting.MockPacketData, timeoutHeight)
			suite.Require().NoError(path.EndpointA.UpdateClient())

			suite.Require().NoError(path.EndpointA.TimeoutPacket(packet))
			suite.Require().True(timedOut)
			suite.Require().False(suite.chainA.App.IBCKeeper.ChannelKeeper.HasPacketCommitment(
				suite.chainA.GetContext(), packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence(),
			))
			suite.Require().Equal(tc.expState, path.EndpointA.GetChannel().State)

			// the receiving chain refuses the packet as well
			err := path.EndpointB.RecvPacket(packet)
			suite.Require().ErrorIs(err, channeltypes.ErrPacketTimeout)

			// relaying the timeout again is redundant
			err = path.EndpointA.TimeoutPacket(packet)
			suite.Require().ErrorIs(err, channeltypes.ErrRedundantTx)
		})
	}
}

func (suite *KeeperTestSuite) TestDispatchTimeoutOnClose() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.SetChannelOrdered()
	suite.coordinator.Setup(path)

	packet := suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())
	suite.Require().NoError(path.EndpointB.SetChannelState(channeltypes.CLOSED))

	suite.Require().NoError(path.EndpointA.TimeoutOnClose(packet))
	suite.Require().False(suite.chainA.App.IBCKeeper.ChannelKeeper.HasPacketCommitment(
		suite.chainA.GetContext(), packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence(),
	))
	suite.Require().Equal(channeltypes.CLOSED, path.EndpointA.GetChannel().State)
}

// TestDispatchBatch checks that messages of a batch are executed independently.
func (suite *KeeperTestSuite) TestDispatchBatch() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.coordinator.Setup(path)

	packet1 := suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())
	packet2 := suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())

	invalid := packet2
	invalid.Data = []byte("never sent")

	msgs := []exported.Msg{
		suite.recvMsg(path, packet1),
		suite.recvMsg(path, packet1),
		suite.recvMsg(path, invalid),
		suite.recvMsg(path, packet2),
		nil,
	}

	results := suite.chainB.App.IBCKeeper.DispatchBatch(suite.chainB.GetContext(), msgs)
	suite.Require().Len(results, len(msgs))

	suite.Require().True(results[0].IsOK())
	suite.Require().False(results[0].NoOp)
	suite.Require().NotEmpty(results[0].Events)

	suite.Require().False(results[1].IsOK())
	suite.Require().True(results[1].NoOp)
	suite.Require().ErrorIs(results[1].Err, channeltypes.ErrPacketReceived)
	suite.Require().Empty(results[1].Events)

	suite.Require().False(results[2].IsOK())
	suite.Require().False(results[2].NoOp)
	suite.Require().ErrorIs(results[2].Err, clienttypes.ErrFailedPacketCommitmentVerification)

	suite.Require().True(results[3].IsOK())

	suite.Require().ErrorIs(results[4].Err, ibcerrors.ErrUnknownRequest)

	for _, packet := range []channeltypes.Packet{packet1, packet2} {
		_, found := suite.chainB.App.IBCKeeper.ChannelKeeper.GetPacketReceipt(
			suite.chainB.GetContext(), packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence(),
		)
		suite.Require().True(found)
	}
}

// TestDispatchBatchOrdered checks that an ordered channel only accepts the batch
// in sequence order.
func (suite *KeeperTestSuite) TestDispatchBatchOrdered() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.SetChannelOrdered()
	suite.coordinator.Setup(path)

	packet1 := suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())
	packet2 := suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())

	results := suite.chainB.App.IBCKeeper.DispatchBatch(suite.chainB.GetContext(), []exported.Msg{
		suite.recvMsg(path, packet2),
		suite.recvMsg(path, packet1),
		suite.recvMsg(path, packet2),
		suite.recvMsg(path, packet1),
	})

	suite.Require().ErrorIs(results[0].Err, channeltypes.ErrPacketSequenceOutOfOrder)
	suite.Require().False(results[0].NoOp)
	suite.Require().True(results[1].IsOK())
	suite.Require().True(results[2].IsOK())
	suite.Require().True(results[3].NoOp)

	nextSeqRecv, found := suite.chainB.App.IBCKeeper.ChannelKeeper.GetNextSequenceRecv(
		suite.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
	)
	suite.Require().True(found)
	suite.Require().Equal(uint64(3), nextSeqRecv)
}

// TestRelayPacket exercises the full packet lifecycle through the relayer helpers.
func (suite *KeeperTestSuite) TestRelayPacket() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.coordinator.Setup(path)

	packet := suite.sendPacket(path, ibctesting.MockPacketData, suite.chainB.GetTimeoutHeight())

	events, ack, err := path.RelayPacketWithResults(packet)
	suite.Require().NoError(err)
	suite.Require().Equal(ibctesting.MockAcknowledgement, ack)
	suite.Require().True(hasEvent(events, mock.MockEventTypeRecvPacket))

	suite.Require().False(suite.chainA.App.IBCKeeper.ChannelKeeper.HasPacketCommitment(
		suite.chainA.GetContext(), packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence(),
	))

	// the packet cannot be relayed twice
	suite.Require().Error(path.RelayPacket(packet))
}
