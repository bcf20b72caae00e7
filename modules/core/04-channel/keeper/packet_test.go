package keeper_test

import (
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	"github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

var disabledTimeoutHeight = clienttypes.ZeroHeight()

// emptyAcknowledgement is an acknowledgement without any bytes.
type emptyAcknowledgement struct{}

func (emptyAcknowledgement) Success() bool           { return true }
func (emptyAcknowledgement) Acknowledgement() []byte { return []byte{} }

// sendMockPacket sends the mock packet data from chainA over the path and returns
// the packet as it was committed.
func (suite *KeeperTestSuite) sendMockPacket(path *ibctesting.Path, timeoutHeight clienttypes.Height, timeoutTimestamp uint64) types.Packet {
	sequence, err := path.EndpointA.SendPacket(timeoutHeight, timeoutTimestamp, ibctesting.MockPacketData)
	suite.Require().NoError(err)

	return types.NewPacket(
		ibctesting.MockPacketData, sequence,
		path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
		path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
		timeoutHeight, timeoutTimestamp,
	)
}

// latestCounterpartyHeight returns the latest height of chainB known to chainA's client.
func latestCounterpartyHeight(path *ibctesting.Path) clienttypes.Height {
	return path.EndpointA.GetClientState().GetLatestHeight().(clienttypes.Height)
}

// TestSendPacket tests SendPacket from chainA to chainB.
func (suite *KeeperTestSuite) TestSendPacket() {
	var (
		path             *ibctesting.Path
		sourcePort       string
		sourceChannel    string
		packetData       []byte
		timeoutHeight    clienttypes.Height
		timeoutTimestamp uint64
	)

	testCases := []struct {
		msg      string
		ordered  bool
		malleate func()
		expErr   error
	}{
		{"success: unordered channel", false, func() {}, nil},
		{"success: ordered channel", true, func() {}, nil},
		{"success: timeout timestamp only", false, func() {
			timeoutHeight = disabledTimeoutHeight
			timeoutTimestamp = suite.chainB.GetTimeoutTimestamp()
		}, nil},
		{"channel not found", false, func() {
			sourceChannel = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel is closed", false, func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.CLOSED))
		}, types.ErrChannelNotOpen},
		{"channel is in INIT", false, func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.INIT))
		}, types.ErrChannelNotOpen},
		{"both timeouts disabled", false, func() {
			timeoutHeight = disabledTimeoutHeight
			timeoutTimestamp = 0
		}, types.ErrInvalidTimeout},
		{"zero revision height and zero timestamp", false, func() {
			timeoutHeight = clienttypes.NewHeight(latestCounterpartyHeight(path).GetRevisionNumber()+1, 0)
			timeoutTimestamp = 0
		}, types.ErrInvalidTimeout},
		{"success: zero revision height disables the height deadline", false, func() {
			timeoutHeight = clienttypes.NewHeight(latestCounterpartyHeight(path).GetRevisionNumber(), 0)
			timeoutTimestamp = suite.chainB.GetTimeoutTimestamp()
		}, nil},
		{"empty packet data", false, func() {
			packetData = nil
		}, types.ErrInvalidPacket},
		{"connection not found", false, func() {
			setConnectionHops(path.EndpointA, "connection-100")
		}, connectiontypes.ErrConnectionNotFound},
		{"client is frozen", false, func() {
			freezeClient(path.EndpointA)
		}, clienttypes.ErrClientFrozen},
		{"client is expired", false, func() {
			suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
		}, clienttypes.ErrClientNotActive},
		{"timeout height already reached on the receiving chain", false, func() {
			timeoutHeight = latestCounterpartyHeight(path)
		}, types.ErrLowPacketHeight},
		{"timeout timestamp already reached on the receiving chain", false, func() {
			consensusState := path.EndpointA.GetConsensusState(latestCounterpartyHeight(path))
			timeoutHeight = disabledTimeoutHeight
			timeoutTimestamp = consensusState.GetTimestamp()
		}, types.ErrLowPacketTime},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			if tc.ordered {
				path.SetChannelOrdered()
			}
			suite.coordinator.Setup(path)

			sourcePort = path.EndpointA.ChannelConfig.PortID
			sourceChannel = path.EndpointA.ChannelID
			packetData = ibctesting.MockPacketData
			timeoutHeight = suite.chainB.GetTimeoutHeight()
			timeoutTimestamp = 0

			tc.malleate()

			sequence, err := channelKeeper(suite.chainA).SendPacket(
				suite.chainA.GetContext(), sourcePort, sourceChannel, timeoutHeight, timeoutTimestamp, packetData,
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Zero(sequence)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(uint64(1), sequence)

			packet := types.NewPacket(
				packetData, sequence, sourcePort, sourceChannel,
				path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
				timeoutHeight, timeoutTimestamp,
			)
			commitment := channelKeeper(suite.chainA).GetPacketCommitment(suite.chainA.GetContext(), sourcePort, sourceChannel, sequence)
			suite.Require().Equal(types.CommitPacket(packet), commitment)

			nextSeqSend, found := channelKeeper(suite.chainA).GetNextSequenceSend(suite.chainA.GetContext(), sourcePort, sourceChannel)
			suite.Require().True(found)
			suite.Require().Equal(uint64(2), nextSeqSend)
		})
	}
}

// TestSendPacketSequences checks that each send is assigned the next sequence.
func (suite *KeeperTestSuite) TestSendPacketSequences() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.coordinator.Setup(path)

	for expected := uint64(1); expected <= 3; expected++ {
		packet := suite.sendMockPacket(path, suite.chainB.GetTimeoutHeight(), 0)
		suite.Require().Equal(expected, packet.GetSequence())
	}

	suite.Require().Len(channelKeeper(suite.chainA).GetAllPacketCommitmentsAtChannel(
		suite.chainA.GetContext(), path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
	), 3)
}

// TestRecvPacket tests RecvPacket on chainB for a packet sent from chainA.
func (suite *KeeperTestSuite) TestRecvPacket() {
	var (
		path   *ibctesting.Path
		packet types.Packet
	)

	testCases := []struct {
		msg      string
		ordered  bool
		malleate func()
		expErr   error
	}{
		{"success: unordered channel", false, func() {}, nil},
		{"success: ordered channel", true, func() {}, nil},
		{"success: unordered out of order packet", false, func() {
			// the first packet is never relayed
			packet = suite.sendMockPacket(path, suite.chainB.GetTimeoutHeight(), 0)
		}, nil},
		{"channel not found", false, func() {
			packet.DestinationChannel = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel is closed", false, func() {
			suite.Require().NoError(path.EndpointB.SetChannelState(types.CLOSED))
		}, types.ErrChannelNotOpen},
		{"packet source port does not match the counterparty", false, func() {
			packet.SourcePort = "invalid-port"
		}, types.ErrInvalidPacket},
		{"packet source channel does not match the counterparty", false, func() {
			packet.SourceChannel = "channel-100"
		}, types.ErrInvalidPacket},
		{"connection not found", false, func() {
			setConnectionHops(path.EndpointB, "connection-100")
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", false, func() {
			setConnectionState(path.EndpointB, connectiontypes.INIT)
		}, connectiontypes.ErrInvalidConnectionState},
		{"timeout height reached", false, func() {
			// the receiving chain commits a block while the client is updated
			timeoutHeight := clienttypes.NewHeight(1, uint64(suite.chainB.GetContext().BlockHeight()))
			packet = suite.sendMockPacket(path, timeoutHeight, 0)
		}, types.ErrPacketTimeout},
		{"timeout timestamp reached", false, func() {
			timeoutTimestamp := uint64(suite.chainB.GetContext().BlockTime().UnixNano())
			packet = suite.sendMockPacket(path, disabledTimeoutHeight, timeoutTimestamp)
		}, types.ErrPacketTimeout},
		{"success: zero revision height never times out by height", false, func() {
			selfRevision := clienttypes.GetSelfHeight(suite.chainB.GetContext()).GetRevisionNumber()
			packet = suite.sendMockPacket(path, clienttypes.NewHeight(selfRevision, 0), suite.chainB.GetTimeoutTimestamp())
		}, nil},
		{"redundant relay: unordered channel", false, func() {
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
		}, types.ErrPacketReceived},
		{"redundant relay: ordered channel", true, func() {
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
		}, types.ErrPacketReceived},
		{"ordered packet received out of order", true, func() {
			packet = suite.sendMockPacket(path, suite.chainB.GetTimeoutHeight(), 0)
		}, types.ErrPacketSequenceOutOfOrder},
		{"packet was never committed", false, func() {
			packet.Data = []byte("never sent")
		}, clienttypes.ErrFailedPacketCommitmentVerification},
		{"client is frozen", false, func() {
			freezeClient(path.EndpointB)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			if tc.ordered {
				path.SetChannelOrdered()
			}
			suite.coordinator.Setup(path)

			packet = suite.sendMockPacket(path, suite.chainB.GetTimeoutHeight(), 0)

			tc.malleate()

			packetKey := host.PacketCommitmentKey(packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())
			proof, proofHeight := path.EndpointA.QueryProof(packetKey)

			err := channelKeeper(suite.chainB).RecvPacket(suite.chainB.GetContext(), packet, proof, proofHeight)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)

			if tc.ordered {
				nextSeqRecv, found := channelKeeper(suite.chainB).GetNextSequenceRecv(suite.chainB.GetContext(), packet.GetDestPort(), packet.GetDestChannel())
				suite.Require().True(found)
				suite.Require().Equal(packet.GetSequence()+1, nextSeqRecv)
				return
			}

			_, found := channelKeeper(suite.chainB).GetPacketReceipt(suite.chainB.GetContext(), packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
			suite.Require().True(found)
		})
	}
}

// TestWriteAcknowledgement tests writing the acknowledgement of a received packet on chainB.
func (suite *KeeperTestSuite) TestWriteAcknowledgement() {
	var (
		path   *ibctesting.Path
		packet types.Packet
		ack    exported.Acknowledgement
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"success: error acknowledgement", func() {
			ack = types.NewErrorAcknowledgement(types.ErrInvalidPacket)
		}, nil},
		{"channel not found", func() {
			packet.DestinationChannel = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel is closed", func() {
			suite.Require().NoError(path.EndpointB.SetChannelState(types.CLOSED))
		}, types.ErrChannelNotOpen},
		{"acknowledgement already written", func() {
			channelKeeper(suite.chainB).SetPacketAcknowledgement(
				suite.chainB.GetContext(), packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence(), []byte("ack"),
			)
		}, types.ErrAcknowledgementExists},
		{"nil acknowledgement", func() {
			ack = nil
		}, types.ErrInvalidAcknowledgement},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.Setup(path)

			packet = suite.sendMockPacket(path, suite.chainB.GetTimeoutHeight(), 0)

			packetKey := host.PacketCommitmentKey(packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())
			proof, proofHeight := path.EndpointA.QueryProof(packetKey)
			suite.Require().NoError(channelKeeper(suite.chainB).RecvPacket(suite.chainB.GetContext(), packet, proof, proofHeight))

			ack = types.NewResultAcknowledgement([]byte{1})

			tc.malleate()

			err := channelKeeper(suite.chainB).WriteAcknowledgement(suite.chainB.GetContext(), packet, ack)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)

			stored, found := channelKeeper(suite.chainB).GetPacketAcknowledgement(
				suite.chainB.GetContext(), packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence(),
			)
			suite.Require().True(found)
			suite.Require().Equal(types.CommitAcknowledgement(ack.Acknowledgement()), stored)

			// a second write for the same packet is rejected
			err = channelKeeper(suite.chainB).WriteAcknowledgement(suite.chainB.GetContext(), packet, ack)
			suite.Require().ErrorIs(err, types.ErrAcknowledgementExists)
		})
	}
}

// TestWriteEmptyAcknowledgement checks that acknowledgements without bytes are rejected.
func (suite *KeeperTestSuite) TestWriteEmptyAcknowledgement() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.coordinator.Setup(path)

	packet := suite.sendMockPacket(path, suite.chainB.GetTimeoutHeight(), 0)

	err := channelKeeper(suite.chainB).WriteAcknowledgement(suite.chainB.GetContext(), packet, emptyAcknowledgement{})
	suite.Require().ErrorIs(err, types.ErrInvalidAcknowledgement)
}

// TestAcknowledgePacket tests processing on chainA of the acknowledgement written on chainB.
func (suite *KeeperTestSuite) TestAcknowledgePacket() {
	var (
		path   *ibctesting.Path
		packet types.Packet
		ack    []byte
	)

	testCases := []struct {
		msg      string
		ordered  bool
		malleate func()
		expErr   error
	}{
		{"success: unordered channel", false, func() {}, nil},
		{"success: ordered channel", true, func() {}, nil},
		{"channel not found", false, func() {
			packet.SourceChannel = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel is closed", false, func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.CLOSED))
		}, types.ErrChannelNotOpen},
		{"packet destination port does not match the counterparty", false, func() {
			packet.DestinationPort = "invalid-port"
		}, types.ErrInvalidPacket},
		{"packet destination channel does not match the counterparty", false, func() {
			packet.DestinationChannel = "channel-100"
		}, types.ErrInvalidPacket},
		{"connection not found", false, func() {
			setConnectionHops(path.EndpointA, "connection-100")
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", false, func() {
			setConnectionState(path.EndpointA, connectiontypes.INIT)
		}, connectiontypes.ErrInvalidConnectionState},
		{"packet commitment not found", false, func() {
			packet.Sequence = 100
		}, types.ErrPacketCommitmentNotFound},
		{"packet commitment does not match", false, func() {
			packet.Data = []byte("never sent")
		}, types.ErrInvalidPacket},
		{"acknowledgement does not match the proof", false, func() {
			ack = ibctesting.MockFailPacketData
		}, clienttypes.ErrFailedPacketAckVerification},
		{"ordered acknowledgement out of order", true, func() {
			channelKeeper(suite.chainA).SetNextSequenceAck(suite.chainA.GetContext(), packet.GetSourcePort(), packet.GetSourceChannel(), 5)
		}, types.ErrPacketSequenceOutOfOrder},
		{"client is frozen", false, func() {
			freezeClient(path.EndpointA)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			if tc.ordered {
				path.SetChannelOrdered()
			}
			suite.coordinator.Setup(path)

			packet = suite.sendMockPacket(path, suite.chainB.GetTimeoutHeight(), 0)
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
			ack = ibctesting.MockAcknowledgement

			tc.malleate()

			ackKey := host.PacketAcknowledgementKey(packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
			proof, proofHeight := path.EndpointB.QueryProof(ackKey)

			err := channelKeeper(suite.chainA).AcknowledgePacket(suite.chainA.GetContext(), packet, ack, proof, proofHeight)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().False(channelKeeper(suite.chainA).HasPacketCommitment(
				suite.chainA.GetContext(), packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence(),
			))

			if tc.ordered {
				nextSeqAck, found := channelKeeper(suite.chainA).GetNextSequenceAck(suite.chainA.GetContext(), packet.GetSourcePort(), packet.GetSourceChannel())
				suite.Require().True(found)
				suite.Require().Equal(packet.GetSequence()+1, nextSeqAck)
			}

			// relaying the acknowledgement again finds no commitment
			err = channelKeeper(suite.chainA).AcknowledgePacket(suite.chainA.GetContext(), packet, ack, proof, proofHeight)
			suite.Require().ErrorIs(err, types.ErrPacketCommitmentNotFound)
		})
	}
}
