package keeper_test

import (
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	"github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

// freezeClient sets a non-zero frozen height on the endpoint's client.
func freezeClient(endpoint *ibctesting.Endpoint) {
	clientState := endpoint.GetClientState().(*ibctm.ClientState)
	clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
	endpoint.SetClientState(clientState)
}

// setConnectionState overwrites the state of the endpoint's connection.
func setConnectionState(endpoint *ibctesting.Endpoint, state connectiontypes.State) {
	connection := endpoint.GetConnection()
	connection.State = state
	endpoint.SetConnection(connection)
}

// setConnectionHops points the endpoint's channel at the given connection.
func setConnectionHops(endpoint *ibctesting.Endpoint, connectionID string) {
	channel := endpoint.GetChannel()
	channel.ConnectionHops = []string{connectionID}
	endpoint.SetChannel(channel)
}

func proofHeightWithDiff(height exported.Height, diff uint64) clienttypes.Height {
	return clienttypes.NewHeight(height.GetRevisionNumber(), height.GetRevisionHeight()+diff)
}

// TestChanOpenInit tests the OpenInit handshake call for channels. The connection on
// chainA must be OPEN and support the requested ordering.
func (suite *KeeperTestSuite) TestChanOpenInit() {
	var (
		path  *ibctesting.Path
		order types.Order
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success: ordered channel", func() {}, nil},
		{"success: unordered channel", func() {
			order = types.UNORDERED
		}, nil},
		{"connection doesn't exist", func() {
			path.EndpointA.ConnectionID = "connection-100"
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", func() {
			setConnectionState(path.EndpointA, connectiontypes.INIT)
		}, connectiontypes.ErrInvalidConnectionState},
		{"client is frozen", func() {
			freezeClient(path.EndpointA)
		}, clienttypes.ErrClientFrozen},
		{"client is expired", func() {
			suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
		}, clienttypes.ErrClientNotActive},
		{"connection version does not support the ordering", func() {
			order = types.UNORDERED
			connection := path.EndpointA.GetConnection()
			connection.Versions = []*connectiontypes.Version{
				connectiontypes.NewVersion(connectiontypes.DefaultIBCVersionIdentifier, []string{types.ORDERED.String()}),
			}
			path.EndpointA.SetConnection(connection)
		}, connectiontypes.ErrInvalidVersion},
		{"more than one connection version", func() {
			connection := path.EndpointA.GetConnection()
			connection.Versions = append(connection.Versions, connectiontypes.NewVersion("2", []string{types.ORDERED.String()}))
			path.EndpointA.SetConnection(connection)
		}, connectiontypes.ErrInvalidVersion},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			order = types.ORDERED
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupConnections(path)

			tc.malleate()

			counterparty := types.NewCounterparty(path.EndpointB.ChannelConfig.PortID, "")
			hops := []string{path.EndpointA.ConnectionID}
			portID := path.EndpointA.ChannelConfig.PortID

			channelID, err := channelKeeper(suite.chainA).ChanOpenInit(
				suite.chainA.GetContext(), order, hops, portID, counterparty, path.EndpointA.ChannelConfig.Version,
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Empty(channelID)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(types.FormatChannelIdentifier(0), channelID)

			// state is only written once the application accepts the channel
			suite.Require().False(channelKeeper(suite.chainA).HasChannel(suite.chainA.GetContext(), portID, channelID))

			channelKeeper(suite.chainA).WriteOpenInitChannel(
				suite.chainA.GetContext(), portID, channelID, order, hops, counterparty, path.EndpointA.ChannelConfig.Version,
			)

			channel, found := channelKeeper(suite.chainA).GetChannel(suite.chainA.GetContext(), portID, channelID)
			suite.Require().True(found)
			suite.Require().Equal(types.NewChannel(types.INIT, order, counterparty, hops, path.EndpointA.ChannelConfig.Version), channel)

			for _, getSeq := range []func() (uint64, bool){
				func() (uint64, bool) {
					return channelKeeper(suite.chainA).GetNextSequenceSend(suite.chainA.GetContext(), portID, channelID)
				},
				func() (uint64, bool) {
					return channelKeeper(suite.chainA).GetNextSequenceRecv(suite.chainA.GetContext(), portID, channelID)
				},
				func() (uint64, bool) {
					return channelKeeper(suite.chainA).GetNextSequenceAck(suite.chainA.GetContext(), portID, channelID)
				},
			} {
				seq, found := getSeq()
				suite.Require().True(found)
				suite.Require().Equal(uint64(1), seq)
			}
		})
	}
}

// TestChanOpenTry tests the OpenTry handshake call for channels. The INIT channel end
// on chainA is proven on chainB.
func (suite *KeeperTestSuite) TestChanOpenTry() {
	var (
		path                *ibctesting.Path
		counterparty        types.Counterparty
		counterpartyVersion string
		heightDiff          uint64
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"connection doesn't exist", func() {
			path.EndpointB.ConnectionID = "connection-100"
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", func() {
			setConnectionState(path.EndpointB, connectiontypes.TRYOPEN)
		}, connectiontypes.ErrInvalidConnectionState},
		{"consensus state not found", func() {
			heightDiff = 3
		}, clienttypes.ErrFailedChannelStateVerification},
		{"counterparty channel was never initialized", func() {
			counterparty.ChannelId = "channel-100"
		}, clienttypes.ErrFailedChannelStateVerification},
		{"counterparty version mismatch", func() {
			counterpartyVersion = "other-version"
		}, clienttypes.ErrFailedChannelStateVerification},
		{"channel ordering mismatch", func() {
			path.EndpointB.ChannelConfig.Order = types.UNORDERED
		}, clienttypes.ErrFailedChannelStateVerification},
		{"connection version does not support the ordering", func() {
			connection := path.EndpointB.GetConnection()
			connection.Versions = []*connectiontypes.Version{
				connectiontypes.NewVersion(connectiontypes.DefaultIBCVersionIdentifier, []string{types.UNORDERED.String()}),
			}
			path.EndpointB.SetConnection(connection)
		}, connectiontypes.ErrInvalidVersion},
		{"client is frozen", func() {
			freezeClient(path.EndpointB)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			heightDiff = 0
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupConnections(path)
			path.SetChannelOrdered()

			suite.Require().NoError(path.EndpointA.ChanOpenInit())
			suite.Require().NoError(path.EndpointB.UpdateClient())

			counterparty = types.NewCounterparty(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)
			counterpartyVersion = path.EndpointA.ChannelConfig.Version

			tc.malleate()

			channelKey := host.ChannelKey(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)
			proof, proofHeight := path.EndpointA.QueryProof(channelKey)

			hops := []string{path.EndpointB.ConnectionID}
			channelID, err := channelKeeper(suite.chainB).ChanOpenTry(
				suite.chainB.GetContext(), path.EndpointB.ChannelConfig.Order, hops,
				path.EndpointB.ChannelConfig.PortID, counterparty, counterpartyVersion,
				proof, proofHeightWithDiff(proofHeight, heightDiff),
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(types.FormatChannelIdentifier(0), channelID)

			channelKeeper(suite.chainB).WriteOpenTryChannel(
				suite.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, channelID,
				types.ORDERED, hops, counterparty, ibctesting.DefaultChannelVersion,
			)

			channel, found := channelKeeper(suite.chainB).GetChannel(suite.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, channelID)
			suite.Require().True(found)
			suite.Require().Equal(types.TRYOPEN, channel.State)
			suite.Require().Equal(counterparty, channel.Counterparty)

			seq, found := channelKeeper(suite.chainB).GetNextSequenceRecv(suite.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, channelID)
			suite.Require().True(found)
			suite.Require().Equal(uint64(1), seq)
		})
	}
}

// TestChanOpenAck tests the OpenAck handshake call for channels. The TRYOPEN channel
// end on chainB is proven on chainA.
func (suite *KeeperTestSuite) TestChanOpenAck() {
	var (
		path                  *ibctesting.Path
		counterpartyChannelID string
		counterpartyVersion   string
		heightDiff            uint64
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"channel doesn't exist", func() {
			path.EndpointA.ChannelID = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel state is not INIT", func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.OPEN))
		}, types.ErrInvalidChannelState},
		{"connection not found", func() {
			setConnectionHops(path.EndpointA, "connection-100")
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", func() {
			setConnectionState(path.EndpointA, connectiontypes.TRYOPEN)
		}, connectiontypes.ErrInvalidConnectionState},
		{"consensus state not found", func() {
			heightDiff = 3
		}, clienttypes.ErrFailedChannelStateVerification},
		{"counterparty channel was never opened", func() {
			counterpartyChannelID = "channel-100"
		}, clienttypes.ErrFailedChannelStateVerification},
		{"counterparty version mismatch", func() {
			counterpartyVersion = "other-version"
		}, clienttypes.ErrFailedChannelStateVerification},
		{"client is frozen", func() {
			freezeClient(path.EndpointA)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			heightDiff = 0
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupConnections(path)
			path.SetChannelOrdered()

			suite.Require().NoError(path.EndpointA.ChanOpenInit())
			suite.Require().NoError(path.EndpointB.ChanOpenTry())
			suite.Require().NoError(path.EndpointA.UpdateClient())

			counterpartyChannelID = path.EndpointB.ChannelID
			counterpartyVersion = path.EndpointB.ChannelConfig.Version

			tc.malleate()

			channelKey := host.ChannelKey(path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID)
			proof, proofHeight := path.EndpointB.QueryProof(channelKey)

			err := channelKeeper(suite.chainA).ChanOpenAck(
				suite.chainA.GetContext(), path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
				counterpartyVersion, counterpartyChannelID, proof, proofHeightWithDiff(proofHeight, heightDiff),
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)

			channelKeeper(suite.chainA).WriteOpenAckChannel(
				suite.chainA.GetContext(), path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
				counterpartyVersion, counterpartyChannelID,
			)

			channel := path.EndpointA.GetChannel()
			suite.Require().Equal(types.OPEN, channel.State)
			suite.Require().Equal(counterpartyVersion, channel.Version)
			suite.Require().Equal(counterpartyChannelID, channel.Counterparty.ChannelId)
		})
	}
}

// TestChanOpenConfirm tests the OpenConfirm handshake call for channels. The OPEN
// channel end on chainA is proven on chainB.
func (suite *KeeperTestSuite) TestChanOpenConfirm() {
	var (
		path       *ibctesting.Path
		heightDiff uint64
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"channel doesn't exist", func() {
			path.EndpointB.ChannelID = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel state is not TRYOPEN", func() {
			suite.Require().NoError(path.EndpointB.SetChannelState(types.OPEN))
		}, types.ErrInvalidChannelState},
		{"connection not found", func() {
			setConnectionHops(path.EndpointB, "connection-100")
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", func() {
			setConnectionState(path.EndpointB, connectiontypes.INIT)
		}, connectiontypes.ErrInvalidConnectionState},
		{"consensus state not found", func() {
			heightDiff = 3
		}, clienttypes.ErrFailedChannelStateVerification},
		{"counterparty channel is not OPEN", func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.CLOSED))
		}, clienttypes.ErrFailedChannelStateVerification},
		{"client is frozen", func() {
			freezeClient(path.EndpointB)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			heightDiff = 0
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupConnections(path)
			path.SetChannelOrdered()

			suite.Require().NoError(path.EndpointA.ChanOpenInit())
			suite.Require().NoError(path.EndpointB.ChanOpenTry())
			suite.Require().NoError(path.EndpointA.ChanOpenAck())
			suite.Require().NoError(path.EndpointB.UpdateClient())

			tc.malleate()

			channelKey := host.ChannelKey(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)
			proof, proofHeight := path.EndpointA.QueryProof(channelKey)

			err := channelKeeper(suite.chainB).ChanOpenConfirm(
				suite.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
				proof, proofHeightWithDiff(proofHeight, heightDiff),
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)

			channelKeeper(suite.chainB).WriteOpenConfirmChannel(
				suite.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
			)
			suite.Require().Equal(types.OPEN, path.EndpointB.GetChannel().State)
		})
	}
}

// TestChanCloseInit tests calling CloseInit on chainA's OPEN channel end.
func (suite *KeeperTestSuite) TestChanCloseInit() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"channel doesn't exist", func() {
			path.EndpointA.ChannelID = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel is already closed", func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.CLOSED))
		}, types.ErrChannelNotOpen},
		{"channel is still in INIT", func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.INIT))
		}, types.ErrChannelNotOpen},
		{"connection not found", func() {
			setConnectionHops(path.EndpointA, "connection-100")
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", func() {
			setConnectionState(path.EndpointA, connectiontypes.INIT)
		}, connectiontypes.ErrInvalidConnectionState},
		{"client is frozen", func() {
			freezeClient(path.EndpointA)
		}, clienttypes.ErrClientFrozen},
		{"client is expired", func() {
			suite.chainA.ExpireClient(ibctesting.TrustingPeriod)
		}, clienttypes.ErrClientNotActive},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.Setup(path)

			tc.malleate()

			err := channelKeeper(suite.chainA).ChanCloseInit(
				suite.chainA.GetContext(), path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID,
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(types.CLOSED, path.EndpointA.GetChannel().State)
		})
	}
}

// TestChanCloseConfirm tests calling CloseConfirm on chainB after chainA closed
// its channel end.
func (suite *KeeperTestSuite) TestChanCloseConfirm() {
	var (
		path       *ibctesting.Path
		heightDiff uint64
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"success: channel in TRYOPEN", func() {
			suite.Require().NoError(path.EndpointB.SetChannelState(types.TRYOPEN))
		}, nil},
		{"channel doesn't exist", func() {
			path.EndpointB.ChannelID = "channel-100"
		}, types.ErrChannelNotFound},
		{"channel is already closed", func() {
			suite.Require().NoError(path.EndpointB.SetChannelState(types.CLOSED))
		}, types.ErrInvalidChannelState},
		{"channel is in INIT", func() {
			suite.Require().NoError(path.EndpointB.SetChannelState(types.INIT))
		}, types.ErrInvalidChannelState},
		{"connection not found", func() {
			setConnectionHops(path.EndpointB, "connection-100")
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", func() {
			setConnectionState(path.EndpointB, connectiontypes.TRYOPEN)
		}, connectiontypes.ErrInvalidConnectionState},
		{"consensus state not found", func() {
			heightDiff = 3
		}, clienttypes.ErrFailedChannelStateVerification},
		{"counterparty channel is not closed", func() {
			suite.Require().NoError(path.EndpointA.SetChannelState(types.OPEN))
		}, clienttypes.ErrFailedChannelStateVerification},
		{"client is frozen", func() {
			freezeClient(path.EndpointB)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			heightDiff = 0
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.Setup(path)

			// closes chainA's end and updates the client on chainB
			suite.Require().NoError(path.EndpointA.SetChannelState(types.CLOSED))

			tc.malleate()

			channelKey := host.ChannelKey(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)
			proof, proofHeight := path.EndpointA.QueryProof(channelKey)

			err := channelKeeper(suite.chainB).ChanCloseConfirm(
				suite.chainB.GetContext(), path.EndpointB.ChannelConfig.PortID, path.EndpointB.ChannelID,
				proof, proofHeightWithDiff(proofHeight, heightDiff),
			)

			if tc.expErr != nil {
				suite.Require().ErrorIs(err, tc.expErr)
				return
			}

			suite.Require().NoError(err)
			suite.Require().Equal(types.CLOSED, path.EndpointB.GetChannel().State)
		})
	}
}
