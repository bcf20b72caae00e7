package keeper_test

import (
	"time"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

// TestConnOpenInit - chainA initializes (INIT state) a connection with
// chainB which is yet UNINITIALIZED
func (suite *KeeperTestSuite) TestConnOpenInit() {
	var (
		path         *ibctesting.Path
		version      *types.Version
		delayPeriod  uint64
		emptyConnBID bool
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {
		}, nil},
		{"success with empty counterparty identifier", func() {
			emptyConnBID = true
		}, nil},
		{"success with non empty version", func() {
			version = types.GetCompatibleVersions()[0]
		}, nil},
		{"success with non zero delayPeriod", func() {
			delayPeriod = uint64(time.Hour.Nanoseconds())
		}, nil},
		{"invalid version", func() {
			version = &types.Version{}
		}, types.ErrInvalidVersion},
		{"unsupported version feature", func() {
			version = types.NewVersion(types.DefaultIBCVersionIdentifier, []string{"ORDER_DAG"})
		}, types.ErrInvalidVersion},
		{"client not found", func() {
			path.EndpointA.ClientID = "clientidentifier"
		}, clienttypes.ErrClientNotFound},
		{"client is frozen", func() {
			clientState := path.EndpointA.GetClientState().(*ibctm.ClientState)
			clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
			path.EndpointA.SetClientState(clientState)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest()    // reset
			emptyConnBID = false // must be explicitly changed
			version = nil        // must be explicitly changed
			delayPeriod = 0      // must be explicitly changed
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupClients(path)

			tc.malleate()

			if emptyConnBID {
				path.EndpointB.ConnectionID = ""
			}
			counterparty := types.NewCounterparty(path.EndpointB.ClientID, path.EndpointB.ConnectionID, suite.chainB.GetPrefix())

			connectionID, err := connectionKeeper(suite.chainA).ConnOpenInit(suite.chainA.GetContext(), path.EndpointA.ClientID, counterparty, version, delayPeriod)

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.FormatConnectionIdentifier(0), connectionID)

				connection, found := connectionKeeper(suite.chainA).GetConnection(suite.chainA.GetContext(), connectionID)
				suite.Require().True(found)
				suite.Require().Equal(types.INIT, connection.State)
				suite.Require().Equal(delayPeriod, connection.DelayPeriod)

				paths, found := connectionKeeper(suite.chainA).GetClientConnectionPaths(suite.chainA.GetContext(), path.EndpointA.ClientID)
				suite.Require().True(found)
				suite.Require().Equal([]string{connectionID}, paths)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Equal("", connectionID)
			}
		})
	}
}

// TestConnOpenTry - chainB calls ConnOpenTry to verify the state of
// connection on chainA is INIT
func (suite *KeeperTestSuite) TestConnOpenTry() {
	var (
		path               *ibctesting.Path
		delayPeriod        uint64
		versions           []*types.Version
		consensusHeight    exported.Height
		counterpartyClient exported.ClientState
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainA to pass as counterpartyClient
			counterpartyClient = suite.chainA.GetClientState(path.EndpointA.ClientID)
		}, nil},
		{"success with delay period", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			delayPeriod = uint64(time.Hour.Nanoseconds())

			// set delay period on counterparty to non-zero value
			conn := path.EndpointA.GetConnection()
			conn.DelayPeriod = delayPeriod
			connectionKeeper(suite.chainA).SetConnection(suite.chainA.GetContext(), path.EndpointA.ConnectionID, conn)

			// commit in order for proof to return correct value
			suite.coordinator.CommitBlock(suite.chainA)
			err = path.EndpointB.UpdateClient()
			suite.Require().NoError(err)

			// retrieve client state of chainA to pass as counterpartyClient
			counterpartyClient = suite.chainA.GetClientState(path.EndpointA.ClientID)
		}, nil},
		{"consensus height >= latest height", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			counterpartyClient = suite.chainA.GetClientState(path.EndpointA.ClientID)
			consensusHeight = clienttypes.NewHeight(1, 1000)
		}, ibcerrors.ErrInvalidHeight},
		{"self client validation failed", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// the client on chainA is not tracking chainB
			tmClient := suite.chainA.GetClientState(path.EndpointA.ClientID).(*ibctm.ClientState)
			tmClient.ChainId = "wrongchainid"
			counterpartyClient = tmClient
		}, clienttypes.ErrInvalidClient},
		{"counterparty versions is empty", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainA to pass as counterpartyClient
			counterpartyClient = suite.chainA.GetClientState(path.EndpointA.ClientID)

			versions = nil
		}, types.ErrVersionNegotiationFailed},
		{"counterparty versions don't have a match", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainA to pass as counterpartyClient
			counterpartyClient = suite.chainA.GetClientState(path.EndpointA.ClientID)

			version := types.NewVersion("0.0", nil)
			versions = []*types.Version{version}
		}, types.ErrVersionNegotiationFailed},
		{"connection state verification failed", func() {
			// chainA connection not created

			// retrieve client state of chainA to pass as counterpartyClient
			counterpartyClient = suite.chainA.GetClientState(path.EndpointA.ClientID)
		}, types.ErrConnectionVerificationFailed},
		{"delay period mismatch", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			counterpartyClient = suite.chainA.GetClientState(path.EndpointA.ClientID)
			delayPeriod = 1000
		}, types.ErrConnectionVerificationFailed},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.msg, func() {
			suite.SetupTest()                          // reset
			consensusHeight = clienttypes.ZeroHeight() // may be changed in malleate
			versions = types.GetCompatibleVersions()   // may be changed in malleate
			delayPeriod = 0                            // may be changed in malleate
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupClients(path)

			tc.malleate()

			counterparty := types.NewCounterparty(path.EndpointA.ClientID, path.EndpointA.ConnectionID, suite.chainA.GetPrefix())

			// ensure client is up to date to receive proof
			err := path.EndpointB.UpdateClient()
			suite.Require().NoError(err)

			connectionKey := host.ConnectionKey(path.EndpointA.ConnectionID)
			initProof, proofHeight := suite.chainA.QueryProof(connectionKey)

			if consensusHeight.IsZero() {
				// retrieve consensus state height to provide proof for
				consensusHeight = counterpartyClient.GetLatestHeight()
			}
			consensusKey := host.FullConsensusStateKey(path.EndpointA.ClientID, consensusHeight)
			consensusProof, _ := suite.chainA.QueryProof(consensusKey)

			// retrieve proof of counterparty clientstate on chainA
			clientKey := host.FullClientStateKey(path.EndpointA.ClientID)
			clientProof, _ := suite.chainA.QueryProof(clientKey)

			connectionID, err := connectionKeeper(suite.chainB).ConnOpenTry(
				suite.chainB.GetContext(), counterparty, delayPeriod, path.EndpointB.ClientID, counterpartyClient,
				versions, initProof, clientProof, consensusProof,
				proofHeight, consensusHeight,
			)

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.FormatConnectionIdentifier(0), connectionID)

				connection, found := connectionKeeper(suite.chainB).GetConnection(suite.chainB.GetContext(), connectionID)
				suite.Require().True(found)
				suite.Require().Equal(types.TRYOPEN, connection.State)
				suite.Require().Equal(path.EndpointA.ConnectionID, connection.Counterparty.ConnectionId)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().Equal("", connectionID)
			}
		})
	}
}

// TestConnOpenAck - Chain A (ID #1) calls TestConnOpenAck to acknowledge (ACK state)
// the initialization (TRYINIT) of the connection on  Chain B (ID #2).
func (suite *KeeperTestSuite) TestConnOpenAck() {
	var (
		path               *ibctesting.Path
		consensusHeight    exported.Height
		version            *types.Version
		counterpartyClient exported.ClientState
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)
		}, nil},
		{"connection not found", func() {
			// connections are never created

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)
		}, types.ErrConnectionNotFound},
		{"consensus height >= latest height", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)
			consensusHeight = clienttypes.NewHeight(1, 1000)
		}, ibcerrors.ErrInvalidHeight},
		{"invalid counterparty connection ID", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			// modify connA to set counterparty connection identifier to wrong identifier
			connection, found := connectionKeeper(suite.chainA).GetConnection(suite.chainA.GetContext(), path.EndpointA.ConnectionID)
			suite.Require().True(found)

			connection.Counterparty.ConnectionId = "badconnectionid"
			path.EndpointB.ConnectionID = "badconnectionid"

			connectionKeeper(suite.chainA).SetConnection(suite.chainA.GetContext(), path.EndpointA.ConnectionID, connection)

			err = path.EndpointA.UpdateClient()
			suite.Require().NoError(err)

			err = path.EndpointB.UpdateClient()
			suite.Require().NoError(err)
		}, types.ErrConnectionVerificationFailed},
		{"connection state is not INIT", func() {
			// connection state is already OPEN on chainA
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			err = path.EndpointA.ConnOpenAck()
			suite.Require().NoError(err)
		}, types.ErrInvalidConnectionState},
		{"incompatible IBC versions", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			// set version to a non-compatible version
			version = types.NewVersion("2.0", nil)
		}, types.ErrConnectionMismatch},
		{"empty version", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			version = &types.Version{}
		}, types.ErrConnectionMismatch},
		{"feature set verification failed - unsupported feature", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			version = types.NewVersion(types.DefaultIBCVersionIdentifier, []string{"ORDER_ORDERED", "ORDER_UNORDERED", "ORDER_DAG"})
		}, types.ErrConnectionMismatch},
		{"self client validation failed", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			tmClient := suite.chainB.GetClientState(path.EndpointB.ClientID).(*ibctm.ClientState)
			tmClient.UnbondingPeriod = ibctesting.UnbondingPeriod + time.Hour
			counterpartyClient = tmClient
		}, clienttypes.ErrInvalidClient},
		{"connection state verification failed", func() {
			// chainB connection is not in TRYOPEN
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			// retrieve client state of chainB to pass as counterpartyClient
			counterpartyClient = suite.chainB.GetClientState(path.EndpointB.ClientID)
		}, types.ErrConnectionVerificationFailed},
	}

	for _, tc := range testCases {
		tc := tc
		suite.Run(tc.msg, func() {
			suite.SetupTest()                          // reset
			version = types.GetCompatibleVersions()[0] // must be explicitly changed in malleate
			consensusHeight = clienttypes.ZeroHeight() // must be explicitly changed in malleate
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupClients(path)

			tc.malleate()

			// ensure client is up to date to receive proof
			err := path.EndpointA.UpdateClient()
			suite.Require().NoError(err)

			connectionKey := host.ConnectionKey(path.EndpointB.ConnectionID)
			tryProof, proofHeight := suite.chainB.QueryProof(connectionKey)

			if consensusHeight.IsZero() {
				// retrieve consensus state height to provide proof for
				clientState := suite.chainB.GetClientState(path.EndpointB.ClientID)
				consensusHeight = clientState.GetLatestHeight()
			}
			consensusKey := host.FullConsensusStateKey(path.EndpointB.ClientID, consensusHeight)
			consensusProof, _ := suite.chainB.QueryProof(consensusKey)

			// retrieve proof of counterparty clientstate on chainA
			clientKey := host.FullClientStateKey(path.EndpointB.ClientID)
			clientProof, _ := suite.chainB.QueryProof(clientKey)

			err = connectionKeeper(suite.chainA).ConnOpenAck(
				suite.chainA.GetContext(), path.EndpointA.ConnectionID, counterpartyClient, version, path.EndpointB.ConnectionID,
				tryProof, clientProof, consensusProof, proofHeight, consensusHeight,
			)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				connection := path.EndpointA.GetConnection()
				suite.Require().Equal(types.OPEN, connection.State)
				suite.Require().Equal(path.EndpointB.ConnectionID, connection.Counterparty.ConnectionId)
				suite.Require().Equal([]*types.Version{version}, connection.Versions)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestConnOpenConfirm - chainB calls ConnOpenConfirm to confirm that
// chainA state is now OPEN.
func (suite *KeeperTestSuite) TestConnOpenConfirm() {
	var path *ibctesting.Path
	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)

			err = path.EndpointA.ConnOpenAck()
			suite.Require().NoError(err)
		}, nil},
		{"connection not found", func() {
			// connections are never created
		}, types.ErrConnectionNotFound},
		{"chain B's connection state is not TRYOPEN", func() {
			// connections are OPEN
			suite.coordinator.CreateConnections(path)
		}, types.ErrInvalidConnectionState},
		{"connection state verification failed", func() {
			// chainA is in INIT
			err := path.EndpointA.ConnOpenInit()
			suite.Require().NoError(err)

			err = path.EndpointB.ConnOpenTry()
			suite.Require().NoError(err)
		}, types.ErrConnectionVerificationFailed},
	}

	for _, tc := range testCases {
		tc := tc

		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			suite.coordinator.SetupClients(path)

			tc.malleate()

			// ensure client is up to date to receive proof
			err := path.EndpointB.UpdateClient()
			suite.Require().NoError(err)

			connectionKey := host.ConnectionKey(path.EndpointA.ConnectionID)
			ackProof, proofHeight := suite.chainA.QueryProof(connectionKey)

			err = connectionKeeper(suite.chainB).ConnOpenConfirm(
				suite.chainB.GetContext(), path.EndpointB.ConnectionID, ackProof, proofHeight,
			)

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.OPEN, path.EndpointB.GetConnection().State)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
