/*
This file contains the variables, constants, and default values
used in the testing package and commonly defined in tests.
*/
package ibctesting

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	pingtypes "github.com/ComposableFi/ibc-core/modules/apps/ping/types"
	transfertypes "github.com/ComposableFi/ibc-core/modules/apps/transfer/types"
	connectiontypes "github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	ibctm "github.com/ComposableFi/ibc-core/modules/light-clients/07-tendermint"
	"github.com/ComposableFi/ibc-core/testing/mock"
)

const (
	FirstClientID     = "07-tendermint-0"
	FirstChannelID    = "channel-0"
	FirstConnectionID = "connection-0"

	// Default params constants used to create a TM client
	TrustingPeriod  time.Duration = time.Hour * 24 * 7 * 2
	UnbondingPeriod time.Duration = time.Hour * 24 * 7 * 3
	MaxClockDrift   time.Duration = time.Second * 10

	DefaultDelayPeriod uint64 = 0

	DefaultChannelVersion = mock.Version
	InvalidID             = "IDisInvalid"

	// Application Ports
	TransferPort = transfertypes.ModuleName
	PingPort     = pingtypes.ModuleName
	MockPort     = mock.ModuleName

	// Application versions
	TransferVersion = transfertypes.Version
	PingVersion     = pingtypes.Version

	// used for testing proposals
	Title       = "title"
	Description = "description"
)

var (
	DefaultOpenInitVersion *connectiontypes.Version

	// DefaultTrustLevel sets params variables used to create a TM client
	DefaultTrustLevel = ibctm.DefaultTrustLevel

	// DefaultGenesisAccBalance is the balance of every sender account at genesis
	DefaultGenesisAccBalance = sdk.NewInt(10_000_000_000_000)

	TestCoin = sdk.NewCoin(sdk.DefaultBondDenom, sdk.NewInt(100))

	UpgradePath = []string{"upgrade", "upgradedIBCState"}

	ConnectionVersion = connectiontypes.GetCompatibleVersions()[0]

	MockAcknowledgement = mock.MockAcknowledgement.Acknowledgement()
	MockPacketData      = mock.MockPacketData
	MockFailPacketData  = mock.MockFailPacketData
)
