package types

import (
	"fmt"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// State defines if a connection is in one of the following states:
// INIT, TRYOPEN, OPEN or UNINITIALIZED.
type State int32

const (
	// UNINITIALIZED defines a connection state that has not been initialized or
	// does not exist.
	UNINITIALIZED State = 0
	// INIT defines a connection whose first step of the handshake has been
	// successfully executed.
	INIT State = 1
	// TRYOPEN defines a connection in the second step of the handshake.
	TRYOPEN State = 2
	// OPEN defines a connection that has successfully completed the handshake.
	OPEN State = 3
)

var stateNames = map[State]string{
	UNINITIALIZED: "STATE_UNINITIALIZED_UNSPECIFIED",
	INIT:          "STATE_INIT",
	TRYOPEN:       "STATE_TRYOPEN",
	OPEN:          "STATE_OPEN",
}

// String implements the Stringer interface
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("%d", int32(s))
}

var _ exported.ConnectionI = (*ConnectionEnd)(nil)

// ConnectionEnd defines a stateful object on a chain connected to another
// separate one.
type ConnectionEnd struct {
	// client associated with this connection.
	ClientId string `json:"client_id" yaml:"client_id"`
	// IBC version which can be utilised to determine encodings or protocols for
	// channels or packets utilising this connection.
	Versions []*Version `json:"versions" yaml:"versions"`
	// current state of the connection end.
	State State `json:"state" yaml:"state"`
	// counterparty chain associated with this connection.
	Counterparty Counterparty `json:"counterparty" yaml:"counterparty"`
	// delay period that must pass before a consensus state can be used for
	// packet-verification NOTE: delay period logic is only implemented by some
	// clients.
	DelayPeriod uint64 `json:"delay_period" yaml:"delay_period"`
}

// NewConnectionEnd creates a new ConnectionEnd instance.
func NewConnectionEnd(state State, clientID string, counterparty Counterparty, versions []*Version, delayPeriod uint64) ConnectionEnd {
	return ConnectionEnd{
		ClientId:     clientID,
		Versions:     versions,
		State:        state,
		Counterparty: counterparty,
		DelayPeriod:  delayPeriod,
	}
}

// GetState implements the Connection interface
func (c ConnectionEnd) GetState() int32 {
	return int32(c.State)
}

// GetClientID implements the Connection interface
func (c ConnectionEnd) GetClientID() string {
	return c.ClientId
}

// GetCounterparty implements the Connection interface
func (c ConnectionEnd) GetCounterparty() exported.CounterpartyConnectionI {
	return c.Counterparty
}

// GetVersions returns the versions of the connection end.
func (c ConnectionEnd) GetVersions() []*Version {
	return c.Versions
}

// GetDelayPeriod implements the Connection interface
func (c ConnectionEnd) GetDelayPeriod() uint64 {
	return c.DelayPeriod
}

// ValidateBasic implements the Connection interface.
// NOTE: the protocol supports that the connection and client IDs match the
// counterparty's.
func (c ConnectionEnd) ValidateBasic() error {
	if err := host.ClientIdentifierValidator(c.ClientId); err != nil {
		return sdkerrors.Wrap(err, "invalid client ID")
	}
	if len(c.Versions) == 0 {
		return sdkerrors.Wrap(ErrInvalidVersion, "empty connection versions")
	}
	for _, version := range c.Versions {
		if err := ValidateVersion(version); err != nil {
			return err
		}
	}
	return c.Counterparty.ValidateBasic()
}

var _ exported.CounterpartyConnectionI = (*Counterparty)(nil)

// Counterparty defines the counterparty chain associated with a connection end.
type Counterparty struct {
	// identifies the client on the counterparty chain associated with a given
	// connection.
	ClientId string `json:"client_id" yaml:"client_id"`
	// identifies the connection end on the counterparty chain associated with a
	// given connection.
	ConnectionId string `json:"connection_id" yaml:"connection_id"`
	// commitment merkle prefix of the counterparty chain.
	Prefix commitmenttypes.MerklePrefix `json:"prefix" yaml:"prefix"`
}

// NewCounterparty creates a new Counterparty instance.
func NewCounterparty(clientID, connectionID string, prefix commitmenttypes.MerklePrefix) Counterparty {
	return Counterparty{
		ClientId:     clientID,
		ConnectionId: connectionID,
		Prefix:       prefix,
	}
}

// GetClientID implements the CounterpartyConnectionI interface
func (c Counterparty) GetClientID() string {
	return c.ClientId
}

// GetConnectionID implements the CounterpartyConnectionI interface
func (c Counterparty) GetConnectionID() string {
	return c.ConnectionId
}

// GetPrefix implements the CounterpartyConnectionI interface
func (c Counterparty) GetPrefix() exported.Prefix {
	return c.Prefix
}

// ValidateBasic performs a basic validation check of the identifiers and prefix
func (c Counterparty) ValidateBasic() error {
	if c.ConnectionId != "" {
		if err := host.ConnectionIdentifierValidator(c.ConnectionId); err != nil {
			return sdkerrors.Wrap(err, "invalid counterparty connection ID")
		}
	}

	if err := host.ClientIdentifierValidator(c.ClientId); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty client ID")
	}

	if c.Prefix.Empty() {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty prefix cannot be empty")
	}

	return nil
}

// IdentifiedConnection defines a connection with additional connection
// identifier field.
type IdentifiedConnection struct {
	ConnectionEnd
	// connection identifier.
	Id string `json:"id" yaml:"id"`
}

// NewIdentifiedConnection creates a new IdentifiedConnection instance
func NewIdentifiedConnection(connectionID string, conn ConnectionEnd) IdentifiedConnection {
	return IdentifiedConnection{
		ConnectionEnd: conn,
		Id:            connectionID,
	}
}

// ClientPaths define all the connection paths for a client state.
type ClientPaths struct {
	// list of connection paths
	Paths []string `json:"paths" yaml:"paths"`
}

// ConnectionPaths define all the connection paths for a given client state.
type ConnectionPaths struct {
	// client state unique identifier
	ClientId string `json:"client_id" yaml:"client_id"`
	// list of connection paths
	Paths []string `json:"paths" yaml:"paths"`
}

// NewConnectionPaths creates a ConnectionPaths instance.
func NewConnectionPaths(id string, paths []string) ConnectionPaths {
	return ConnectionPaths{
		ClientId: id,
		Paths:    paths,
	}
}
