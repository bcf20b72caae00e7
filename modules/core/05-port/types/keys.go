package types

const (
	// SubModuleName defines the IBC port name
	SubModuleName = "port"

	// RouterKey is the message route for IBC ports
	RouterKey = SubModuleName
)
