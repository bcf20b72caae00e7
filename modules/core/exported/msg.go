package exported

// Msg is a message that can be dispatched to the IBC keeper.
type Msg interface {
	ValidateBasic() error
}
