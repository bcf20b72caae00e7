package types

// IBC ping events
const (
	EventTypePing    = "ping_sent"
	EventTypePong    = "ping_received"
	EventTypePingAck = "ping_acknowledged"
	EventTypeTimeout = "ping_timeout"

	AttributeKeyMessage    = "message"
	AttributeKeySequence   = "sequence"
	AttributeKeyAckSuccess = "success"
)
