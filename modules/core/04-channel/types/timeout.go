package types

import (
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// Timeout defines an execution deadline structure for a packet. A zero
// timestamp disables the time deadline and a zero revision height disables
// the height deadline, whatever the revision number.
type Timeout struct {
	Height    clienttypes.Height `json:"height" yaml:"height"`
	Timestamp uint64             `json:"timestamp" yaml:"timestamp"`
}

// NewTimeout returns a new Timeout instance.
func NewTimeout(height clienttypes.Height, timestamp uint64) Timeout {
	return Timeout{
		Height:    height,
		Timestamp: timestamp,
	}
}

// IsValid returns true if either the height or timestamp deadline is set.
func (t Timeout) IsValid() bool {
	return t.HeightEnabled() || t.Timestamp != 0
}

// HeightEnabled returns true if the timeout height has a non-zero revision
// height.
func (t Timeout) HeightEnabled() bool {
	return t.Height.GetRevisionHeight() != 0
}

// Elapsed returns true if either the provided height or timestamp is past the
// respective absolute timeout values. Reaching the deadline counts as elapsed.
func (t Timeout) Elapsed(height exported.Height, timestamp uint64) bool {
	return t.heightElapsed(height) || t.timestampElapsed(timestamp)
}

// heightElapsed returns true if the timeout height is enabled
// and the timeout height is less than or equal to the relative height.
func (t Timeout) heightElapsed(height exported.Height) bool {
	return t.HeightEnabled() && height.GTE(t.Height)
}

// timestampElapsed returns true if the timeout timestamp is non empty
// and the timeout timestamp is less than or equal to the relative timestamp.
func (t Timeout) timestampElapsed(timestamp uint64) bool {
	return t.Timestamp != 0 && timestamp >= t.Timestamp
}
