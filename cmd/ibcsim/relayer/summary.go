package relayer

import (
	"io"

	"gopkg.in/yaml.v2"

	pingtypes "github.com/ComposableFi/ibc-core/modules/apps/ping/types"
)

// Summary reports the outcome of a relaying run.
type Summary struct {
	App           string `yaml:"app"`
	Order         string `yaml:"order"`
	ChainA        string `yaml:"chain_a"`
	ChainB        string `yaml:"chain_b"`
	PortID        string `yaml:"port_id"`
	ChannelA      string `yaml:"channel_a"`
	ChannelB      string `yaml:"channel_b"`
	ChannelState  string `yaml:"channel_state"`
	TimeoutHeight string `yaml:"timeout_height"`

	Sent         uint64 `yaml:"sent"`
	Received     uint64 `yaml:"received"`
	Acknowledged uint64 `yaml:"acknowledged"`
	TimedOut     uint64 `yaml:"timed_out"`
	// Abandoned counts packets left unrelayed after an ordered channel closed.
	Abandoned uint64 `yaml:"abandoned"`
	Batches   uint64 `yaml:"batches"`

	Replayed          bool   `yaml:"replayed"`
	RedundantRejected uint64 `yaml:"redundant_rejected"`

	Balances     map[string]string             `yaml:"balances,omitempty"`
	PingCounters map[string]pingtypes.Counters `yaml:"ping_counters,omitempty"`
}

// WriteYAML encodes the summary as YAML to w.
func (s Summary) WriteYAML(w io.Writer) error {
	bz, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	_, err = w.Write(bz)
	return err
}

// ParseSummary decodes a summary written by WriteYAML.
func ParseSummary(bz []byte) (Summary, error) {
	var s Summary
	err := yaml.Unmarshal(bz, &s)
	return s, err
}
