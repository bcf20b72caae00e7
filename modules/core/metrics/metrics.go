package metrics

// Prometheus metric labels.
const (
	// Message server labels

	LabelSourcePort         = "source_port"
	LabelSourceChannel      = "source_channel"
	LabelDestinationPort    = "destination_port"
	LabelDestinationChannel = "destination_channel"
	LabelTimeoutType        = "timeout_type"
	LabelResult             = "result"

	// Application labels

	LabelDenom  = "denom"
	LabelSource = "source"
)
