package types

import (
	"fmt"
	"strings"

	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

const (
	// ackErrorString defines a string constant included in error acknowledgements
	// NOTE: Changing this const is state machine breaking as acknowledgements are written into state.
	ackErrorString = "error handling packet: see events for details"
)

var (
	_ exported.Acknowledgement = Acknowledgement{}

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

// Acknowledgement is the recommended acknowledgement format to be used by
// app-specific protocols. Exactly one of Result or Error is set. The JSON
// encoding is `{"result":"<base64>"}` on success and `{"error":"<reason>"}` on
// failure.
type Acknowledgement struct {
	Result []byte `json:"result,omitempty" yaml:"result"`
	Error  string `json:"error,omitempty" yaml:"error"`
}

// NewResultAcknowledgement returns a new instance of Acknowledgement using an Acknowledgement_Result
// type in the Response field.
func NewResultAcknowledgement(result []byte) Acknowledgement {
	return Acknowledgement{Result: result}
}

// NewErrorAcknowledgement returns a new instance of Acknowledgement using an Acknowledgement_Error
// type in the Response field.
// NOTE: Acknowledgements are written into state and thus, changes made to error strings included in packet acknowledgements
// risk an app hash divergence when nodes in a network are running different patch versions of software.
func NewErrorAcknowledgement(err error) Acknowledgement {
	// the ABCI code is included in the abcitypes.ResponseDeliverTx hash
	// constructed in Tendermint and is therefore deterministic
	_, code, _ := sdkerrors.ABCIInfo(err, false) // discard non-deterministic codespace and log values

	return Acknowledgement{
		Error: fmt.Sprintf("ABCI code: %d: %s", code, ackErrorString),
	}
}

// UnmarshalAcknowledgement decodes acknowledgement bytes in the JSON format.
func UnmarshalAcknowledgement(bz []byte) (Acknowledgement, error) {
	var ack Acknowledgement
	if err := json.Unmarshal(bz, &ack); err != nil {
		return Acknowledgement{}, sdkerrors.Wrapf(ErrInvalidAcknowledgement, "cannot unmarshal acknowledgement: %s", err)
	}
	if err := ack.ValidateBasic(); err != nil {
		return Acknowledgement{}, err
	}
	return ack, nil
}

// ValidateBasic performs a basic validation of the acknowledgement
func (ack Acknowledgement) ValidateBasic() error {
	switch {
	case len(ack.Result) != 0 && ack.Error != "":
		return sdkerrors.Wrap(ErrInvalidAcknowledgement, "acknowledgement cannot contain both a result and an error")
	case len(ack.Result) != 0:
		return nil
	case strings.TrimSpace(ack.Error) != "":
		return nil
	default:
		return sdkerrors.Wrap(ErrInvalidAcknowledgement, "acknowledgement response cannot be empty")
	}
}

// Success implements the Acknowledgement interface. The acknowledgement is
// considered successful if it is a ResultAcknowledgement. Otherwise it is
// considered a failed acknowledgement.
func (ack Acknowledgement) Success() bool {
	return ack.Error == "" && len(ack.Result) != 0
}

// Acknowledgement implements the Acknowledgement interface. It returns the
// acknowledgement serialised using JSON.
func (ack Acknowledgement) Acknowledgement() []byte {
	bz, err := json.Marshal(ack)
	if err != nil {
		panic(err)
	}
	return bz
}
