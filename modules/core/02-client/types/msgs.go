package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// MsgCreateClient defines a message to create an IBC client
type MsgCreateClient struct {
	// light client state
	ClientState exported.ClientState `json:"client_state" yaml:"client_state"`
	// consensus state associated with the client that corresponds to a given
	// height.
	ConsensusState exported.ConsensusState `json:"consensus_state" yaml:"consensus_state"`
	// signer address
	Signer string `json:"signer" yaml:"signer"`
}

// NewMsgCreateClient creates a new MsgCreateClient instance
func NewMsgCreateClient(
	clientState exported.ClientState, consensusState exported.ConsensusState, signer string,
) *MsgCreateClient {
	return &MsgCreateClient{
		ClientState:    clientState,
		ConsensusState: consensusState,
		Signer:         signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgCreateClient) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	if msg.ClientState == nil {
		return sdkerrors.Wrap(ErrInvalidClient, "client state cannot be nil")
	}
	if err := msg.ClientState.Validate(); err != nil {
		return err
	}
	if msg.ConsensusState == nil {
		return sdkerrors.Wrap(ErrInvalidConsensus, "consensus state cannot be nil")
	}
	if msg.ClientState.ClientType() != msg.ConsensusState.ClientType() {
		return sdkerrors.Wrap(ErrInvalidClientType, "client type for client state and consensus state do not match")
	}
	if err := ValidateClientType(msg.ClientState.ClientType()); err != nil {
		return sdkerrors.Wrap(err, "client type does not meet naming constraints")
	}
	return msg.ConsensusState.ValidateBasic()
}

// MsgUpdateClient defines an sdk.Msg to update a IBC client state using
// the given client message.
type MsgUpdateClient struct {
	// client unique identifier
	ClientId string `json:"client_id" yaml:"client_id"`
	// client message to update the light client
	ClientMessage exported.ClientMessage `json:"client_message" yaml:"client_message"`
	// signer address
	Signer string `json:"signer" yaml:"signer"`
}

// NewMsgUpdateClient creates a new MsgUpdateClient instance
func NewMsgUpdateClient(id string, clientMsg exported.ClientMessage, signer string) *MsgUpdateClient {
	return &MsgUpdateClient{
		ClientId:      id,
		ClientMessage: clientMsg,
		Signer:        signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgUpdateClient) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	if msg.ClientMessage == nil {
		return sdkerrors.Wrap(ErrInvalidHeader, "client message cannot be nil")
	}
	if err := msg.ClientMessage.ValidateBasic(); err != nil {
		return err
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

// MsgUpgradeClient defines an sdk.Msg to upgrade an IBC client to a new client
// state
type MsgUpgradeClient struct {
	// client unique identifier
	ClientId string `json:"client_id" yaml:"client_id"`
	// upgraded client state
	ClientState exported.ClientState `json:"client_state" yaml:"client_state"`
	// upgraded consensus state, only contains enough information to serve as a
	// basis of trust in update logic
	ConsensusState exported.ConsensusState `json:"consensus_state" yaml:"consensus_state"`
	// proof that old chain committed to new client
	ProofUpgradeClient []byte `json:"proof_upgrade_client" yaml:"proof_upgrade_client"`
	// proof that old chain committed to new consensus state
	ProofUpgradeConsensusState []byte `json:"proof_upgrade_consensus_state" yaml:"proof_upgrade_consensus_state"`
	// signer address
	Signer string `json:"signer" yaml:"signer"`
}

// NewMsgUpgradeClient creates a new MsgUpgradeClient instance
func NewMsgUpgradeClient(clientID string, clientState exported.ClientState, consState exported.ConsensusState,
	proofUpgradeClient, proofUpgradeConsState []byte, signer string,
) *MsgUpgradeClient {
	return &MsgUpgradeClient{
		ClientId:                   clientID,
		ClientState:                clientState,
		ConsensusState:             consState,
		ProofUpgradeClient:         proofUpgradeClient,
		ProofUpgradeConsensusState: proofUpgradeConsState,
		Signer:                     signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgUpgradeClient) ValidateBasic() error {
	// will not validate client state as committed client may not form a valid client state.
	// client implementations are responsible for ensuring final upgraded client is valid.
	if msg.ClientState == nil || msg.ConsensusState == nil {
		return sdkerrors.Wrap(ErrInvalidUpgradeClient, "upgraded client and consensus state cannot be nil")
	}
	if msg.ClientState.ClientType() != msg.ConsensusState.ClientType() {
		return sdkerrors.Wrapf(ErrInvalidUpgradeClient, "consensus state's client-type does not match client. expected: %s, got: %s",
			msg.ClientState.ClientType(), msg.ConsensusState.ClientType())
	}
	if len(msg.ProofUpgradeClient) == 0 {
		return sdkerrors.Wrap(ErrInvalidUpgradeClient, "proof of upgrade client cannot be empty")
	}
	if len(msg.ProofUpgradeConsensusState) == 0 {
		return sdkerrors.Wrap(ErrInvalidUpgradeClient, "proof of upgrade consensus state cannot be empty")
	}
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

// MsgSubmitMisbehaviour defines an sdk.Msg type that submits Evidence for
// light client misbehaviour.
type MsgSubmitMisbehaviour struct {
	// client unique identifier
	ClientId string `json:"client_id" yaml:"client_id"`
	// misbehaviour used for freezing the light client
	Misbehaviour exported.ClientMessage `json:"misbehaviour" yaml:"misbehaviour"`
	// signer address
	Signer string `json:"signer" yaml:"signer"`
}

// NewMsgSubmitMisbehaviour creates a new MsgSubmitMisbehaviour instance.
func NewMsgSubmitMisbehaviour(clientID string, misbehaviour exported.ClientMessage, signer string) *MsgSubmitMisbehaviour {
	return &MsgSubmitMisbehaviour{
		ClientId:     clientID,
		Misbehaviour: misbehaviour,
		Signer:       signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgSubmitMisbehaviour) ValidateBasic() error {
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	if msg.Misbehaviour == nil {
		return sdkerrors.Wrap(ErrInvalidMisbehaviour, "misbehaviour cannot be nil")
	}
	if err := msg.Misbehaviour.ValidateBasic(); err != nil {
		return sdkerrors.Wrap(ErrInvalidMisbehaviour, err.Error())
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

func validateSigner(signer string) error {
	if _, err := sdk.AccAddressFromBech32(signer); err != nil {
		return sdkerrors.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	return nil
}
