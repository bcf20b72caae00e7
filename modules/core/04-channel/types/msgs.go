package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
)

// MsgChannelOpenInit defines an sdk.Msg to initialize a channel handshake. It
// is called by a relayer on Chain A.
type MsgChannelOpenInit struct {
	PortId  string  `json:"port_id" yaml:"port_id"`
	Channel Channel `json:"channel" yaml:"channel"`
	Signer  string  `json:"signer" yaml:"signer"`
}

// NewMsgChannelOpenInit creates a new MsgChannelOpenInit. It sets the counterparty channel
// identifier to be empty.
func NewMsgChannelOpenInit(
	portID, version string, channelOrder Order, connectionHops []string,
	counterpartyPortID string, signer string,
) *MsgChannelOpenInit {
	counterparty := NewCounterparty(counterpartyPortID, "")
	channel := NewChannel(INIT, channelOrder, counterparty, connectionHops, version)
	return &MsgChannelOpenInit{
		PortId:  portID,
		Channel: channel,
		Signer:  signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgChannelOpenInit) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid port ID")
	}
	if msg.Channel.State != INIT {
		return sdkerrors.Wrapf(ErrInvalidChannelState,
			"channel state must be INIT in MsgChannelOpenInit. expected: %s, got: %s",
			INIT, msg.Channel.State,
		)
	}
	if msg.Channel.Counterparty.ChannelId != "" {
		return sdkerrors.Wrap(ErrInvalidCounterparty, "counterparty channel identifier must be empty")
	}
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return msg.Channel.ValidateBasic()
}

// MsgChannelOpenTry defines a msg sent by a relayer to try to open a channel
// on Chain B.
type MsgChannelOpenTry struct {
	PortId              string             `json:"port_id" yaml:"port_id"`
	Channel             Channel            `json:"channel" yaml:"channel"`
	CounterpartyVersion string             `json:"counterparty_version" yaml:"counterparty_version"`
	ProofInit           []byte             `json:"proof_init" yaml:"proof_init"`
	ProofHeight         clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	Signer              string             `json:"signer" yaml:"signer"`
}

// NewMsgChannelOpenTry creates a new MsgChannelOpenTry instance. The version
// on the channel is left empty as the application selects it.
func NewMsgChannelOpenTry(
	portID string, channelOrder Order, connectionHops []string,
	counterpartyPortID, counterpartyChannelID, counterpartyVersion string,
	proofInit []byte, proofHeight clienttypes.Height, signer string,
) *MsgChannelOpenTry {
	counterparty := NewCounterparty(counterpartyPortID, counterpartyChannelID)
	channel := NewChannel(TRYOPEN, channelOrder, counterparty, connectionHops, "")
	return &MsgChannelOpenTry{
		PortId:              portID,
		Channel:             channel,
		CounterpartyVersion: counterpartyVersion,
		ProofInit:           proofInit,
		ProofHeight:         proofHeight,
		Signer:              signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgChannelOpenTry) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid port ID")
	}
	if len(msg.ProofInit) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	if msg.Channel.State != TRYOPEN {
		return sdkerrors.Wrapf(ErrInvalidChannelState,
			"channel state must be TRYOPEN in MsgChannelOpenTry. expected: %s, got: %s",
			TRYOPEN, msg.Channel.State,
		)
	}
	// counterparty validate basic allows empty counterparty channel identifiers
	if err := host.ChannelIdentifierValidator(msg.Channel.Counterparty.ChannelId); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty channel ID")
	}
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return msg.Channel.ValidateBasic()
}

// MsgChannelOpenAck defines a msg sent by a relayer to Chain A to acknowledge
// the change of channel state to TRYOPEN on Chain B.
type MsgChannelOpenAck struct {
	PortId                string             `json:"port_id" yaml:"port_id"`
	ChannelId             string             `json:"channel_id" yaml:"channel_id"`
	CounterpartyChannelId string             `json:"counterparty_channel_id" yaml:"counterparty_channel_id"`
	CounterpartyVersion   string             `json:"counterparty_version" yaml:"counterparty_version"`
	ProofTry              []byte             `json:"proof_try" yaml:"proof_try"`
	ProofHeight           clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	Signer                string             `json:"signer" yaml:"signer"`
}

// NewMsgChannelOpenAck creates a new MsgChannelOpenAck instance
func NewMsgChannelOpenAck(
	portID, channelID, counterpartyChannelID string, cpv string, proofTry []byte, proofHeight clienttypes.Height,
	signer string,
) *MsgChannelOpenAck {
	return &MsgChannelOpenAck{
		PortId:                portID,
		ChannelId:             channelID,
		CounterpartyChannelId: counterpartyChannelID,
		CounterpartyVersion:   cpv,
		ProofTry:              proofTry,
		ProofHeight:           proofHeight,
		Signer:                signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgChannelOpenAck) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid port ID")
	}
	if !IsValidChannelID(msg.ChannelId) {
		return ErrInvalidChannelIdentifier
	}
	if err := host.ChannelIdentifierValidator(msg.CounterpartyChannelId); err != nil {
		return sdkerrors.Wrap(err, "invalid counterparty channel ID")
	}
	if len(msg.ProofTry) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	return validateSigner(msg.Signer)
}

// MsgChannelOpenConfirm defines a msg sent by a relayer to Chain B to
// acknowledge the change of channel state to OPEN on Chain A.
type MsgChannelOpenConfirm struct {
	PortId      string             `json:"port_id" yaml:"port_id"`
	ChannelId   string             `json:"channel_id" yaml:"channel_id"`
	ProofAck    []byte             `json:"proof_ack" yaml:"proof_ack"`
	ProofHeight clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	Signer      string             `json:"signer" yaml:"signer"`
}

// NewMsgChannelOpenConfirm creates a new MsgChannelOpenConfirm instance
func NewMsgChannelOpenConfirm(
	portID, channelID string, proofAck []byte, proofHeight clienttypes.Height,
	signer string,
) *MsgChannelOpenConfirm {
	return &MsgChannelOpenConfirm{
		PortId:      portID,
		ChannelId:   channelID,
		ProofAck:    proofAck,
		ProofHeight: proofHeight,
		Signer:      signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgChannelOpenConfirm) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid port ID")
	}
	if !IsValidChannelID(msg.ChannelId) {
		return ErrInvalidChannelIdentifier
	}
	if len(msg.ProofAck) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	return validateSigner(msg.Signer)
}

// MsgChannelCloseInit defines a msg sent by a relayer to Chain A
// to close a channel with Chain B.
type MsgChannelCloseInit struct {
	PortId    string `json:"port_id" yaml:"port_id"`
	ChannelId string `json:"channel_id" yaml:"channel_id"`
	Signer    string `json:"signer" yaml:"signer"`
}

// NewMsgChannelCloseInit creates a new MsgChannelCloseInit instance
func NewMsgChannelCloseInit(portID string, channelID string, signer string) *MsgChannelCloseInit {
	return &MsgChannelCloseInit{
		PortId:    portID,
		ChannelId: channelID,
		Signer:    signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgChannelCloseInit) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid port ID")
	}
	if !IsValidChannelID(msg.ChannelId) {
		return ErrInvalidChannelIdentifier
	}
	return validateSigner(msg.Signer)
}

// MsgChannelCloseConfirm defines a msg sent by a relayer to Chain B
// to acknowledge the change of channel state to CLOSED on Chain A.
type MsgChannelCloseConfirm struct {
	PortId      string             `json:"port_id" yaml:"port_id"`
	ChannelId   string             `json:"channel_id" yaml:"channel_id"`
	ProofInit   []byte             `json:"proof_init" yaml:"proof_init"`
	ProofHeight clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	Signer      string             `json:"signer" yaml:"signer"`
}

// NewMsgChannelCloseConfirm creates a new MsgChannelCloseConfirm instance
func NewMsgChannelCloseConfirm(
	portID, channelID string, proofInit []byte, proofHeight clienttypes.Height,
	signer string,
) *MsgChannelCloseConfirm {
	return &MsgChannelCloseConfirm{
		PortId:      portID,
		ChannelId:   channelID,
		ProofInit:   proofInit,
		ProofHeight: proofHeight,
		Signer:      signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgChannelCloseConfirm) ValidateBasic() error {
	if err := host.PortIdentifierValidator(msg.PortId); err != nil {
		return sdkerrors.Wrap(err, "invalid port ID")
	}
	if !IsValidChannelID(msg.ChannelId) {
		return ErrInvalidChannelIdentifier
	}
	if len(msg.ProofInit) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	return validateSigner(msg.Signer)
}

// MsgRecvPacket receives incoming IBC packet
type MsgRecvPacket struct {
	Packet          Packet             `json:"packet" yaml:"packet"`
	ProofCommitment []byte             `json:"proof_commitment" yaml:"proof_commitment"`
	ProofHeight     clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	Signer          string             `json:"signer" yaml:"signer"`
}

// NewMsgRecvPacket constructs new MsgRecvPacket
func NewMsgRecvPacket(
	packet Packet, proofCommitment []byte, proofHeight clienttypes.Height,
	signer string,
) *MsgRecvPacket {
	return &MsgRecvPacket{
		Packet:          packet,
		ProofCommitment: proofCommitment,
		ProofHeight:     proofHeight,
		Signer:          signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgRecvPacket) ValidateBasic() error {
	if len(msg.ProofCommitment) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return msg.Packet.ValidateBasic()
}

// MsgTimeout receives timed-out packet
type MsgTimeout struct {
	Packet           Packet             `json:"packet" yaml:"packet"`
	ProofUnreceived  []byte             `json:"proof_unreceived" yaml:"proof_unreceived"`
	ProofHeight      clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	NextSequenceRecv uint64             `json:"next_sequence_recv" yaml:"next_sequence_recv"`
	Signer           string             `json:"signer" yaml:"signer"`
}

// NewMsgTimeout constructs new MsgTimeout
func NewMsgTimeout(
	packet Packet, nextSequenceRecv uint64, proofUnreceived []byte,
	proofHeight clienttypes.Height, signer string,
) *MsgTimeout {
	return &MsgTimeout{
		Packet:           packet,
		NextSequenceRecv: nextSequenceRecv,
		ProofUnreceived:  proofUnreceived,
		ProofHeight:      proofHeight,
		Signer:           signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgTimeout) ValidateBasic() error {
	if len(msg.ProofUnreceived) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	if msg.NextSequenceRecv == 0 {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidSequence, "next sequence receive cannot be 0")
	}
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return msg.Packet.ValidateBasic()
}

// MsgTimeoutOnClose timed-out packet upon counterparty channel closure.
type MsgTimeoutOnClose struct {
	Packet           Packet             `json:"packet" yaml:"packet"`
	ProofUnreceived  []byte             `json:"proof_unreceived" yaml:"proof_unreceived"`
	ProofClose       []byte             `json:"proof_close" yaml:"proof_close"`
	ProofHeight      clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	NextSequenceRecv uint64             `json:"next_sequence_recv" yaml:"next_sequence_recv"`
	Signer           string             `json:"signer" yaml:"signer"`
}

// NewMsgTimeoutOnClose constructs new MsgTimeoutOnClose
func NewMsgTimeoutOnClose(
	packet Packet, nextSequenceRecv uint64,
	proofUnreceived, proofClose []byte,
	proofHeight clienttypes.Height, signer string,
) *MsgTimeoutOnClose {
	return &MsgTimeoutOnClose{
		Packet:           packet,
		NextSequenceRecv: nextSequenceRecv,
		ProofUnreceived:  proofUnreceived,
		ProofClose:       proofClose,
		ProofHeight:      proofHeight,
		Signer:           signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgTimeoutOnClose) ValidateBasic() error {
	if msg.NextSequenceRecv == 0 {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidSequence, "next sequence receive cannot be 0")
	}
	if len(msg.ProofUnreceived) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if len(msg.ProofClose) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof of closed counterparty channel end")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return msg.Packet.ValidateBasic()
}

// MsgAcknowledgement receives incoming IBC acknowledgement
type MsgAcknowledgement struct {
	Packet          Packet             `json:"packet" yaml:"packet"`
	Acknowledgement []byte             `json:"acknowledgement" yaml:"acknowledgement"`
	ProofAcked      []byte             `json:"proof_acked" yaml:"proof_acked"`
	ProofHeight     clienttypes.Height `json:"proof_height" yaml:"proof_height"`
	Signer          string             `json:"signer" yaml:"signer"`
}

// NewMsgAcknowledgement constructs a new MsgAcknowledgement
func NewMsgAcknowledgement(
	packet Packet,
	ack, proofAcked []byte,
	proofHeight clienttypes.Height,
	signer string,
) *MsgAcknowledgement {
	return &MsgAcknowledgement{
		Packet:          packet,
		Acknowledgement: ack,
		ProofAcked:      proofAcked,
		ProofHeight:     proofHeight,
		Signer:          signer,
	}
}

// ValidateBasic performs stateless checks on the message.
func (msg MsgAcknowledgement) ValidateBasic() error {
	if len(msg.ProofAcked) == 0 {
		return sdkerrors.Wrap(commitmenttypes.ErrInvalidProof, "cannot submit an empty proof")
	}
	if msg.ProofHeight.IsZero() {
		return sdkerrors.Wrap(ibcerrors.ErrInvalidHeight, "proof height must be non-zero")
	}
	if len(msg.Acknowledgement) == 0 {
		return sdkerrors.Wrap(ErrInvalidAcknowledgement, "ack bytes cannot be empty")
	}
	if err := validateSigner(msg.Signer); err != nil {
		return err
	}
	return msg.Packet.ValidateBasic()
}

func validateSigner(signer string) error {
	if _, err := sdk.AccAddressFromBech32(signer); err != nil {
		return sdkerrors.Wrapf(ibcerrors.ErrInvalidAddress, "string could not be parsed as address: %v", err)
	}
	return nil
}
