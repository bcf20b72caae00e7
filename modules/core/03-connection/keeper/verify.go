package keeper

import (
	"math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	"github.com/ComposableFi/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/ComposableFi/ibc-core/modules/core/23-commitment/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	ibcerrors "github.com/ComposableFi/ibc-core/modules/core/errors"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
)

// VerifyClientState verifies a proof of a client state of the running machine
// stored on the target machine
func (k Keeper) VerifyClientState(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	proof []byte,
	clientState exported.ClientState,
) error {
	targetClient, err := k.activeClientState(ctx, connection.GetClientID())
	if err != nil {
		return err
	}

	bz, err := clienttypes.MarshalClientState(k.cdc, clientState)
	if err != nil {
		return err
	}

	path := host.FullClientStatePath(connection.GetCounterparty().GetClientID())
	if err := k.verifyMembership(ctx, targetClient, connection, height, false, proof, path, bz); err != nil {
		return sdkerrors.Wrapf(types.ErrConnectionVerificationFailed, "client state: %s", err)
	}

	return nil
}

// VerifyClientConsensusState verifies a proof of the consensus state of the
// specified client stored on the target machine.
func (k Keeper) VerifyClientConsensusState(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	consensusHeight exported.Height,
	proof []byte,
	consensusState exported.ConsensusState,
) error {
	targetClient, err := k.activeClientState(ctx, connection.GetClientID())
	if err != nil {
		return err
	}

	bz, err := clienttypes.MarshalConsensusState(k.cdc, consensusState)
	if err != nil {
		return err
	}

	path := host.FullConsensusStatePath(connection.GetCounterparty().GetClientID(), consensusHeight)
	if err := k.verifyMembership(ctx, targetClient, connection, height, false, proof, path, bz); err != nil {
		return sdkerrors.Wrapf(types.ErrConnectionVerificationFailed, "consensus state at height %s: %s", consensusHeight, err)
	}

	return nil
}

// VerifyConnectionState verifies a proof of the connection state of the
// specified connection end stored on the target machine.
func (k Keeper) VerifyConnectionState(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	proof []byte,
	connectionID string,
	counterpartyConnection exported.ConnectionI, // opposite connection
) error {
	targetClient, err := k.activeClientState(ctx, connection.GetClientID())
	if err != nil {
		return err
	}

	connectionEnd, ok := counterpartyConnection.(types.ConnectionEnd)
	if !ok {
		return sdkerrors.Wrapf(ibcerrors.ErrInvalidType, "invalid connection type %T", counterpartyConnection)
	}

	bz, err := k.cdc.Marshal(connectionEnd)
	if err != nil {
		return err
	}

	if err := k.verifyMembership(ctx, targetClient, connection, height, false, proof, host.ConnectionPath(connectionID), bz); err != nil {
		return sdkerrors.Wrapf(types.ErrConnectionVerificationFailed, "connection %s: %s", connectionID, err)
	}

	return nil
}

// VerifyChannelState verifies a proof of the channel state of the specified
// channel end, under the specified port, stored on the target machine.
func (k Keeper) VerifyChannelState(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	channel exported.ChannelI,
) error {
	targetClient, err := k.activeClientState(ctx, connection.GetClientID())
	if err != nil {
		return err
	}

	channelEnd, ok := channel.(channeltypes.Channel)
	if !ok {
		return sdkerrors.Wrapf(ibcerrors.ErrInvalidType, "invalid channel type %T", channel)
	}

	bz, err := k.cdc.Marshal(channelEnd)
	if err != nil {
		return err
	}

	if err := k.verifyMembership(ctx, targetClient, connection, height, false, proof, host.ChannelPath(portID, channelID), bz); err != nil {
		return sdkerrors.Wrapf(clienttypes.ErrFailedChannelStateVerification, "port %s channel %s: %s", portID, channelID, err)
	}

	return nil
}

// VerifyPacketCommitment verifies a proof of an outgoing packet commitment at
// the specified port, specified channel, and specified sequence.
func (k Keeper) VerifyPacketCommitment(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
	commitmentBytes []byte,
) error {
	targetClient, err := k.activeClientState(ctx, connection.GetClientID())
	if err != nil {
		return err
	}

	path := host.PacketCommitmentPath(portID, channelID, sequence)
	if err := k.verifyMembership(ctx, targetClient, connection, height, true, proof, path, commitmentBytes); err != nil {
		return sdkerrors.Wrapf(clienttypes.ErrFailedPacketCommitmentVerification, "sequence %d: %s", sequence, err)
	}

	return nil
}

// VerifyPacketAcknowledgement verifies a proof of an incoming packet
// acknowledgement at the specified port, specified channel, and specified sequence.
func (k Keeper) VerifyPacketAcknowledgement(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
	acknowledgement []byte,
) error {
	targetClient, err := k.activeClientState(ctx, connection.GetClientID())
	if err != nil {
		return err
	}

	path := host.PacketAcknowledgementPath(portID, channelID, sequence)
	if err := k.verifyMembership(ctx, targetClient, connection, height, true, proof, path, channeltypes.CommitAcknowledgement(acknowledgement)); err != nil {
		return sdkerrors.Wrapf(clienttypes.ErrFailedPacketAckVerification, "sequence %d: %s", sequence, err)
	}

	return nil
}

// VerifyPacketReceiptAbsence verifies a proof of the absence of an
// incoming packet receipt at the specified port, specified channel, and
// specified sequence.
func (k Keeper) VerifyPacketReceiptAbsence(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	sequence uint64,
) error {
	clientID := connection.GetClientID()
	clientState, err := k.activeClientState(ctx, clientID)
	if err != nil {
		return err
	}

	merklePath := commitmenttypes.NewMerklePath([]byte(host.PacketReceiptPath(portID, channelID, sequence)))
	merklePath, err = commitmenttypes.ApplyPrefix(connection.GetCounterparty().GetPrefix(), merklePath)
	if err != nil {
		return err
	}

	if err := clientState.VerifyNonMembership(
		ctx, k.clientKeeper.ClientStore(ctx, clientID), k.cdc, height,
		connection.GetDelayPeriod(), k.getBlockDelay(ctx, connection),
		proof, merklePath,
	); err != nil {
		return sdkerrors.Wrapf(clienttypes.ErrFailedPacketReceiptVerification, "sequence %d for client (%s): %s", sequence, clientID, err)
	}

	return nil
}

// VerifyNextSequenceRecv verifies a proof of the next sequence number to be
// received of the specified channel at the specified port.
func (k Keeper) VerifyNextSequenceRecv(
	ctx sdk.Context,
	connection exported.ConnectionI,
	height exported.Height,
	proof []byte,
	portID,
	channelID string,
	nextSequenceRecv uint64,
) error {
	targetClient, err := k.activeClientState(ctx, connection.GetClientID())
	if err != nil {
		return err
	}

	path := host.NextSequenceRecvPath(portID, channelID)
	if err := k.verifyMembership(ctx, targetClient, connection, height, true, proof, path, sdk.Uint64ToBigEndian(nextSequenceRecv)); err != nil {
		return sdkerrors.Wrapf(clienttypes.ErrFailedNextSeqRecvVerification, "next sequence %d: %s", nextSequenceRecv, err)
	}

	return nil
}

// verifyMembership proves value under the counterparty prefix at path. The connection
// delay period applies to packet verification only.
func (k Keeper) verifyMembership(
	ctx sdk.Context,
	clientState exported.ClientState,
	connection exported.ConnectionI,
	height exported.Height,
	enforceDelay bool,
	proof []byte,
	path string,
	value []byte,
) error {
	clientID := connection.GetClientID()
	merklePath := commitmenttypes.NewMerklePath([]byte(path))
	merklePath, err := commitmenttypes.ApplyPrefix(connection.GetCounterparty().GetPrefix(), merklePath)
	if err != nil {
		return err
	}

	var timeDelay, blockDelay uint64
	if enforceDelay {
		timeDelay = connection.GetDelayPeriod()
		blockDelay = k.getBlockDelay(ctx, connection)
	}

	if err := clientState.VerifyMembership(
		ctx, k.clientKeeper.ClientStore(ctx, clientID), k.cdc, height,
		timeDelay, blockDelay,
		proof, merklePath, value,
	); err != nil {
		return sdkerrors.Wrapf(err, "client (%s)", clientID)
	}

	return nil
}

// activeClientState returns the client state for clientID if its status is Active.
// It is fetched for every proof since solo machine clients advance their sequence
// on each verification.
func (k Keeper) activeClientState(ctx sdk.Context, clientID string) (exported.ClientState, error) {
	clientState, found := k.clientKeeper.GetClientState(ctx, clientID)
	if !found {
		return nil, sdkerrors.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	switch status := k.clientKeeper.GetClientStatus(ctx, clientID); status {
	case exported.Active:
		return clientState, nil
	case exported.Frozen:
		return nil, sdkerrors.Wrapf(clienttypes.ErrClientFrozen, "client (%s) status is %s", clientID, status)
	default:
		return nil, sdkerrors.Wrapf(clienttypes.ErrClientNotActive, "client (%s) status is %s", clientID, status)
	}
}

// getBlockDelay calculates the block delay period from the time delay of the connection
// and the maximum expected time per block.
func (k Keeper) getBlockDelay(ctx sdk.Context, connection exported.ConnectionI) uint64 {
	// expectedTimePerBlock should never be zero, however if it is then return a 0 blcok delay for safety
	// as the expectedTimePerBlock parameter was not set.
	expectedTimePerBlock := k.GetMaxExpectedTimePerBlock(ctx)
	if expectedTimePerBlock == 0 {
		return 0
	}
	// calculate minimum block delay by dividing time delay period
	// by the expected time per block. Round up the block delay.
	timeDelay := connection.GetDelayPeriod()
	return uint64(math.Ceil(float64(timeDelay) / float64(expectedTimePerBlock)))
}
