package relayer

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"

	pingtypes "github.com/ComposableFi/ibc-core/modules/apps/ping/types"
	transfertypes "github.com/ComposableFi/ibc-core/modules/apps/transfer/types"
	clienttypes "github.com/ComposableFi/ibc-core/modules/core/02-client/types"
	channeltypes "github.com/ComposableFi/ibc-core/modules/core/04-channel/types"
	host "github.com/ComposableFi/ibc-core/modules/core/24-host"
	"github.com/ComposableFi/ibc-core/modules/core/exported"
	ibctypes "github.com/ComposableFi/ibc-core/modules/core/types"
	ibctesting "github.com/ComposableFi/ibc-core/testing"
)

const (
	AppTransfer = "transfer"
	AppPing     = "ping"

	OrderUnordered = "unordered"
	OrderOrdered   = "ordered"

	// DefaultTimeoutBlocks is the number of counterparty blocks a packet stays
	// receivable when no timeout height is configured.
	DefaultTimeoutBlocks = 100
)

var (
	ErrInvalidConfig = errors.New("invalid relayer config")
	ErrUnknownApp    = errors.New("unknown application")
)

// Config describes a relaying simulation between two in-process chains.
type Config struct {
	App     string `yaml:"app"`
	Order   string `yaml:"order"`
	Packets uint64 `yaml:"packets"`
	// MaxPacketsToProcess caps the number of packet messages submitted in a
	// single batch. Zero submits every pending packet at once.
	MaxPacketsToProcess uint64 `yaml:"max_packets_to_process"`
	// TimeoutBlocks is the number of counterparty blocks after the sends at
	// which the packets time out.
	TimeoutBlocks uint64 `yaml:"timeout_blocks"`
	Amount        int64  `yaml:"amount"`
	// Replay resubmits the first relayed batch to exercise the redundant
	// relay check.
	Replay bool `yaml:"replay"`
}

// DefaultConfig returns a transfer simulation over an unordered channel.
func DefaultConfig() Config {
	return Config{
		App:           AppTransfer,
		Order:         OrderUnordered,
		Packets:       10,
		TimeoutBlocks: DefaultTimeoutBlocks,
		Amount:        100,
	}
}

// Validate checks the config for values the simulation cannot run with.
func (cfg Config) Validate() error {
	switch cfg.App {
	case AppTransfer:
		if order, _ := parseOrder(cfg.Order); order == channeltypes.ORDERED {
			return errors.Wrap(ErrInvalidConfig, "transfer channels must be unordered")
		}
		if cfg.Amount <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "transfer amount must be positive, got %d", cfg.Amount)
		}
	case AppPing:
	default:
		return errors.Wrapf(ErrUnknownApp, "%q", cfg.App)
	}

	if _, err := parseOrder(cfg.Order); err != nil {
		return err
	}
	if cfg.Packets == 0 {
		return errors.Wrap(ErrInvalidConfig, "packet count cannot be zero")
	}
	if cfg.TimeoutBlocks == 0 {
		return errors.Wrap(ErrInvalidConfig, "timeout blocks cannot be zero")
	}

	return nil
}

// parseOrder accepts an empty order as unordered.
func parseOrder(order string) (channeltypes.Order, error) {
	if order == "" {
		return channeltypes.UNORDERED, nil
	}

	parsed, err := channeltypes.ParseOrder(order)
	if err != nil {
		return channeltypes.NONE, errors.Wrap(ErrInvalidConfig, err.Error())
	}

	return parsed, nil
}

// Relayer drives packets from chain A to chain B over a single path, submitting
// receives, acknowledgements and timeouts in batches.
type Relayer struct {
	cfg    Config
	logger log.Logger

	coord  *ibctesting.Coordinator
	chainA *ibctesting.TestChain
	chainB *ibctesting.TestChain
	path   *ibctesting.Path

	summary Summary
}

// New creates two chains and opens a client, connection and channel between
// them for the configured application.
func New(cfg Config, logger log.Logger) (*Relayer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Relayer{
		cfg:    cfg,
		logger: logger.With("module", "relayer"),
	}

	err := guard("setup", func() error {
		r.coord = ibctesting.NewCoordinatorWithLogger(newFailFastTB(logger), 2, logger)
		r.chainA = r.coord.GetChain(ibctesting.GetChainID(1))
		r.chainB = r.coord.GetChain(ibctesting.GetChainID(2))

		switch cfg.App {
		case AppTransfer:
			r.path = ibctesting.NewTransferPath(r.chainA, r.chainB)
		case AppPing:
			r.path = ibctesting.NewPingPath(r.chainA, r.chainB)
		}

		order, _ := parseOrder(cfg.Order)
		if order == channeltypes.ORDERED {
			r.path.SetChannelOrdered()
		}

		r.path.Setup()
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.summary = Summary{
		App:      cfg.App,
		Order:    r.path.EndpointA.ChannelConfig.Order.String(),
		ChainA:   r.chainA.ChainID,
		ChainB:   r.chainB.ChainID,
		PortID:   r.path.EndpointA.ChannelConfig.PortID,
		ChannelA: r.path.EndpointA.ChannelID,
		ChannelB: r.path.EndpointB.ChannelID,
	}

	r.logger.Info("path opened",
		"port", r.summary.PortID,
		"channel_a", r.summary.ChannelA,
		"channel_b", r.summary.ChannelB,
		"order", r.summary.Order,
	)

	return r, nil
}

// Path returns the path the relayer operates on.
func (r *Relayer) Path() *ibctesting.Path {
	return r.path
}

// Chains returns the sending and the receiving chain.
func (r *Relayer) Chains() []*ibctesting.TestChain {
	return []*ibctesting.TestChain{r.chainA, r.chainB}
}

// Run sends the configured number of packets from chain A and relays them to
// chain B, stopping early if ctx is cancelled between batches.
func (r *Relayer) Run(ctx context.Context) (Summary, error) {
	var packets []channeltypes.Packet
	err := guard("send", func() error {
		var err error
		packets, err = r.sendPackets(ctx)
		return err
	})
	if err != nil {
		return r.summary, err
	}

	err = guard("relay", func() error {
		return r.relayPackets(ctx, packets)
	})
	if err != nil {
		return r.summary, err
	}

	r.collectState()

	r.logger.Info("relaying finished",
		"sent", r.summary.Sent,
		"received", r.summary.Received,
		"acknowledged", r.summary.Acknowledged,
		"timed_out", r.summary.TimedOut,
		"batches", r.summary.Batches,
	)

	return r.summary, nil
}

// sendPackets submits the send messages on chain A in batches and returns the
// packets parsed from the emitted events.
func (r *Relayer) sendPackets(ctx context.Context) ([]channeltypes.Packet, error) {
	timeoutHeight := clienttypes.NewHeight(
		clienttypes.ParseChainID(r.chainB.ChainID),
		uint64(r.chainB.GetContext().BlockHeight())+r.cfg.TimeoutBlocks,
	)
	r.summary.TimeoutHeight = timeoutHeight.String()

	msgs := make([]exported.Msg, 0, r.cfg.Packets)
	for i := uint64(0); i < r.cfg.Packets; i++ {
		msgs = append(msgs, r.sendMsg(i, timeoutHeight))
	}

	var packets []channeltypes.Packet
	for _, batch := range r.batches(msgs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		events, err := r.chainA.SendMsgs(batch...)
		if err != nil {
			return nil, errors.Wrap(err, "sending packets")
		}

		sent, err := ibctesting.ParsePacketsFromEvents(channeltypes.EventTypeSendPacket, events)
		if err != nil {
			return nil, err
		}

		packets = append(packets, sent...)
		r.summary.Sent += uint64(len(sent))
	}

	r.logger.Info("packets sent", "count", len(packets), "timeout_height", timeoutHeight)

	return packets, nil
}

func (r *Relayer) sendMsg(i uint64, timeoutHeight clienttypes.Height) exported.Msg {
	endpoint := r.path.EndpointA

	switch r.cfg.App {
	case AppPing:
		return pingtypes.NewMsgSendPing(
			endpoint.ChannelConfig.PortID, endpoint.ChannelID,
			fmt.Sprintf("ping %d", i+1), r.chainA.GetSenderAddress(),
			timeoutHeight, 0,
		)
	default:
		return transfertypes.NewMsgTransfer(
			endpoint.ChannelConfig.PortID, endpoint.ChannelID,
			sdk.NewInt64Coin(sdk.DefaultBondDenom, r.cfg.Amount),
			r.chainA.GetSenderAddress(), r.chainB.GetSenderAddress(),
			timeoutHeight, 0,
		)
	}
}

// batches splits msgs into chunks of at most MaxPacketsToProcess messages.
func (r *Relayer) batches(msgs []exported.Msg) [][]exported.Msg {
	size := len(msgs)
	if max := r.cfg.MaxPacketsToProcess; max > 0 && uint64(size) > max {
		size = int(max)
	}

	var chunks [][]exported.Msg
	for len(msgs) > 0 {
		if len(msgs) < size {
			size = len(msgs)
		}
		chunks = append(chunks, msgs[:size])
		msgs = msgs[size:]
	}

	return chunks
}

// relayPackets moves packets to chain B one batch at a time. Packets whose
// timeout height chain B has reached are timed out on chain A instead.
func (r *Relayer) relayPackets(ctx context.Context, packets []channeltypes.Packet) error {
	for len(packets) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := len(packets)
		if max := r.cfg.MaxPacketsToProcess; max > 0 && uint64(n) > max {
			n = int(max)
		}
		batch := packets[:n]
		packets = packets[n:]

		var live, expired []channeltypes.Packet
		ctxB := r.chainB.GetContext()
		selfHeight, selfTimestamp := clienttypes.GetSelfHeight(ctxB), uint64(ctxB.BlockTime().UnixNano())
		for _, packet := range batch {
			timeout := channeltypes.NewTimeout(packet.TimeoutHeight, packet.TimeoutTimestamp)
			if timeout.Elapsed(selfHeight, selfTimestamp) {
				expired = append(expired, packet)
			} else {
				live = append(live, packet)
			}
		}

		if len(live) > 0 {
			if err := r.receive(live); err != nil {
				return err
			}
		}

		if len(expired) > 0 {
			closed, err := r.timeout(expired)
			if err != nil {
				return err
			}
			if closed {
				r.summary.Abandoned += uint64(len(packets))
				r.logger.Info("channel closed by timeout", "abandoned", len(packets))
				return nil
			}
		}
	}

	return nil
}

// receive submits the packets to chain B together with a client update and
// relays the written acknowledgements back to chain A.
func (r *Relayer) receive(packets []channeltypes.Packet) error {
	src, dst := r.path.EndpointA, r.path.EndpointB

	update, err := r.updateClientMsg(dst)
	if err != nil {
		return err
	}

	msgs := []exported.Msg{update}
	for _, packet := range packets {
		key := host.PacketCommitmentKey(packet.GetSourcePort(), packet.GetSourceChannel(), packet.GetSequence())
		proof, proofHeight := src.QueryProof(key)
		msgs = append(msgs, channeltypes.NewMsgRecvPacket(packet, proof, proofHeight, dst.Chain.GetSenderAddress()))
	}

	results, err := r.submit(dst.Chain, msgs)
	if err != nil {
		return errors.Wrap(err, "receiving packets")
	}

	var acked []channeltypes.Packet
	var acks [][]byte
	for i, res := range results[1:] {
		if !res.IsOK() {
			r.logger.Error("packet receive failed", "sequence", packets[i].GetSequence(), "err", res.Err)
			continue
		}
		r.summary.Received++

		ack, err := ibctesting.ParseAckFromEvents(res.Events)
		if err != nil {
			// acknowledged asynchronously
			continue
		}
		acked = append(acked, packets[i])
		acks = append(acks, ack)
	}

	if r.cfg.Replay && !r.summary.Replayed {
		r.summary.Replayed = true
		if _, err := dst.Chain.SendMsgBatch(msgs[1:]...); err != nil {
			if !errors.Is(err, channeltypes.ErrRedundantTx) {
				return errors.Wrap(err, "replaying receive batch")
			}
			r.summary.RedundantRejected++
			r.logger.Info("redundant relay rejected", "packets", len(msgs)-1)
		}
	}

	if len(acked) == 0 {
		return nil
	}

	return r.acknowledge(acked, acks)
}

func (r *Relayer) acknowledge(packets []channeltypes.Packet, acks [][]byte) error {
	src, dst := r.path.EndpointA, r.path.EndpointB

	update, err := r.updateClientMsg(src)
	if err != nil {
		return err
	}

	msgs := []exported.Msg{update}
	for i, packet := range packets {
		key := host.PacketAcknowledgementKey(packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
		proof, proofHeight := dst.QueryProof(key)
		msgs = append(msgs, channeltypes.NewMsgAcknowledgement(packet, acks[i], proof, proofHeight, src.Chain.GetSenderAddress()))
	}

	results, err := r.submit(src.Chain, msgs)
	if err != nil {
		return errors.Wrap(err, "acknowledging packets")
	}

	for i, res := range results[1:] {
		if !res.IsOK() {
			r.logger.Error("packet acknowledgement failed", "sequence", packets[i].GetSequence(), "err", res.Err)
			continue
		}
		r.summary.Acknowledged++
	}

	return nil
}

// timeout proves non-receipt of the packets on chain B and submits the
// timeouts to chain A. On an ordered channel the first timeout closes the
// channel, so only one packet is timed out and true is returned.
func (r *Relayer) timeout(packets []channeltypes.Packet) (bool, error) {
	src, dst := r.path.EndpointA, r.path.EndpointB
	ordered := src.ChannelConfig.Order == channeltypes.ORDERED

	// the proof height must reach the timeout height
	timeoutHeight := packets[len(packets)-1].GetTimeoutHeight().GetRevisionHeight()
	for r.chainB.LastHeader.GetHeight().GetRevisionHeight() < timeoutHeight {
		r.coord.CommitBlock(r.chainB)
	}

	update, err := r.updateClientMsg(src)
	if err != nil {
		return false, err
	}

	if ordered {
		packets = packets[:1]
	}

	nextSeqRecv, found := dst.Chain.App.IBCKeeper.ChannelKeeper.GetNextSequenceRecv(
		dst.Chain.GetContext(), dst.ChannelConfig.PortID, dst.ChannelID,
	)
	if !found {
		return false, errors.Wrapf(channeltypes.ErrSequenceReceiveNotFound, "channel %s", dst.ChannelID)
	}

	msgs := []exported.Msg{update}
	for _, packet := range packets {
		key := host.PacketReceiptKey(packet.GetDestPort(), packet.GetDestChannel(), packet.GetSequence())
		if ordered {
			key = host.NextSequenceRecvKey(packet.GetDestPort(), packet.GetDestChannel())
		}
		proof, proofHeight := dst.QueryProof(key)
		msgs = append(msgs, channeltypes.NewMsgTimeout(packet, nextSeqRecv, proof, proofHeight, src.Chain.GetSenderAddress()))
	}

	results, err := r.submit(src.Chain, msgs)
	if err != nil {
		return false, errors.Wrap(err, "timing out packets")
	}

	for i, res := range results[1:] {
		if !res.IsOK() {
			r.logger.Error("packet timeout failed", "sequence", packets[i].GetSequence(), "err", res.Err)
			continue
		}
		r.summary.TimedOut++
	}

	return ordered, nil
}

// updateClientMsg commits a block on the counterparty of endpoint and returns
// the message updating the endpoint's client to it.
func (r *Relayer) updateClientMsg(endpoint *ibctesting.Endpoint) (exported.Msg, error) {
	counterparty := endpoint.Counterparty.Chain
	r.coord.CommitBlock(counterparty)

	header, err := endpoint.Chain.ConstructUpdateTMClientHeader(counterparty, endpoint.ClientID)
	if err != nil {
		return nil, err
	}

	return clienttypes.NewMsgUpdateClient(endpoint.ClientID, header, endpoint.Chain.GetSenderAddress()), nil
}

// submit sends a batch whose first message is a client update. The batch fails
// as a whole if the update fails since every proof depends on it.
func (r *Relayer) submit(chain *ibctesting.TestChain, msgs []exported.Msg) ([]ibctypes.Result, error) {
	results, err := chain.SendMsgBatch(msgs...)
	if err != nil {
		return nil, err
	}

	r.summary.Batches++

	if err := results[0].Err; err != nil {
		return nil, errors.Wrap(err, "client update")
	}

	return results, nil
}

// collectState records the application state of both chains in the summary.
func (r *Relayer) collectState() {
	a, b := r.path.EndpointA, r.path.EndpointB

	switch r.cfg.App {
	case AppTransfer:
		ledgerA := r.chainA.App.TransferKeeper.Ledger()
		ledgerB := r.chainB.App.TransferKeeper.Ledger()

		voucher := transfertypes.ParseDenomTrace(
			transfertypes.GetPrefixedDenom(b.ChannelConfig.PortID, b.ChannelID, sdk.DefaultBondDenom),
		)
		escrow := transfertypes.GetEscrowAddress(a.ChannelConfig.PortID, a.ChannelID)

		r.summary.Balances = map[string]string{
			"sender":   ledgerA.GetBalance(r.chainA.GetContext(), r.chainA.SenderAccount.GetAddress(), sdk.DefaultBondDenom).String(),
			"escrow":   ledgerA.GetBalance(r.chainA.GetContext(), escrow, sdk.DefaultBondDenom).String(),
			"receiver": ledgerB.GetBalance(r.chainB.GetContext(), r.chainB.SenderAccount.GetAddress(), voucher.IBCDenom()).String(),
		}
	case AppPing:
		countersA := r.chainA.App.PingKeeper.GetCounters(r.chainA.GetContext(), a.ChannelConfig.PortID, a.ChannelID)
		countersB := r.chainB.App.PingKeeper.GetCounters(r.chainB.GetContext(), b.ChannelConfig.PortID, b.ChannelID)
		r.summary.PingCounters = map[string]pingtypes.Counters{
			r.chainA.ChainID: countersA,
			r.chainB.ChainID: countersB,
		}
	}

	r.summary.ChannelState = a.GetChannel().State.String()
}
