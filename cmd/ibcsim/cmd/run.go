package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli"

	"github.com/ComposableFi/ibc-core/cmd/ibcsim/relayer"
)

const (
	flagApp           = "app"
	flagOrder         = "order"
	flagPackets       = "packets"
	flagMaxPackets    = "max-packets"
	flagTimeoutHeight = "timeout-height"
	flagAmount        = "amount"
	flagReplay        = "replay"
	flagSummary       = "summary"

	// keyMaxPacketsToProcess is accepted in config files in place of max-packets.
	keyMaxPacketsToProcess = "max_packets_to_process"

	summaryStdout = "-"
)

// NewRunCmd returns the command relaying packets between two in-process chains.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a channel, send packets from the first chain and relay them to the second",
		Long: `Open a channel between two in-process chains, send packets from the first chain and
relay them in batches of at most --max-packets messages. Packets whose timeout height the
receiving chain has reached are timed out instead. A YAML summary of the run is written to
--summary, <home>/summary.yaml by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.OutOrStdout(), viper.GetString(flagLogLevel))
			if err != nil {
				return err
			}

			cfg, err := configFromViper(cmd)
			if err != nil {
				return err
			}

			r, err := relayer.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			summary, err := r.Run(ctx)
			if err != nil {
				return err
			}

			return writeSummary(cmd, summary)
		},
	}

	addRelayerFlags(cmd)
	cmd.Flags().Bool(flagReplay, false, "resubmit the first receive batch to exercise the redundant relay check")
	cmd.Flags().String(flagSummary, "", "summary output file, - for stdout")

	return cmd
}

func addRelayerFlags(cmd *cobra.Command) {
	defaults := relayer.DefaultConfig()

	cmd.Flags().String(flagApp, defaults.App, "application to relay: transfer or ping")
	cmd.Flags().String(flagOrder, defaults.Order, "channel order: unordered or ordered")
	cmd.Flags().Uint64(flagPackets, defaults.Packets, "number of packets to send")
	cmd.Flags().Uint64(flagMaxPackets, defaults.MaxPacketsToProcess, "maximum packet messages per batch, 0 for no limit")
	cmd.Flags().Uint64(flagTimeoutHeight, defaults.TimeoutBlocks, "counterparty blocks after which sent packets time out")
	cmd.Flags().Int64(flagAmount, defaults.Amount, "tokens sent per transfer packet")
}

// configFromViper resolves the relayer config from flags, environment and
// config files. Values are converted leniently since environment variables
// and config entries arrive untyped.
func configFromViper(cmd *cobra.Command) (relayer.Config, error) {
	var (
		cfg relayer.Config
		err error
	)

	cfg.App = cast.ToString(viper.Get(flagApp))
	cfg.Order = cast.ToString(viper.Get(flagOrder))
	cfg.Replay = cast.ToBool(viper.Get(flagReplay))

	if cfg.Packets, err = cast.ToUint64E(viper.Get(flagPackets)); err != nil {
		return cfg, errors.Wrapf(err, "invalid %s", flagPackets)
	}

	maxPackets := viper.Get(flagMaxPackets)
	if !cmd.Flags().Changed(flagMaxPackets) && viper.IsSet(keyMaxPacketsToProcess) {
		maxPackets = viper.Get(keyMaxPacketsToProcess)
	}
	if cfg.MaxPacketsToProcess, err = cast.ToUint64E(maxPackets); err != nil {
		return cfg, errors.Wrapf(err, "invalid %s", flagMaxPackets)
	}

	if cfg.TimeoutBlocks, err = cast.ToUint64E(viper.Get(flagTimeoutHeight)); err != nil {
		return cfg, errors.Wrapf(err, "invalid %s", flagTimeoutHeight)
	}

	if cfg.Amount, err = cast.ToInt64E(viper.Get(flagAmount)); err != nil {
		return cfg, errors.Wrapf(err, "invalid %s", flagAmount)
	}

	return cfg, cfg.Validate()
}

func writeSummary(cmd *cobra.Command, summary relayer.Summary) error {
	path := viper.GetString(flagSummary)
	if path == summaryStdout {
		return summary.WriteYAML(cmd.OutOrStdout())
	}

	if path == "" {
		path = filepath.Join(viper.GetString(cli.HomeFlag), "summary.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating summary directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating summary file")
	}
	defer f.Close()

	if err := summary.WriteYAML(f); err != nil {
		return errors.Wrapf(err, "writing summary to %s", path)
	}

	cmd.Printf("summary written to %s\n", path)
	return nil
}
