package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// EnvPrefix prefixes the environment variables read in place of flags,
	// e.g. IBCSIM_MAX_PACKETS.
	EnvPrefix = "IBCSIM"

	flagLogLevel = "log_level"
	flagConfig   = "config"

	logLevelNone = "none"
)

// DefaultHome returns the directory used when --home is not set.
func DefaultHome() string {
	return os.ExpandEnv(filepath.Join("$HOME", ".ibcsim"))
}

// NewRootCmd returns the ibcsim root command. Flags are bound to viper by the
// caller, see cli.PrepareBaseCmd.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ibcsim",
		Short:        "Simulate IBC packet relaying between two in-process chains",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadConfigFile(viper.GetString(flagConfig))
		},
	}

	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level: debug, info, error or none")
	rootCmd.PersistentFlags().String(flagConfig, "", "YAML config file read on top of <home>/config.yaml")

	rootCmd.AddCommand(
		NewRunCmd(),
		NewServeCmd(),
		NewConfigCmd(),
	)

	return rootCmd
}

func loadConfigFile(path string) error {
	if path == "" {
		return nil
	}

	viper.SetConfigFile(path)
	if err := viper.MergeInConfig(); err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}

	return nil
}

// newLogger builds a tendermint logger writing to w, filtered by level.
func newLogger(w io.Writer, level string) (log.Logger, error) {
	if level == logLevelNone {
		return log.NewNopLogger(), nil
	}

	option, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", flagLogLevel)
	}

	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), option), nil
}
