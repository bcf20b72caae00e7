package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// NewConfigCmd returns the command printing the resolved relayer config.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the relayer config resolved from flags, environment and config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromViper(cmd)
			if err != nil {
				return err
			}

			bz, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(bz)
			return err
		},
	}

	addRelayerFlags(cmd)

	return cmd
}
