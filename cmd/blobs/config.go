package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/blob-tools-mcp/internal/config"
)

func configCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config FILE",
		Short: "Write the effective configuration to FILE",
		Long: `Write the configuration blobs would use to FILE as YAML. Without
--config this is the built-in defaults, which makes a starting point for
a custom config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.Resolve(*configPath))
			if err != nil {
				return err
			}
			if err := config.SaveConfig(cfg, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
