// Command blobs labels the connected components of an image from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "blobs",
		Short: "Connected-component labeling for images",
		Long: `blobs thresholds an image, groups its foreground pixels into
connected components and reports or renders them.

Labeling defaults are read from the YAML file given by --config or the
IMAGE_MCP_CONFIG environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(
		labelCmd(&configPath),
		configCmd(&configPath),
		versionCmd(),
	)

	return rootCmd
}
