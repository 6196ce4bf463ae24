package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/babylonchain/beacon-committee/cmd/beacond/daemon"
	"github.com/babylonchain/beacon-committee/config"
)

// NewRootCmd creates a new root command for beacond. It is called once in the main function.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "beacond",
		Short:         "beacond - Beacon Committee Daemon.",
		Long:          `beacond selects stake-weighted signing groups and accepts their DKG results.`,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().String(daemon.HomeFlag, config.DefaultBeacondDir, "The application home directory")
	return cmd
}

func main() {
	cmd := NewRootCmd()
	cmd.AddCommand(daemon.CommandInit(), daemon.CommandStart())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error while executing beacond CLI: %s", err.Error())
		os.Exit(1)
	}
}
