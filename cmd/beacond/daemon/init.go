package daemon

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/babylonchain/beacon-committee/config"
	"github.com/babylonchain/beacon-committee/util"
)

// CommandInit returns the init command of beacond daemon that starts the config dir.
func CommandInit() *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "init",
		Short:   "Initialize a beacon home directory.",
		Long:    `Creates a new beacon home directory with default config`,
		Example: `beacond init --home /home/user/.beacond --force`,
		Args:    cobra.NoArgs,
		RunE:    runInitCmd,
	}
	cmd.Flags().Bool(forceFlag, false, "Override existing configuration")
	return cmd
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	homePath, err := homePathFromFlags(cmd)
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool(forceFlag)
	if err != nil {
		return fmt.Errorf("failed to read flag %s: %w", forceFlag, err)
	}

	if util.FileExists(homePath) && !force {
		return fmt.Errorf("home path %s already exists", homePath)
	}

	if err := util.MakeDirectory(homePath); err != nil {
		return err
	}
	// Create log directory
	logDir := config.LogDir(homePath)
	if err := util.MakeDirectory(logDir); err != nil {
		return err
	}

	defaultConfig := config.DefaultConfigWithHome(homePath)

	return config.WriteConfig(&defaultConfig, homePath)
}

func homePathFromFlags(cmd *cobra.Command) (string, error) {
	home, err := cmd.Flags().GetString(HomeFlag)
	if err != nil {
		return "", fmt.Errorf("failed to read flag %s: %w", HomeFlag, err)
	}

	homePath, err := filepath.Abs(home)
	if err != nil {
		return "", err
	}

	return util.CleanAndExpandPath(homePath), nil
}
