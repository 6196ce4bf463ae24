package daemon

import (
	"path/filepath"
	"testing"

	"github.com/juju/fslock"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/config"
)

func TestStartRefusesLockedHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "beacond")

	initCmd := CommandInit()
	initCmd.Flags().String(HomeFlag, home, "")
	require.NoError(t, runInitCmd(initCmd, nil))

	lock := fslock.New(config.LockFile(home))
	require.NoError(t, lock.TryLock())
	defer func() {
		require.NoError(t, lock.Unlock())
	}()

	startCmd := CommandStart()
	startCmd.Flags().String(HomeFlag, home, "")
	err := runStartCmd(startCmd, nil)
	require.ErrorContains(t, err, "already running")
}
