package util_test

import (
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/util"
)

func TestMakeDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.False(t, util.FileExists(dir))
	require.NoError(t, util.MakeDirectory(dir))
	require.True(t, util.FileExists(dir))
	// idempotent
	require.NoError(t, util.MakeDirectory(dir))
}

func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("BEACON_TEST_DIR", "/tmp/beacon")
	require.Equal(t, "/tmp/beacon/data", util.CleanAndExpandPath("$BEACON_TEST_DIR/./data/"))
	require.Equal(t, "", util.CleanAndExpandPath(""))

	u, err := user.Current()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(u.HomeDir, "beacond"), util.CleanAndExpandPath("~/beacond"))
}
