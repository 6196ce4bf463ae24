package config_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/config"
	"github.com/babylonchain/beacon-committee/types"
	"github.com/babylonchain/beacon-committee/util"
)

func TestWriteAndLoadConfig(t *testing.T) {
	home := t.TempDir()

	_, err := config.LoadConfig(home)
	require.Error(t, err)

	cfg := config.DefaultConfigWithHome(home)
	cfg.EarlyClosure = true
	cfg.GroupConfig.Size = 7
	cfg.GroupConfig.Threshold = 5
	cfg.ChainConfig.Stakes = []string{
		"0x00000000000000000000000000000000000000aa=400000",
		"0x00000000000000000000000000000000000000bb=600000",
	}
	require.NoError(t, util.MakeDirectory(home))
	require.NoError(t, config.WriteConfig(&cfg, home))

	loaded, err := config.LoadConfig(home)
	require.NoError(t, err)
	require.True(t, loaded.EarlyClosure)
	require.Equal(t, uint64(7), loaded.GroupConfig.ToParams().GroupSize)
	require.Equal(t, uint64(5), loaded.GroupConfig.ToParams().GroupThreshold)
	require.Equal(t, sdkmath.NewInt(200000), loaded.MinimumStakeAmount())
	require.Equal(t, config.DataDir(home), loaded.DatabaseConfig.DBPath)

	stakes, err := loaded.ChainConfig.ParseStakes()
	require.NoError(t, err)
	require.Len(t, stakes, 2)
	require.Equal(t, sdkmath.NewInt(600000), stakes[common.HexToAddress("0xbb")])
}

func TestValidateConfig(t *testing.T) {
	cfg := config.DefaultConfigWithHome(t.TempDir())
	require.NoError(t, cfg.Validate())

	cfg.GroupConfig.Threshold = cfg.GroupConfig.Size + 1
	require.ErrorIs(t, cfg.Validate(), types.ErrInvalidParams)

	cfg = config.DefaultConfigWithHome(t.TempDir())
	cfg.MinimumStake = "0"
	require.Error(t, cfg.Validate())

	cfg = config.DefaultConfigWithHome(t.TempDir())
	cfg.ChainConfig.Stakes = []string{"0xaa:100"}
	require.Error(t, cfg.Validate())

	cfg = config.DefaultConfigWithHome(t.TempDir())
	cfg.RpcListener = "not an address"
	require.Error(t, cfg.Validate())
}
