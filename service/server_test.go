package service_test

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/signal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/config"
	"github.com/babylonchain/beacon-committee/ledger"
	"github.com/babylonchain/beacon-committee/metrics"
	"github.com/babylonchain/beacon-committee/service"
	"github.com/babylonchain/beacon-committee/service/client"
)

func freePort(t *testing.T) int {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return port
}

func TestServerRunUntilShutdown(t *testing.T) {
	cfg := config.DefaultConfigWithHome(t.TempDir())
	rpcAddr := net.JoinHostPort("127.0.0.1", strconv.Itoa(freePort(t)))
	cfg.RpcListener = rpcAddr
	cfg.Metrics.Port = freePort(t)
	cfg.ChainConfig.StartHeight = 7

	db, err := cfg.DatabaseConfig.GetDbBackend()
	require.NoError(t, err)
	l, err := ledger.NewLedger(db)
	require.NoError(t, err)

	bc, err := service.NewLocalChainFromConfig(cfg.ChainConfig, l, zap.NewNop())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	app, err := service.NewBeaconAppFromConfig(&cfg, l, bc, metrics.NewBeaconMetrics(reg), zap.NewNop())
	require.NoError(t, err)

	interceptor, err := signal.Intercept()
	require.NoError(t, err)

	server := service.NewBeaconServer(&cfg, zap.NewNop(), app, bc, db, reg, interceptor)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.RunUntilShutdown()
	}()

	c, err := client.NewBeaconRpcClient(context.Background(), rpcAddr)
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool {
		height, err := c.CurrentBlock(context.Background())
		return err == nil && height >= cfg.ChainConfig.StartHeight
	}, 5*time.Second, 50*time.Millisecond)

	interceptor.RequestShutdown()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("the server did not shut down")
	}
}
