package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/babylonchain/beacon-committee/metrics"
)

func TestMetricsServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewBeaconMetrics(reg)
	m.RecordCurrentBlock(42)

	s, err := metrics.Start("127.0.0.1:0", reg, zap.NewNop())
	require.NoError(t, err)

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "beacon_current_block 42")

	// the address is taken while the server runs
	_, err = metrics.Start(s.Addr(), reg, zap.NewNop())
	require.Error(t, err)

	require.NoError(t, s.Stop(context.Background()))
}
