package metrics_test

import (
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/babylonchain/beacon-committee/metrics"
	"github.com/babylonchain/beacon-committee/types"
)

func TestBeaconMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewBeaconMetrics(reg)

	m.RecordTicket(metrics.TicketRetained)
	m.RecordTicket(metrics.TicketRetained)
	m.RecordTicket(metrics.TicketRejected)
	m.RecordGroupSelected(20)
	m.RecordResultRejected(errorsmod.Wrap(types.ErrTooEarly, "member 4"))
	m.RecordResultRejected(types.ErrAlreadyFinalized)
	m.RecordResultAccepted(100, 180)
	m.RecordCurrentBlock(181)

	count, err := testutil.GatherAndCount(reg,
		"beacon_tickets_total",
		"beacon_dkg_result_submissions_total",
		"beacon_finalized_requests_total",
	)
	require.NoError(t, err)
	// retained, rejected, timing, race, accepted, finalized
	require.Equal(t, 6, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				key := mf.GetName()
				for _, l := range metric.GetLabel() {
					key += "/" + l.GetValue()
				}
				values[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	require.Equal(t, float64(2), values["beacon_tickets_total/retained"])
	require.Equal(t, float64(1), values["beacon_dkg_result_submissions_total/timing"])
	require.Equal(t, float64(1), values["beacon_dkg_result_submissions_total/race"])
	require.Equal(t, float64(1), values["beacon_finalized_requests_total"])
	require.Equal(t, float64(20), values["beacon_last_selected_group_size"])
	require.Equal(t, float64(181), values["beacon_current_block"])
}
