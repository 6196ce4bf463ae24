package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/babylonchain/beacon-committee/types"
)

const (
	TicketRetained  = "retained"
	TicketDiscarded = "discarded"
	TicketRejected  = "rejected"

	resultAccepted = "accepted"
)

type BeaconMetrics struct {
	currentBlock         prometheus.Gauge
	awaitingGroup        prometheus.Gauge
	tickets              *prometheus.CounterVec
	groupsSelected       prometheus.Counter
	selectedGroupSize    prometheus.Gauge
	resultSubmissions    *prometheus.CounterVec
	finalizedRequests    prometheus.Counter
	blocksToFinalization prometheus.Histogram
}

// NewBeaconMetrics creates the beacon collectors and registers them on reg.
func NewBeaconMetrics(reg prometheus.Registerer) *BeaconMetrics {
	m := &BeaconMetrics{
		currentBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "beacon_current_block",
			Help: "The latest block height seen by the beacon",
		}),
		awaitingGroup: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "beacon_requests_awaiting_group",
			Help: "The number of group requests still collecting tickets",
		}),
		tickets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_tickets_total",
			Help: "The number of submitted tickets by outcome",
		}, []string{"outcome"}),
		groupsSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beacon_groups_selected_total",
			Help: "The number of selected groups",
		}),
		selectedGroupSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "beacon_last_selected_group_size",
			Help: "The number of members of the last selected group",
		}),
		resultSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_dkg_result_submissions_total",
			Help: "The number of DKG result submissions by outcome; rejections are labelled with their error class",
		}, []string{"outcome"}),
		finalizedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beacon_finalized_requests_total",
			Help: "The number of group requests with an accepted DKG result",
		}),
		blocksToFinalization: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "beacon_blocks_to_finalization",
			Help:    "The number of blocks between the group selection and the accepted DKG result",
			Buckets: prometheus.LinearBuckets(0, 20, 12),
		}),
	}

	reg.MustRegister(
		m.currentBlock,
		m.awaitingGroup,
		m.tickets,
		m.groupsSelected,
		m.selectedGroupSize,
		m.resultSubmissions,
		m.finalizedRequests,
		m.blocksToFinalization,
	)

	return m
}

func (m *BeaconMetrics) RecordCurrentBlock(height uint64) {
	m.currentBlock.Set(float64(height))
}

func (m *BeaconMetrics) RecordAwaitingGroup(n int) {
	m.awaitingGroup.Set(float64(n))
}

func (m *BeaconMetrics) RecordTicket(outcome string) {
	m.tickets.WithLabelValues(outcome).Inc()
}

func (m *BeaconMetrics) RecordGroupSelected(size uint64) {
	m.groupsSelected.Inc()
	m.selectedGroupSize.Set(float64(size))
}

// RecordResultRejected counts a rejected DKG result under the class of err.
func (m *BeaconMetrics) RecordResultRejected(err error) {
	m.resultSubmissions.WithLabelValues(types.ClassOf(err).String()).Inc()
}

func (m *BeaconMetrics) RecordResultAccepted(baseBlock, resultBlock uint64) {
	m.resultSubmissions.WithLabelValues(resultAccepted).Inc()
	m.finalizedRequests.Inc()
	m.blocksToFinalization.Observe(float64(resultBlock - baseBlock))
}
