package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aum_keeper"

// Outcome labels for cycles and submissions.
const (
	OutcomeSubmitted    = "submitted"
	OutcomeNoData       = "no_data"
	OutcomeReadError    = "read_error"
	OutcomeFormatError  = "format_error"
	OutcomeBuildTimeout = "build_timeout"
	OutcomeBuildError   = "build_error"
	OutcomeSubmitError  = "submit_error"
)

type KeeperMetrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	priorityFee   prometheus.Gauge
	feeRefreshErr prometheus.Counter
}

func NewKeeperMetrics(reg prometheus.Registerer) *KeeperMetrics {
	m := &KeeperMetrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Update cycles split by outcome",
		}, []string{"outcome"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time spent in a cycle before pacing sleep",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		}),
		priorityFee: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "priority_fee_micro_lamports",
			Help:      "Current compute unit price estimate",
		}),
		feeRefreshErr: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_refresh_errors_total",
			Help:      "Failed priority fee sampling calls",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.cycles, m.cycleDuration, m.priorityFee, m.feeRefreshErr)
	}
	return m
}

func (m *KeeperMetrics) IncCycle(outcome string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(outcome).Inc()
}

func (m *KeeperMetrics) ObserveCycle(seconds float64) {
	if m == nil {
		return
	}
	m.cycleDuration.Observe(seconds)
}

func (m *KeeperMetrics) SetPriorityFee(fee uint64) {
	if m == nil {
		return
	}
	m.priorityFee.Set(float64(fee))
}

func (m *KeeperMetrics) IncFeeRefreshError() {
	if m == nil {
		return
	}
	m.feeRefreshErr.Inc()
}
