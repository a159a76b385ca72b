package metrics

import "github.com/prometheus/client_golang/prometheus"

// ExpiryMetrics tracks the Available -> Expired sweep.
type ExpiryMetrics struct {
	expired *prometheus.CounterVec
	runs    *prometheus.CounterVec
}

// NewExpiryMetrics registers the sweep metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewExpiryMetrics(reg prometheus.Registerer) *ExpiryMetrics {
	if reg == nil {
		return &ExpiryMetrics{}
	}
	expired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listings_expired_total",
		Help: "Food listings moved from Available to Expired.",
	}, []string{"trigger"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "expiry_sweeps_total",
		Help: "Expiry sweep executions by outcome.",
	}, []string{"trigger", "outcome"})
	reg.MustRegister(expired, runs)
	return &ExpiryMetrics{expired: expired, runs: runs}
}

// ObserveSweep records one sweep. rows is ignored when err is non-nil.
func (m *ExpiryMetrics) ObserveSweep(trigger string, rows int64, err error) {
	if m == nil || m.runs == nil {
		return
	}
	trigger = normalizeLabel(trigger)
	if err != nil {
		m.runs.WithLabelValues(trigger, "failure").Inc()
		return
	}
	m.runs.WithLabelValues(trigger, "success").Inc()
	if rows > 0 {
		m.expired.WithLabelValues(trigger).Add(float64(rows))
	}
}
