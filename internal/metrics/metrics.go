// Package metrics exposes the server's prometheus instrumentation: one
// place the admin HTTP surface and the connection/dispatch loops both
// reach into.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every collector the server registers.
type Metrics struct {
	OpsTotal        *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
	ConnectionsOpen prometheus.Gauge
	BGSaveDuration  prometheus.Histogram
}

// New constructs and registers the collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memds",
			Name:      "ops_total",
			Help:      "Count of operations dispatched, by op_type.",
		}, []string{"op_type"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memds",
			Name:      "op_errors_total",
			Help:      "Count of operation failures, by error code.",
		}, []string{"err_code"}),
		ConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "memds",
			Name:      "connections_open",
			Help:      "Number of currently open client connections.",
		}),
		BGSaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "memds",
			Name:      "bgsave_duration_seconds",
			Help:      "Wall-clock duration of the bgsave child process, from spawn to exit.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.OpsTotal, m.ErrorsTotal, m.ConnectionsOpen, m.BGSaveDuration)
	return m
}

// ObserveResult records the outcome of one dispatched operation.
func (m *Metrics) ObserveResult(opType string, errCode int32) {
	m.OpsTotal.WithLabelValues(opType).Inc()
	if errCode != 0 {
		m.ErrorsTotal.WithLabelValues(errCodeLabel(errCode)).Inc()
	}
}

func errCodeLabel(code int32) string {
	switch code {
	case -400:
		return "-400"
	case -404:
		return "-404"
	case -412:
		return "-412"
	case -500:
		return "-500"
	default:
		return "other"
	}
}
