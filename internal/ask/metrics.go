package ask

import "github.com/prometheus/client_golang/prometheus"

var (
	extractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "extractions_total",
			Help:      "Document extractions by format and outcome",
		},
		[]string{"format", "outcome"},
	)

	asksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "asks_total",
			Help:      "Asks by terminal status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(extractionsTotal, asksTotal)
}
