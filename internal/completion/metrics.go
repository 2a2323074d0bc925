package completion

import "github.com/prometheus/client_golang/prometheus"

var (
	completionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "completions_total",
			Help:      "Completion calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	promptTokens = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Name:      "prompt_tokens",
			Help:      "Estimated prompt size in tokens",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		},
		[]string{"model"},
	)
)

func init() {
	prometheus.MustRegister(completionsTotal, promptTokens)
}
