package translate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var translationAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "translation_attempts_total",
		Help: "Translation attempts by provider and outcome",
	},
	[]string{"provider", "outcome"},
)

func recordAttempt(provider, outcome string) {
	translationAttempts.WithLabelValues(provider, outcome).Inc()
}
