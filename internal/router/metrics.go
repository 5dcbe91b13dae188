package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messagesRouted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "messages_routed_total",
		Help: "Messages routed by platform and whether translation was needed",
	},
	[]string{"platform", "translated"},
)

func recordRouted(platform string, translated bool) {
	label := "false"
	if translated {
		label = "true"
	}
	messagesRouted.WithLabelValues(platform, label).Inc()
}
