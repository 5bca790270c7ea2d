package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(gatewayLatencyMs, mappingEntries)
}

var (
	gatewayLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qr_gateway_latency_ms",
			Help:    "Outbound gateway call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"call", "success"},
	)

	mappingEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "qr_mapping_entries",
			Help: "Current number of live operation->callback mappings (memory backend).",
		},
	)
)

func ObserveGatewayCall(call string, start time.Time, err error) {
	success := "true"
	if err != nil {
		success = "false"
	}
	gatewayLatencyMs.WithLabelValues(norm(call), success).
		Observe(float64(time.Since(start).Milliseconds()))
}

func SetMappingEntries(n int) {
	mappingEntries.Set(float64(n))
}
