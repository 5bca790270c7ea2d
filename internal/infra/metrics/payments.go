package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutsTotal,
		statusChecksTotal,
		callbacksTotal,
		paidViaCallbackTotal,
	)
}

var (
	checkoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_checkouts_total",
			Help: "QR checkout creations by outcome (created/failed).",
		},
		[]string{"outcome"},
	)

	statusChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_status_checks_total",
			Help: "Status polls by resolved status (paid/pending/error).",
		},
		[]string{"status"},
	)

	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_callbacks_total",
			Help: "Gateway callback notifications by outcome (recorded/ignored).",
		},
		[]string{"outcome"},
	)

	paidViaCallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "qr_paid_via_callback_total",
			Help: "Payments resolved as paid through the callback id mapping.",
		},
	)
)

func IncCheckout(outcome string) {
	checkoutsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncStatusCheck(status string) {
	statusChecksTotal.WithLabelValues(norm(status)).Inc()
}

func IncCallback(outcome string) {
	callbacksTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncPaidViaCallback() {
	paidViaCallbackTotal.Inc()
}
