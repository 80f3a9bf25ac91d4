package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	Queries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ceacwatch_query_total", Help: "CEAC status query outcomes"},
		[]string{"result"},
	)
	QueryLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "ceacwatch_query_latency_seconds", Help: "CEAC status query latency"},
	)
	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ceacwatch_decision_total", Help: "Notification decisions by reason"},
		[]string{"send", "reason"},
	)
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ceacwatch_notify_total", Help: "Notification channel send outcomes"},
		[]string{"channel", "result"},
	)
	HistoryAppends = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ceacwatch_history_append_total", Help: "History append results"},
		[]string{"result"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(Queries, QueryLatency, Decisions, Notifications, HistoryAppends)
}
