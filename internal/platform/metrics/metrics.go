package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rondas_http_requests_total",
		Help: "Total de requisicoes por entidade e resultado",
	}, []string{"entity", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rondas_http_request_duration_seconds",
		Help:    "Tempo de atendimento de cada requisicao",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})

	roundsFinishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rondas_finished_total",
		Help: "Total de rondas finalizadas",
	})
)

func ObserveRequest(entity, status string) {
	requestsTotal.WithLabelValues(entity, status).Inc()
}

func ObserveRequestDuration(entity string, seconds float64) {
	requestDuration.WithLabelValues(entity).Observe(seconds)
}

func IncRoundFinished() {
	roundsFinishedTotal.Inc()
}
