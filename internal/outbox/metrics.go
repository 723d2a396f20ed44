package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the terminal-failure channel for the outbox: abandoned
// records are not silently dropped, they are counted and dead-lettered.
type Metrics struct {
	Processed prometheus.Counter
	Retried   prometheus.Counter
	Abandoned prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Processed: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_records_processed_total",
			Help: "Outbox records delivered and marked processed.",
		}),
		Retried: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_records_retried_total",
			Help: "Outbox delivery failures rescheduled with backoff.",
		}),
		Abandoned: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_records_abandoned_total",
			Help: "Outbox records abandoned after exhausting the retry budget.",
		}),
	}
}
