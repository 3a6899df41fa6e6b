package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus counts events in a CounterVec labelled by kind.
type Prometheus struct {
	events *prometheus.CounterVec
}

// NewPrometheus creates the counter and registers it with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qsignals",
			Name:      "events_total",
			Help:      "Total number of usage events by kind.",
		},
		[]string{"kind"},
	)
	if err := reg.Register(events); err != nil {
		return nil, err
	}
	for _, k := range Kinds {
		events.WithLabelValues(string(k))
	}
	return &Prometheus{events: events}, nil
}

func (p *Prometheus) RecordEvent(_ context.Context, kind Kind) {
	p.events.WithLabelValues(string(kind)).Inc()
}
