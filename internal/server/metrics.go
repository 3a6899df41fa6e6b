package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/telemetry"
)

// MetricsServer exposes Prometheus metrics.
type MetricsServer struct {
	server   *http.Server
	registry *prometheus.Registry
	events   *telemetry.Prometheus
}

// NewMetricsServer registers the Go runtime, process and event collectors
// on a fresh registry.
func NewMetricsServer(addr, endpoint string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	events, err := telemetry.NewPrometheus(registry)
	if err != nil {
		return nil, err
	}

	if endpoint == "" {
		endpoint = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		registry: registry,
		events:   events,
	}, nil
}

// Events returns the event counter recorder.
func (m *MetricsServer) Events() *telemetry.Prometheus {
	return m.events
}

// Registry returns the underlying registry.
func (m *MetricsServer) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the metrics handler.
func (m *MetricsServer) Handler() http.Handler {
	return m.server.Handler
}

// Start begins serving in the background. Listen errors are returned
// synchronously.
func (m *MetricsServer) Start() error {
	l, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return err
	}
	go func() {
		logrus.Infof("metrics server listening on %s", l.Addr())
		if err := m.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("metrics server failed")
		}
	}()
	return nil
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down metrics server...")
	if err := m.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("metrics server stopped")
	return nil
}
