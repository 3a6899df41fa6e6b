// Package server hosts the signal log and stats API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/signallog"
	"github.com/abhisek/quantumsignals/internal/telemetry"
)

// Routes is implemented by handlers that mount themselves on a mux.
type Routes interface {
	RegisterRoutes(mux *http.ServeMux)
}

// APIServer serves /api/signals and /api/stats.
type APIServer struct {
	server *http.Server
}

// NewAPIServer builds the API over a signal store and a usage tracker.
// Tracked events are also counted on rec.
func NewAPIServer(addr string, signals signallog.Store, tracker telemetry.Tracker, rec telemetry.Recorder, opts ...signallog.HandlerOption) *APIServer {
	if rec == nil {
		rec = telemetry.Nop{}
	}
	return &APIServer{
		server: &http.Server{
			Addr: addr,
			Handler: NewMux(
				signallog.NewHandler(signals, opts...),
				telemetry.NewStatsHandler(countingTracker{Tracker: tracker, rec: rec}),
			),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewMux mounts every route set behind the CORS middleware.
func NewMux(routes ...Routes) http.Handler {
	mux := http.NewServeMux()
	for _, r := range routes {
		r.RegisterRoutes(mux)
	}
	return cors(mux)
}

// Handler returns the root handler.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Serve accepts connections on l until Shutdown is called.
func (s *APIServer) Serve(l net.Listener) error {
	logrus.Infof("api server listening on %s", l.Addr())
	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address.
func (s *APIServer) ListenAndServe() error {
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Shutdown gracefully stops the server.
func (s *APIServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down api server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("api server stopped")
	return nil
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

// countingTracker mirrors every tracked kind onto a Recorder.
type countingTracker struct {
	telemetry.Tracker
	rec telemetry.Recorder
}

func (c countingTracker) Track(ctx context.Context, e telemetry.Event) error {
	if err := c.Tracker.Track(ctx, e); err != nil {
		return err
	}
	if _, ok := telemetry.ParseKind(string(e.Kind)); ok {
		c.rec.RecordEvent(ctx, e.Kind)
	}
	return nil
}
