package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type trackRequest struct {
	Type      string `json:"type"`
	VisitorID string `json:"visitorId,omitempty"`
}

// StatsHandler serves /api/stats over a Tracker.
type StatsHandler struct {
	tracker Tracker
}

// NewStatsHandler creates a handler over t.
func NewStatsHandler(t Tracker) *StatsHandler {
	return &StatsHandler{tracker: t}
}

// RegisterRoutes mounts the handler on mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/stats", h)
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		stats, err := h.tracker.Stats(r.Context())
		if err != nil {
			logrus.WithError(err).Error("read stats")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	case http.MethodPost:
		var req trackRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
			return
		}
		// Unknown types still register the visitor.
		e := Event{Kind: Kind(req.Type), VisitorID: req.VisitorID, At: time.Now().UTC()}
		if err := h.tracker.Track(r.Context(), e); err != nil {
			logrus.WithError(err).Error("track event")
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Debug("write response")
	}
}

// HTTPRecorder posts events to a remote /api/stats in the background.
type HTTPRecorder struct {
	url        string
	visitorID  string
	httpClient *http.Client
	wg         sync.WaitGroup
}

// NewHTTPRecorder creates a recorder for the API rooted at baseURL.
func NewHTTPRecorder(baseURL, visitorID string) *HTTPRecorder {
	return &HTTPRecorder{
		url:        strings.TrimRight(baseURL, "/") + "/api/stats",
		visitorID:  visitorID,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *HTTPRecorder) RecordEvent(ctx context.Context, kind Kind) {
	body, err := json.Marshal(trackRequest{Type: string(kind), VisitorID: h.visitorID})
	if err != nil {
		logTrackError(err)
		return
	}

	// Detach from the caller's cancellation; the post outlives the call.
	ctx = context.WithoutCancel(ctx)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.post(ctx, body); err != nil {
			logTrackError(err)
		}
	}()
}

func (h *HTTPRecorder) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("track event: status %d", resp.StatusCode)
	}
	return nil
}

// Stats fetches the remote totals.
func (h *HTTPRecorder) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return stats, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return stats, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return stats, fmt.Errorf("fetch stats: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return stats, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

// Wait blocks until in-flight posts finish.
func (h *HTTPRecorder) Wait() {
	h.wg.Wait()
}

func logTrackError(err error) {
	logrus.WithError(err).Warn("Failed to track event")
}
