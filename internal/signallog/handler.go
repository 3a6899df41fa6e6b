package signallog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/abhisek/quantumsignals/internal/signal"
)

// Handler serves /api/signals over a Store.
type Handler struct {
	store     Store
	limiter   *rate.Limiter
	retention int
	tracer    trace.Tracer
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRateLimit limits POSTs to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) HandlerOption {
	return func(h *Handler) {
		if rps <= 0 {
			h.limiter = nil
			return
		}
		h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetention caps the page size GET may request.
func WithRetention(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.retention = n
		}
	}
}

// NewHandler creates a Handler over store.
func NewHandler(store Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		store:     store,
		retention: DefaultRetention,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the handler on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/signals", h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "signallog.Handler "+r.Method, trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	r = r.WithContext(ctx)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.append(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > h.retention {
		limit = h.retention
	}

	entries, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		logrus.WithError(err).Error("list signals")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}
	total, err := h.store.Count(r.Context())
	if err != nil {
		logrus.WithError(err).Error("count signals")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int("signal.count", len(entries)))
	writeJSON(w, http.StatusOK, listResponse{Signals: entries, Total: total})
}

func (h *Handler) append(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "Too many requests"})
		return
	}

	var req appendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}

	if req.Hash != "" && !signal.IsHash(req.Hash) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid hash"})
		return
	}

	e, err := h.store.Append(r.Context(), Entry{Hash: req.Hash, Pattern: req.Pattern, Timestamp: req.Timestamp})
	if errors.Is(err, ErrMissingField) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing hash or pattern"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("append signal")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("signal.hash", e.Hash))
	writeJSON(w, http.StatusCreated, appendResponse{Success: true, ID: e.ID})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Debug("write response")
	}
}
