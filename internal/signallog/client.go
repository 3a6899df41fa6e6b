package signallog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/abhisek/quantumsignals/internal/signallog"

// Client talks to a remote signal log over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	tracer     trace.Tracer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n uint64) ClientOption {
	return func(cl *Client) { cl.maxRetries = n }
}

// NewClient creates a client for the API rooted at baseURL,
// e.g. "http://localhost:3000".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type appendRequest struct {
	Hash      string `json:"hash"`
	Pattern   []int  `json:"pattern"`
	Timestamp int64  `json:"timestamp"`
}

type appendResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error,omitempty"`
}

type listResponse struct {
	Signals []Entry `json:"signals"`
	Total   int     `json:"total"`
}

// Append posts e to the remote log.
func (c *Client) Append(ctx context.Context, e Entry) (Entry, error) {
	e, err := e.Normalize()
	if err != nil {
		return e, err
	}
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}

	ctx, span := c.tracer.Start(ctx, "signallog.Append", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("signal.hash", e.Hash))

	body, err := json.Marshal(appendRequest{Hash: e.Hash, Pattern: e.Pattern, Timestamp: e.Timestamp})
	if err != nil {
		return e, fmt.Errorf("marshal signal: %w", err)
	}

	var resp appendResponse
	err = c.do(ctx, http.MethodPost, c.baseURL+"/api/signals", body, http.StatusCreated, &resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return e, err
	}
	if !resp.Success {
		return e, fmt.Errorf("signal log rejected signal: %s", resp.Error)
	}
	e.ID = resp.ID
	return e, nil
}

// ListRecent fetches up to limit recent entries.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	ctx, span := c.tracer.Start(ctx, "signallog.ListRecent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	u := c.baseURL + "/api/signals"
	if limit > 0 {
		u += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, u, nil, http.StatusOK, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("signal.count", len(resp.Signals)))
	return resp.Signals, nil
}

// do performs the request, retrying transport errors and 5xx responses
// with exponential backoff.
func (c *Client) do(ctx context.Context, method, u string, body []byte, want int, out any) error {
	op := func() error {
		var r io.Reader
		if body != nil {
			r = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, r)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, u, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%s %s: status %d", method, u, resp.StatusCode)
		}
		if resp.StatusCode != want {
			return backoff.Permanent(fmt.Errorf("%s %s: status %d", method, u, resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), c.maxRetries), ctx)
	return backoff.Retry(op, b)
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
