package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// VisitorKey is where the anonymous visitor id is persisted.
const VisitorKey = "quantum_visitor_id"

// KV is the persistence the visitor id is kept in.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// VisitorID returns the persisted visitor id, creating one on first use.
func VisitorID(ctx context.Context, kv KV) (string, error) {
	id, ok, err := kv.Get(ctx, VisitorKey)
	if err != nil {
		return "", fmt.Errorf("read visitor id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = NewVisitorID()
	if err := kv.Set(ctx, VisitorKey, id); err != nil {
		return "", fmt.Errorf("store visitor id: %w", err)
	}
	return id, nil
}

// NewVisitorID returns a fresh anonymous id of the form v_<hex>.
func NewVisitorID() string {
	return "v_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
