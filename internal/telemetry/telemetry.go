// Package telemetry records anonymous usage events: per-process Prometheus
// counters, a shared stats service, and distributed tracing setup.
package telemetry

import (
	"context"
	"time"
)

// Kind tags a usage event.
type Kind string

const (
	KindSignal      Kind = "signal"
	KindObservation Kind = "observation"
	KindInteraction Kind = "interaction"
)

// Kinds lists every known event kind.
var Kinds = []Kind{KindSignal, KindObservation, KindInteraction}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Event is one recorded occurrence.
type Event struct {
	Kind      Kind
	VisitorID string
	At        time.Time
}

// Recorder is the event collaborator. Recording is fire-and-forget:
// implementations never report failure to the caller.
type Recorder interface {
	RecordEvent(ctx context.Context, kind Kind)
}

// Nop discards events.
type Nop struct{}

func (Nop) RecordEvent(context.Context, Kind) {}

// Multi fans an event out to several recorders.
type Multi []Recorder

func (m Multi) RecordEvent(ctx context.Context, kind Kind) {
	for _, r := range m {
		if r != nil {
			r.RecordEvent(ctx, kind)
		}
	}
}
