// Package signallog is the append-only log of observed signals shared
// between users, with an HTTP server, an HTTP client and a gallery view.
package signallog

import (
	"context"
	"errors"

	"github.com/abhisek/quantumsignals/internal/signal"
)

const (
	// DefaultRetention is how many signals a log keeps.
	DefaultRetention = 100
	// DefaultListLimit is the page size when a caller gives none.
	DefaultListLimit = 20
	// MaxPatternCells caps the stored pattern length.
	MaxPatternCells = 1024
)

// ErrMissingField is returned when an entry lacks a hash or pattern.
var ErrMissingField = errors.New("missing hash or pattern")

// Entry is one stored signal. Timestamp is Unix milliseconds.
type Entry struct {
	ID        string         `json:"id"`
	Hash      string         `json:"hash"`
	Pattern   signal.Pattern `json:"pattern"`
	Timestamp int64          `json:"timestamp"`
}

// FromSignal converts a generated signal into a log entry.
func FromSignal(s signal.Signal) Entry {
	return Entry{
		Hash:      s.Hash,
		Pattern:   s.Pattern,
		Timestamp: s.Timestamp.UnixMilli(),
	}
}

// Normalize checks required fields and truncates oversized patterns.
func (e Entry) Normalize() (Entry, error) {
	if e.Hash == "" || len(e.Pattern) == 0 {
		return e, ErrMissingField
	}
	if len(e.Pattern) > MaxPatternCells {
		e.Pattern = e.Pattern[:MaxPatternCells]
	}
	return e, nil
}

// Log is the signal log collaborator.
type Log interface {
	// Append stores e and returns it with its assigned ID.
	Append(ctx context.Context, e Entry) (Entry, error)
	// ListRecent returns up to limit entries, most recent first.
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Store is a Log that can also report how many entries it holds.
type Store interface {
	Log
	Count(ctx context.Context) (int, error)
}
