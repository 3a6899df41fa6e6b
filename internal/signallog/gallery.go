package signallog

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/signal"
)

// Gallery is the read/write view the journey uses. The log is secondary,
// so failures are logged and degrade to empty results.
type Gallery struct {
	log Log
}

// NewGallery wraps log. A nil log behaves as an always-empty gallery.
func NewGallery(log Log) *Gallery {
	return &Gallery{log: log}
}

// Publish appends s and reports whether it was stored.
func (g *Gallery) Publish(ctx context.Context, s signal.Signal) bool {
	if g.log == nil {
		return false
	}
	e, err := g.log.Append(ctx, FromSignal(s))
	if err != nil {
		logrus.WithError(err).WithField("hash", s.Hash).Warn("Failed to store signal")
		return false
	}
	logrus.WithFields(logrus.Fields{"hash": e.Hash, "id": e.ID}).Debug("Signal stored")
	return true
}

// Recent returns up to limit entries, or none if the log is unavailable.
func (g *Gallery) Recent(ctx context.Context, limit int) []Entry {
	if g.log == nil {
		return []Entry{}
	}
	entries, err := g.log.ListRecent(ctx, limit)
	if err != nil {
		logrus.WithError(err).Warn("Failed to fetch signals")
		return []Entry{}
	}
	if entries == nil {
		return []Entry{}
	}
	return entries
}
