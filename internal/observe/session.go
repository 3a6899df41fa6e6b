// Package observe implements the collapse workflow: tiles are touched while
// the grid is in superposition, then a single observation turns the
// recorded interactions into a signal.
package observe

import (
	"context"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/signallog"
	"github.com/abhisek/quantumsignals/internal/telemetry"
)

// Session records one observation attempt.
type Session struct {
	gen      *signal.Generator
	gallery  *signallog.Gallery
	recorder telemetry.Recorder

	mu           sync.Mutex
	interactions []int
	result       *signal.Signal
	published    bool
}

// NewSession creates an open session. gallery and recorder may be nil.
func NewSession(gen *signal.Generator, gallery *signallog.Gallery, recorder telemetry.Recorder) *Session {
	if gallery == nil {
		gallery = signallog.NewGallery(nil)
	}
	if recorder == nil {
		recorder = telemetry.Nop{}
	}
	return &Session{gen: gen, gallery: gallery, recorder: recorder}
}

// Size returns the grid side length.
func (s *Session) Size() int { return s.gen.GridSize() }

// SetViewport feeds the terminal size into the seed entropy.
func (s *Session) SetViewport(width, height int) { s.gen.SetViewport(width, height) }

// Cells returns the number of tiles in the grid.
func (s *Session) Cells() int {
	n := s.gen.GridSize()
	return n * n
}

// Touch records an interaction with tile. It reports false once the grid
// has collapsed or when tile is outside the grid.
func (s *Session) Touch(ctx context.Context, tile int) bool {
	if tile < 0 || tile >= s.Cells() {
		return false
	}

	s.mu.Lock()
	if s.result != nil {
		s.mu.Unlock()
		return false
	}
	s.interactions = append(s.interactions, tile)
	s.mu.Unlock()

	s.recorder.RecordEvent(ctx, telemetry.KindInteraction)
	return true
}

// Interactions returns the recorded tiles in order.
func (s *Session) Interactions() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.interactions)
}

// Observe collapses the grid. The first call generates the signal and
// publishes it; later calls return the same signal and false.
func (s *Session) Observe(ctx context.Context) (signal.Signal, bool) {
	s.mu.Lock()
	if s.result != nil {
		sig := *s.result
		s.mu.Unlock()
		return sig, false
	}
	sig := s.gen.Observe(s.interactions)
	s.result = &sig
	n := len(s.interactions)
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"hash":         sig.Hash,
		"interactions": n,
		"mode":         s.gen.Mode(),
	}).Info("Grid collapsed")

	s.recorder.RecordEvent(ctx, telemetry.KindObservation)
	published := s.gallery.Publish(ctx, sig)
	if published {
		s.recorder.RecordEvent(ctx, telemetry.KindSignal)
	}

	s.mu.Lock()
	s.published = published
	s.mu.Unlock()
	return sig, true
}

// Result returns the observed signal, if the grid has collapsed.
func (s *Session) Result() (signal.Signal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return signal.Signal{}, false
	}
	return *s.result, true
}

// Collapsed reports whether Observe has been called since the last reset.
func (s *Session) Collapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result != nil
}

// Published reports whether the observed signal reached the gallery.
func (s *Session) Published() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

// Reset reopens the grid and forgets all interactions.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = nil
	s.result = nil
	s.published = false
}
