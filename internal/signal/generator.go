package signal

import (
	"slices"
	"sync"
	"time"
)

// DefaultGridSize is the side length of the observation grid.
const DefaultGridSize = 32

// Signal is the immutable result of one observation.
type Signal struct {
	Hash      string
	Pattern   Pattern
	Seed      string
	Timestamp time.Time
}

// Generator turns interaction sequences into signals.
// It is safe for concurrent use; the viewport may change between
// observations.
type Generator struct {
	gridSize int
	mode     SeedMode
	now      func() time.Time

	mu  sync.Mutex
	env Environment
}

// Option configures a Generator.
type Option func(*Generator)

// WithGridSize sets the pattern side length.
func WithGridSize(size int) Option {
	return func(g *Generator) {
		if size > 0 {
			g.gridSize = size
		}
	}
}

// WithSeedMode selects timestamped or reproducible seeds.
func WithSeedMode(mode SeedMode) Option {
	return func(g *Generator) { g.mode = mode }
}

// WithEnvironment overrides the environment entropy.
func WithEnvironment(env Environment) Option {
	return func(g *Generator) { g.env = env }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator with a 32x32 grid, timestamped seeds and
// the default environment unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		gridSize: DefaultGridSize,
		mode:     SeedTimestamped,
		env:      DefaultEnvironment(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GridSize returns the configured side length.
func (g *Generator) GridSize() int { return g.gridSize }

// Mode returns the configured seed mode.
func (g *Generator) Mode() SeedMode { return g.mode }

// SetViewport updates the viewport entropy after a terminal resize.
// Non-positive sizes are ignored.
func (g *Generator) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.env.ViewportWidth = width
	g.env.ViewportHeight = height
}

// Environment returns the entropy the next observation will use.
func (g *Generator) Environment() Environment {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.env
}

// Observe builds the seed for interactions and derives its pattern and hash
// from that same seed. The interactions slice is copied, never retained.
func (g *Generator) Observe(interactions []int) Signal {
	at := g.now()
	seed := CreateInteractionSeed(at, g.Environment(), g.mode, slices.Clone(interactions))
	return Signal{
		Hash:      GenerateHash(seed),
		Pattern:   GeneratePattern(seed, g.gridSize),
		Seed:      seed,
		Timestamp: at,
	}
}
