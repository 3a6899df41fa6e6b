package signal

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// SeedMode controls whether wall-clock time is folded into interaction seeds.
type SeedMode int

const (
	// SeedTimestamped mixes the observation time into the seed, so identical
	// interaction sequences observed at different times give different signals.
	SeedTimestamped SeedMode = iota
	// SeedReproducible leaves time out: the same interactions in the same
	// environment always give the same signal.
	SeedReproducible
)

// String returns the config spelling of the mode.
func (m SeedMode) String() string {
	if m == SeedReproducible {
		return "reproducible"
	}
	return "timestamped"
}

// ParseSeedMode parses "timestamped" or "reproducible".
func ParseSeedMode(s string) (SeedMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "timestamped":
		return SeedTimestamped, nil
	case "reproducible":
		return SeedReproducible, nil
	default:
		return SeedTimestamped, fmt.Errorf("unknown seed mode %q", s)
	}
}

// Environment carries the client-side entropy folded into a seed.
type Environment struct {
	Client         string
	ViewportWidth  int
	ViewportHeight int
}

// DefaultEnvironment describes the running binary with an 80x24 viewport.
func DefaultEnvironment() Environment {
	return Environment{
		Client:         fmt.Sprintf("qsignals (%s; %s)", runtime.GOOS, runtime.GOARCH),
		ViewportWidth:  80,
		ViewportHeight: 24,
	}
}

// CreateInteractionSeed joins the timestamp (timestamped mode only), the
// environment entropy and every interaction value with underscores.
func CreateInteractionSeed(at time.Time, env Environment, mode SeedMode, interactions []int) string {
	parts := make([]string, 0, len(interactions)+4)
	if mode == SeedTimestamped {
		parts = append(parts, strconv.FormatInt(at.UnixMilli(), 10))
	}
	parts = append(parts,
		strconv.Itoa(len(env.Client)),
		strconv.Itoa(env.ViewportWidth),
		strconv.Itoa(env.ViewportHeight),
	)
	for _, v := range interactions {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, "_")
}
