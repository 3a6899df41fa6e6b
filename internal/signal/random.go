package signal

// LCG parameters. These must never change: every signal issued so far was
// drawn from this exact sequence.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Random is a linear-congruential generator that yields the same sequence of
// values for the same seed on every platform.
type Random struct {
	state int64
}

// NewRandom creates a generator from any integer seed. The seed is reduced
// modulo the generator's modulus and made non-negative before use.
func NewRandom(seed int64) *Random {
	s := seed % lcgModulus
	if s < 0 {
		s = -s
	}
	return &Random{state: s}
}

// Next returns the next value in [0, 1).
func (r *Random) Next() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / lcgModulus
}

// NextInt returns an integer in [min, max]. Swapped bounds are tolerated.
func (r *Random) NextInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return int(r.Next()*float64(max-min+1)) + min
}

