package signal

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Pattern is a square grid of bits stored row-major.
type Pattern []int

// PatternBits lazily yields the size*size bits derived from seed in index
// order. Each call starts a fresh generator, so iterating twice yields the
// same sequence.
func PatternBits(seed string, size int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if size <= 0 {
			return
		}
		rng := NewRandom(int64(DeriveSeed(seed)))
		for i := 0; i < size*size; i++ {
			bit := 0
			if rng.Next() > 0.5 {
				bit = 1
			}
			if !yield(bit) {
				return
			}
		}
	}
}

// GeneratePattern returns the full pattern for seed. A non-positive size
// yields an empty pattern.
func GeneratePattern(seed string, size int) Pattern {
	p := slices.Collect(PatternBits(seed, size))
	if p == nil {
		return Pattern{}
	}
	return p
}

// Size returns the side length of the grid, or 0 if the pattern is not square.
func (p Pattern) Size() int {
	for n := 0; n*n <= len(p); n++ {
		if n*n == len(p) {
			return n
		}
	}
	return 0
}

// Ones counts the set cells.
func (p Pattern) Ones() int {
	n := 0
	for _, b := range p {
		n += b
	}
	return n
}

// Rows splits the pattern into grid rows.
func (p Pattern) Rows() [][]int {
	size := p.Size()
	if size == 0 {
		return nil
	}
	rows := make([][]int, 0, size)
	for r := 0; r < size; r++ {
		rows = append(rows, p[r*size:(r+1)*size])
	}
	return rows
}

// String renders the pattern as a compact run of 0 and 1 characters.
func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, bit := range p {
		if bit == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParsePattern is the inverse of Pattern.String.
func ParsePattern(s string) (Pattern, error) {
	p := make(Pattern, 0, len(s))
	for i, c := range s {
		switch c {
		case '0':
			p = append(p, 0)
		case '1':
			p = append(p, 1)
		default:
			return nil, fmt.Errorf("invalid pattern cell %q at %d", c, i)
		}
	}
	return p, nil
}
