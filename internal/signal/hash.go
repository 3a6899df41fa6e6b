package signal

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// HashPrefix tags every signal identifier.
const HashPrefix = "Signal-#"

const hashSpace = 0xFFFFFF

// GenerateHash renders the signal identifier for seed as HashPrefix followed
// by six uppercase hex digits. An empty seed falls back to wall-clock time
// and a random draw, so only that path is non-deterministic.
func GenerateHash(seed string) string {
	if seed == "" {
		seed = strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + strconv.FormatFloat(rand.Float64(), 'f', -1, 64)
	}
	return formatHash(DeriveSeed(seed))
}

func formatHash(v uint32) string {
	return fmt.Sprintf("%s%06X", HashPrefix, v%hashSpace)
}

// IsHash reports whether s has the shape of a signal identifier.
func IsHash(s string) bool {
	if len(s) != len(HashPrefix)+6 || s[:len(HashPrefix)] != HashPrefix {
		return false
	}
	for _, c := range s[len(HashPrefix):] {
		if !(c >= '0' && c <= '9') && !(c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
