package gallery

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/ui/theme"
)

// Sample reduces p to previewSide² cells by nearest-index sampling.
func Sample(p signal.Pattern) []int {
	n := previewSide * previewSide
	out := make([]int, n)
	if len(p) == 0 {
		return out
	}
	for i := range out {
		out[i] = p[i*len(p)/n]
	}
	return out
}

// Preview renders the sampled pattern as a small block grid.
func Preview(p signal.Pattern) string {
	cells := Sample(p)
	rows := make([]string, 0, previewSide)
	for r := 0; r < previewSide; r++ {
		var b strings.Builder
		for c := 0; c < previewSide; c++ {
			if cells[r*previewSide+c] == 1 {
				b.WriteString(theme.CellOn.Render("██"))
			} else {
				b.WriteString(theme.CellOff.Render("░░"))
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

// TimeAgo formats the age of a millisecond timestamp as s, m, h or d.
func TimeAgo(now time.Time, ms int64) string {
	seconds := max((now.UnixMilli()-ms)/1000, 0)
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh", seconds/3600)
	default:
		return fmt.Sprintf("%dd", seconds/86400)
	}
}
