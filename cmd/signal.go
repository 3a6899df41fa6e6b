package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/signallog"
)

var signalCmd = &cobra.Command{
	Use:   "signal [interaction...]",
	Short: "Generate the signal for a list of tile interactions",
	Example: "  qsignals signal 3 17 42 --reproducible\n" +
		"  qsignals signal 5 8 --publish",
	RunE: func(cmd *cobra.Command, args []string) error {
		interactions := make([]int, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("invalid interaction %q: %w", a, err)
			}
			interactions = append(interactions, n)
		}

		mode := cfg.Mode()
		if reproducible, _ := cmd.Flags().GetBool("reproducible"); reproducible {
			mode = signal.SeedReproducible
		}
		size, _ := cmd.Flags().GetInt("size")
		if size <= 0 {
			size = cfg.GridSize
		}

		gen := signal.NewGenerator(signal.WithGridSize(size), signal.WithSeedMode(mode))
		s := gen.Observe(interactions)

		fmt.Println(s.Hash)
		fmt.Printf("seed: %s  mode: %s  cells: %d/%d\n", s.Seed, mode, s.Pattern.Ones(), len(s.Pattern))
		fmt.Println(renderPattern(s.Pattern))

		if publish, _ := cmd.Flags().GetBool("publish"); publish {
			d, err := openDeps(cmd.Context())
			if err != nil {
				return fmt.Errorf("open dependencies: %w", err)
			}
			defer d.Close()
			if !signallog.NewGallery(d.signals).Publish(cmd.Context(), s) {
				return fmt.Errorf("signal %s was not stored", s.Hash)
			}
			fmt.Println("Published to the gallery.")
		}
		return nil
	},
}

func init() {
	signalCmd.Flags().Bool("reproducible", false, "Leave the timestamp out of the seed")
	signalCmd.Flags().Int("size", 0, "Grid side length (default QSIGNALS_GRID_SIZE)")
	signalCmd.Flags().Bool("publish", false, "Store the signal in the signal log")
}

// renderPattern draws two pattern rows per text line with half blocks.
func renderPattern(p signal.Pattern) string {
	rows := p.Rows()
	var b strings.Builder
	for r := 0; r < len(rows); r += 2 {
		for c := range rows[r] {
			top := rows[r][c] == 1
			bottom := r+1 < len(rows) && rows[r+1][c] == 1
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if r+2 < len(rows) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
