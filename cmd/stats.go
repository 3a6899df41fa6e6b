package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/abhisek/quantumsignals/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journey progress and global usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd.Context())
		if err != nil {
			return fmt.Errorf("open dependencies: %w", err)
		}
		defer d.Close()

		sum := d.engine.Summary()
		fmt.Printf("Points: %d   Completed: %d/%d   Unlocked: %d\n",
			sum.TotalPoints, sum.CompletedModules, sum.TotalModules, sum.UnlockedModules)
		if sum.CompletedJourney {
			fmt.Println("Journey complete.")
		}
		fmt.Println()

		for _, m := range d.catalog.Modules() {
			st, _ := d.engine.ModuleState(m.ID)
			renderModuleBar(m.Title, st)
		}

		if global, err := d.stats.Stats(cmd.Context()); err == nil {
			fmt.Printf("\nSignals: %d   Observations: %d   Interactions: %d   Visitors: %d\n",
				global.TotalSignals, global.TotalObservations, global.TotalInteractions, global.UniqueVisitors)
		}
		return nil
	},
}

func renderModuleBar(title string, st progress.ModuleState) {
	total := max(st.RequiredPoints, 1)
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionSetDescription(fmt.Sprintf("%-22s %-9s", title, st.Status())),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
	)
	_ = bar.Set(min(st.Points, total))
	fmt.Println()
}
