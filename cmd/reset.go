package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantumsignals/internal/catalog"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset journey progress",
	Long: "Without flags, resets every module to first-run state. --module resets the points\n" +
		"of one module, --best-scores resets best scores only.",
	RunE: func(cmd *cobra.Command, args []string) error {
		module, _ := cmd.Flags().GetString("module")
		bestScores, _ := cmd.Flags().GetBool("best-scores")

		d, err := openDeps(cmd.Context())
		if err != nil {
			return fmt.Errorf("open dependencies: %w", err)
		}
		defer d.Close()

		ctx := cmd.Context()
		switch {
		case module != "":
			id := catalog.ModuleID(module)
			if !d.catalog.Contains(id) {
				return unknownModule(d.catalog, module)
			}
			d.engine.ResetModule(ctx, id)
			fmt.Printf("Reset module %s.\n", id)
		case bestScores:
			d.engine.ResetBestScores(ctx)
			fmt.Println("Reset best scores.")
		default:
			d.engine.ResetAll(ctx)
			fmt.Println("Reset all progress.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().String("module", "", "Reset only this module")
	resetCmd.Flags().Bool("best-scores", false, "Reset best scores only")
}

func unknownModule(cat *catalog.Catalog, module string) error {
	ids := cat.IDs()
	known := make([]string, len(ids))
	for i, id := range ids {
		known[i] = string(id)
	}
	return fmt.Errorf("unknown module %q (known: %s)", module, strings.Join(known, ", "))
}
