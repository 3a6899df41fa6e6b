package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantumsignals/internal/screens/gallery"
	"github.com/abhisek/quantumsignals/internal/signallog"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List recently observed signals",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd.Context())
		if err != nil {
			return fmt.Errorf("open dependencies: %w", err)
		}
		defer d.Close()

		entries := signallog.NewGallery(d.signals).Recent(cmd.Context(), limit)
		if len(entries) == 0 {
			fmt.Println("No signals observed yet.")
			return nil
		}

		fmt.Printf("%-6s  %-14s  %-8s  %s\n", "ID", "Hash", "Age", "Cells")
		fmt.Println(strings.Repeat("─", 44))
		now := time.Now()
		for _, e := range entries {
			fmt.Printf("%-6s  %-14s  %-8s  %d/%d\n",
				e.ID,
				e.Hash,
				gallery.TimeAgo(now, e.Timestamp),
				e.Pattern.Ones(),
				len(e.Pattern),
			)
		}
		return nil
	},
}

func init() {
	galleryCmd.Flags().Int("limit", signallog.DefaultListLimit, "Number of signals to list")
}
