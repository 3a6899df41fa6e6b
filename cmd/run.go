package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/quantumsignals/internal/app"
	"github.com/abhisek/quantumsignals/internal/logging"
	"github.com/abhisek/quantumsignals/internal/observe"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/signallog"
)

// runApp builds dependencies and launches the TUI. Logs go to
// QSIGNALS_LOG_FILE so they never draw over the screen.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	out, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer out.Close()
	logrus.SetOutput(out)

	d, err := openDeps(ctx)
	if err != nil {
		return fmt.Errorf("open dependencies: %w", err)
	}
	defer d.Close()
	d.enableTracing(ctx)

	gallery := signallog.NewGallery(d.signals)
	skipIntro, _ := cmd.Flags().GetBool("skip-intro")

	return app.Run(app.Options{
		Engine:    d.engine,
		Timer:     progress.NewPointTimer(d.engine, cfg.PointInterval),
		Session:   observe.NewSession(d.generator(), gallery, d.recorder),
		Gallery:   gallery,
		Stats:     d.stats,
		SkipIntro: skipIntro,
	})
}
