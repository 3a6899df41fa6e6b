package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quantumsignals/internal/config"
	"github.com/abhisek/quantumsignals/internal/logging"
	"github.com/abhisek/quantumsignals/internal/store"
)

// cfg is loaded before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "qsignals",
	Short: "An interactive journey through quantum mechanics",
	Long: "Quantum Signals walks you through superposition, entanglement and measurement,\n" +
		"one unlockable module at a time, and ends with a signal only you could have observed.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides QSIGNALS_DB env var)")
	pf.String("catalog", "", "Path to a module catalog TOML file (overrides QSIGNALS_CATALOG)")
	pf.String("storage", "", "Progress storage backend: sqlite, redis or memory")
	pf.String("log-level", "", "Log level (overrides QSIGNALS_LOG_LEVEL)")

	rootCmd.Flags().Bool("skip-intro", false, "Open the journey map without the intro")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(signalCmd)
	rootCmd.AddCommand(galleryCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, applies flag overrides and configures
// logging.
func loadConfig(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		c.DBPath = v
	}
	if v, _ := flags.GetString("catalog"); v != "" {
		c.CatalogPath = v
	}
	if v, _ := flags.GetString("storage"); v != "" {
		c.Storage = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		c.LogLevel = v
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Setup(c.LogLevel, c.LogFormat, os.Stderr); err != nil {
		return err
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db / QSIGNALS_DB, then the
// default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
