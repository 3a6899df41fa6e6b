package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Export or import journey progress",
}

var progressExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write progress as JSON to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd.Context())
		if err != nil {
			return fmt.Errorf("open dependencies: %w", err)
		}
		defer d.Close()

		data, err := d.engine.Export()
		if err != nil {
			return err
		}
		if len(args) == 0 || args[0] == "-" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
		fmt.Printf("Exported progress to %s.\n", args[0])
		return nil
	},
}

var progressImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace progress with a previously exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		d, err := openDeps(cmd.Context())
		if err != nil {
			return fmt.Errorf("open dependencies: %w", err)
		}
		defer d.Close()

		if err := d.engine.Import(cmd.Context(), data); err != nil {
			return err
		}
		fmt.Printf("Imported progress: %d points.\n", d.engine.TotalPoints())
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressExportCmd)
	progressCmd.AddCommand(progressImportCmd)
}
