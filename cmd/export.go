package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brk3/habittracker/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all habits as JSON, CSV or PDF",
		Long: `The "export" command writes every habit to stdout, or to --output. When
--output is a directory the file is named habit-tracker-export-YYYY-MM-DD.<format>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			st, closeFn, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := st.Export(f)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if info, err := os.Stat(output); err == nil && info.IsDir() {
				output = filepath.Join(output, export.Filename(f, st.Today()))
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "exported to", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.JSON), "json, csv or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file or directory to write to (default stdout)")
	return cmd
}
