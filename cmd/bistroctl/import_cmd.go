package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bistro/internal/services"
)

func newImportCmd(e *env) *cobra.Command {
	var failOnErrors bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import products from a CSV file and print the summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}
			name := filepath.Base(path)
			if err := services.CheckUpload(name, "text/csv", info.Size(), e.cfg.Import.MaxBytes); err != nil {
				return err
			}
			buf, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}

			summary, err := e.importExportService().Import(cmd.Context(), name, buf)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return err
			}
			if failOnErrors && summary.Failed > 0 {
				return fmt.Errorf("%d of %d rows failed", summary.Failed, summary.TotalRows)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failOnErrors, "strict", false, "Exit non-zero when any row fails")
	return cmd
}
