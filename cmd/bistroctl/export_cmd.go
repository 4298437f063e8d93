package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bistro/internal/services"
)

type exportOptions struct {
	name     string
	category string
	minPrice string
	maxPrice string
	minStock string
	output   string
	dir      string
}

func newExportCmd(e *env) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export products matching the filters to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := services.TranslateFilters(map[string]string{
				"name":     opts.name,
				"category": opts.category,
				"minPrice": opts.minPrice,
				"maxPrice": opts.maxPrice,
				"minStock": opts.minStock,
			})
			if err != nil {
				return err
			}

			result, err := e.importExportService().Export(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if opts.output == "-" {
				_, err := cmd.OutOrStdout().Write(result.Content)
				return err
			}
			path := opts.output
			if path == "" {
				path = filepath.Join(opts.dir, result.Filename)
			}
			if err := os.WriteFile(path, result.Content, 0o644); err != nil {
				return fmt.Errorf("cannot write %s: %w", path, err)
			}
			e.log.Info().Str("file", path).Int("products", result.Count).Msg("export written")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Case-insensitive name substring")
	cmd.Flags().StringVar(&opts.category, "category", "", "Exact category")
	cmd.Flags().StringVar(&opts.minPrice, "min-price", "", "Minimum price, inclusive")
	cmd.Flags().StringVar(&opts.maxPrice, "max-price", "", "Maximum price, inclusive")
	cmd.Flags().StringVar(&opts.minStock, "min-stock", "", "Minimum stock, inclusive")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `Output file, "-" for stdout (default: generated name in --dir)`)
	cmd.Flags().StringVar(&opts.dir, "dir", ".", "Directory for the generated file name")
	return cmd
}
