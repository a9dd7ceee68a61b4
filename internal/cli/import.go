package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modybick/pos/internal/catalog"
)

func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Bulk-replace the product catalog from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open csv: %w", err)
			}
			defer f.Close()

			products, skipped, err := catalog.ParseProductsCSV(f)
			if err != nil {
				return err
			}

			app, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			imported, err := app.Catalog.BulkReplace(cmd.Context(), products)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d products, skipped %d rows\n", imported, skipped)
			return nil
		},
	}
}
