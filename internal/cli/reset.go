package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewResetCommand(opts *RootOptions) *cobra.Command {
	var products bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the sale ledger (and optionally the catalog)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Ledger.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sale ledger cleared")

			if products {
				if err := app.Repo.ResetProducts(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "product catalog cleared")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&products, "products", false, "also clear the product catalog")

	return cmd
}
