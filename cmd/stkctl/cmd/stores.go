package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/stock-tracker/internal/output"
)

func storesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List configured storefronts and their cooldown counts",
		Example: `  stkctl stores
  stkctl stores --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := newClient().ListStores(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return output.JSON(cmd.OutOrStdout(), stores)
			}
			if len(stores) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stores configured.")
				return nil
			}
			return output.Stores(cmd.OutOrStdout(), stores)
		},
	}
}
