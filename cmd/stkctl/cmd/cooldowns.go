package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/stock-tracker/internal/api/client"
	"github.com/donaldgifford/stock-tracker/internal/output"
)

func cooldownsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cooldowns",
		Short: "Inspect and clear storefront cooldowns",
		Long: "Cooldowns suppress repeat notifications for a product. The stock domain\n" +
			"covers availability alerts, the basket domain covers cookie creation.",
	}

	root.AddCommand(cooldownsListCmd(), cooldownsClearCmd())
	return root
}

func cooldownsListCmd() *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "list <store>",
		Short: "List active cooldowns of a store",
		Example: `  stkctl cooldowns list de
  stkctl cooldowns list de --domain basket`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := newClient().ListCooldowns(cmd.Context(), args[0], domain)
			if apiclient.IsStatus(err, http.StatusNotFound) {
				return fmt.Errorf("unknown store %s", args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return output.JSON(out, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(out, "No active cooldowns.")
				return nil
			}
			return output.Cooldowns(out, views)
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "stock", "cooldown domain (stock, basket)")
	return cmd
}

func cooldownsClearCmd() *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "clear <store> <product-id>",
		Short: "Remove one cooldown so the product notifies again",
		Example: `  stkctl cooldowns clear de 2794047
  stkctl cooldowns clear de 2794047 --domain basket`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := newClient().ClearCooldown(cmd.Context(), args[0], args[1], domain)
			if apiclient.IsStatus(err, http.StatusNotFound) {
				return fmt.Errorf("no %s cooldown for %s in store %s", domain, args[1], args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s cooldown for %s.\n", domain, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "stock", "cooldown domain (stock, basket)")
	return cmd
}
