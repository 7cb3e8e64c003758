package cmd

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/stock-tracker/internal/api/client"
	"github.com/donaldgifford/stock-tracker/internal/output"
)

func checkCmd() *cobra.Command {
	var storeID string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Trigger a polling cycle on the daemon",
		Long: "check asks the daemon to run one cycle now and prints the per-store\n" +
			"report. Stores that are already mid-cycle are reported as busy.",
		Example: `  stkctl check
  stkctl check --store de
  stkctl check --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := newClient().Check(cmd.Context(), storeID)
			switch {
			case apiclient.IsStatus(err, http.StatusNotFound):
				return errors.New("unknown store " + storeID)
			case apiclient.IsStatus(err, http.StatusConflict):
				return errors.New("a cycle is already running, try again shortly")
			case err != nil:
				return err
			}

			if jsonOutput() {
				return output.JSON(cmd.OutOrStdout(), reports)
			}
			return output.Reports(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "", "run only this storefront id")
	return cmd
}
