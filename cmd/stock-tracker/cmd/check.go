package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/stock-tracker/internal/engine"
	"github.com/donaldgifford/stock-tracker/internal/output"
)

func checkCmd() *cobra.Command {
	var (
		storeID string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one polling cycle in-process and exit",
		Long: "check runs a single cycle against the configured storefronts without\n" +
			"starting the API, then persists cooldowns. Use stkctl check to trigger a\n" +
			"cycle on a running daemon instead.",
		Example: `  stock-tracker check
  stock-tracker check --store de --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				reports  []engine.CycleReport
				cycleErr error
			)
			if storeID != "" {
				var r engine.CycleReport
				r, cycleErr = a.engine.RunStore(ctx, storeID)
				reports = []engine.CycleReport{r}
			} else {
				reports, cycleErr = a.engine.RunCycle(ctx)
			}

			if err := a.engine.PersistAll(ctx); err != nil {
				log.Warn("persisting cooldowns", "error", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				err = output.JSON(out, reports)
			} else {
				err = output.Reports(out, reports)
			}
			if err != nil {
				return err
			}
			if cycleErr != nil {
				return fmt.Errorf("cycle: %w", cycleErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "", "run only this storefront id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	return cmd
}
