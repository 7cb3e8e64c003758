package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const migrateTimeout = 60 * time.Second

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the price and cookie tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			st, err := openStore(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			log.Info("running migrations", "driver", cfg.Database.Driver)
			if err := st.Migrate(ctx); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}
			log.Info("migrations complete")
			return nil
		},
	}
}
