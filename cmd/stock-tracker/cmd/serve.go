package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/stock-tracker/internal/api"
	"github.com/donaldgifford/stock-tracker/internal/engine"
	"github.com/donaldgifford/stock-tracker/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scheduler and the operator API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), runNow)
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", true, "run one cycle immediately instead of waiting for the first tick")
	return cmd
}

func runServe(ctx context.Context, runNow bool) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("closing resources", "error", err)
		}
	}()

	sched, err := engine.NewScheduler(a.engine,
		cfg.Schedule.CheckInterval,
		cfg.Schedule.PersistInterval,
		logger.ForComponent(log, "scheduler"),
	)
	if err != nil {
		return err
	}

	e := api.NewServer(api.Options{
		Store:        a.store,
		Engine:       a.engine,
		Logger:       logger.ForComponent(log, "api"),
		Version:      Version,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	addr := cfg.Server.Addr()
	log.Info("starting server", "addr", addr, "stores", a.engine.Stores())

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sched.Start()
	if runNow {
		sched.RunNow()
	}

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := e.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down server: %w", err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("stopping scheduler: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Info("stopped")
	return nil
}
