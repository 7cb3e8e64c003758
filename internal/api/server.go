// Package api assembles the operator HTTP server: probes, metrics and the
// huma-documented /api/v1 routes.
package api

import (
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/stock-tracker/internal/api/handlers"
	"github.com/donaldgifford/stock-tracker/internal/api/middleware"
)

// Engine is what the API needs from the polling engine.
type Engine interface {
	handlers.CycleRunner
	handlers.CooldownSource
}

// Options configures NewServer.
type Options struct {
	Store        handlers.Pinger
	Engine       Engine
	Logger       *slog.Logger
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer returns an echo instance with every route registered.
func NewServer(opts Options) *echo.Echo {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout

	e.Use(
		middleware.RequestLog(log),
		middleware.Metrics(),
		middleware.Recovery(log),
	)

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(opts.Store))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cfg := huma.DefaultConfig("stock-tracker", opts.Version)
	cfg.Info.Description = "Operator API for the stock-tracker daemon."
	humaAPI := humaecho.New(e, cfg)

	handlers.RegisterCheckRoutes(humaAPI, handlers.NewCheckHandler(opts.Engine))
	handlers.RegisterCooldownRoutes(humaAPI, handlers.NewCooldownsHandler(opts.Engine))

	return e
}
