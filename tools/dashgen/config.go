package main

import "errors"

// KnownMetrics is the set of metric names exported by stock-tracker plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"stk_http_request_duration_seconds": true,
	"stk_http_requests_total":           true,

	// Health metrics.
	"stk_healthz_up": true,
	"stk_readyz_up":  true,

	// Cycle metrics.
	"stk_cycles_total":           true,
	"stk_cycle_duration_seconds": true,
	"stk_query_errors_total":     true,

	// Evaluation metrics.
	"stk_items_evaluated_total":          true,
	"stk_stock_notifications_total":      true,
	"stk_suppressed_notifications_total": true,
	"stk_cooldown_resets_total":          true,
	"stk_price_changes_total":            true,
	"stk_cooldowns_active":               true,
	"stk_persistence_errors_total":       true,

	// Basket metrics.
	"stk_basket_cookies_created_total": true,
	"stk_basket_failures_total":        true,

	// Storefront metrics.
	"stk_storefront_requests_total":           true,
	"stk_storefront_request_duration_seconds": true,
	"stk_rate_limit_hits_total":               true,

	// Notification metrics.
	"stk_notifications_total":           true,
	"stk_notification_failures_total":   true,
	"stk_notification_duration_seconds": true,

	// Recording rules.
	"stk:http_requests:rate5m":       true,
	"stk:http_errors:rate5m":         true,
	"stk:cycles:rate5m":              true,
	"stk:query_errors:rate5m":        true,
	"stk:storefront_requests:rate5m": true,
	"stk:stock_notifications:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
