package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// StockNotifications returns a timeseries panel of stock alerts sent.
func StockNotifications() *timeseries.PanelBuilder {
	return Timeseries("Stock Notifications / h", "Availability alerts by store and buyability").
		Span(ThirdWidth).
		WithTarget(PromQuery(`stk:stock_notifications:rate5m * 3600`, "{{store}} buyable={{buyable}}", "A")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly())
}

// Suppressed returns a timeseries panel of alerts held back by a cooldown.
func Suppressed() *timeseries.PanelBuilder {
	return Timeseries("Suppressed / h", "Available products skipped because a cooldown is active").
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum by (store) (rate(stk_suppressed_notifications_total{`+Job+`}[5m])) * 3600`, "{{store}}", "A")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly())
}

// NotificationFailures returns a timeseries panel of failed deliveries per
// channel.
func NotificationFailures() *timeseries.PanelBuilder {
	return Timeseries("Notification Failures", "Failed deliveries by channel and kind").
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum by (notifier, kind) (increase(stk_notification_failures_total{`+Job+`}[5m]))`, "{{notifier}} {{kind}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
