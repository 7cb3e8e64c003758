package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CycleRate returns a timeseries panel of polling cycles per store and
// outcome.
func CycleRate() *timeseries.PanelBuilder {
	return Timeseries("Cycles / min", "Polling cycles by store and outcome").
		Span(ThirdWidth).
		WithTarget(PromQuery(`stk:cycles:rate5m * 60`, "{{store}} {{outcome}}", "A")).
		Legend(TableLegend("last")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly())
}

// CycleDuration returns a timeseries panel with the p95 cycle duration per
// store.
func CycleDuration() *timeseries.PanelBuilder {
	return Timeseries("Cycle Duration p95", "Time to page every query of a store").
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(stk_cycle_duration_seconds_bucket{`+Job+`}[15m])) by (le, store))`,
			"{{store}}", "A",
		)).
		Unit("s").
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(60, 240)).
		ColorScheme(ColorSchemeThresholds())
}

// QueryErrors returns a timeseries panel of failed listing queries.
func QueryErrors() *timeseries.PanelBuilder {
	return Timeseries("Query Errors", "Listing queries that failed and were skipped").
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum by (store, query) (stk:query_errors:rate5m)`, "{{store}}/{{query}}", "A")).
		Unit("reqps").
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds())
}
