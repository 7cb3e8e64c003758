package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns a timeseries panel showing the API request rate.
func RequestRate() *timeseries.PanelBuilder {
	return Timeseries("Request Rate", "API requests per second, probes excluded").
		Span(ThirdWidth).
		WithTarget(PromQuery(`stk:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly())
}

// LatencyPercentiles returns a timeseries panel showing p50 and p99 API
// latencies.
func LatencyPercentiles() *timeseries.PanelBuilder {
	return Timeseries("Latency Percentiles", "API request duration percentiles").
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(stk_http_request_duration_seconds_bucket{`+Job+`}[5m])) by (le))`,
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.99, sum(rate(stk_http_request_duration_seconds_bucket{`+Job+`}[5m])) by (le))`,
			"p99",
			"B",
		)).
		Unit("s").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly())
}

// ErrorRate returns a timeseries panel showing the API 5xx rate as a
// percentage.
func ErrorRate() *timeseries.PanelBuilder {
	return Timeseries("Error Rate %", "API 5xx responses as percentage of total requests").
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`stk:http_errors:rate5m / stk:http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
