package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// StorefrontRequests returns a timeseries panel of GraphQL calls by
// operation and status.
func StorefrontRequests() *timeseries.PanelBuilder {
	return Timeseries("Storefront Requests", "GraphQL calls per second by operation and status").
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum by (operation, status) (stk:storefront_requests:rate5m)`, "{{operation}} {{status}}", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly())
}

// StorefrontLatency returns a timeseries panel with the p95 GraphQL call
// latency.
func StorefrontLatency() *timeseries.PanelBuilder {
	return Timeseries("Storefront Latency p95", "GraphQL request duration including retries").
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(stk_storefront_request_duration_seconds_bucket{`+Job+`}[5m])) by (le))`,
			"p95", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly())
}

// RateLimitHits returns a stat panel of 429 answers in the last hour.
func RateLimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rate Limit Hits (1h)").
		Description("Times a storefront answered 429 in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`sum by (store) (increase(stk_rate_limit_hits_total{`+Job+`}[1h]))`, "{{store}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
