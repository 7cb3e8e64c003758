package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CookiesCreated returns a timeseries panel of basket cookies created.
func CookiesCreated() *timeseries.PanelBuilder {
	return Timeseries("Basket Cookies / h", "Basket sessions created per store").
		Span(TSWidth).
		WithTarget(PromQuery(`sum by (store) (rate(stk_basket_cookies_created_total{`+Job+`}[15m])) * 3600`, "{{store}}", "A")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly())
}

// BasketFailures returns a timeseries panel of failed basket mutations.
func BasketFailures() *timeseries.PanelBuilder {
	return Timeseries("Basket Failures / h", "Add-to-basket mutations that returned no cookie").
		Span(TSWidth).
		WithTarget(PromQuery(`sum by (store) (rate(stk_basket_failures_total{`+Job+`}[15m])) * 3600`, "{{store}}", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds())
}
