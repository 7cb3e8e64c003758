package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "stk-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "stk-recording",
					Rules: []Rule{
						{
							Record: "stk:http_requests:rate5m",
							Expr:   `sum(rate(stk_http_requests_total[5m]))`,
						},
						{
							Record: "stk:http_errors:rate5m",
							Expr:   `sum(rate(stk_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "stk:cycles:rate5m",
							Expr:   `sum by (store, outcome) (rate(stk_cycles_total[5m]))`,
						},
						{
							Record: "stk:query_errors:rate5m",
							Expr:   `sum by (store, query) (rate(stk_query_errors_total[5m]))`,
						},
						{
							Record: "stk:storefront_requests:rate5m",
							Expr:   `sum by (operation, status) (rate(stk_storefront_requests_total[5m]))`,
						},
						{
							Record: "stk:stock_notifications:rate5m",
							Expr:   `sum by (store, buyable) (rate(stk_stock_notifications_total[5m]))`,
						},
					},
				},
			},
		},
	}
}
