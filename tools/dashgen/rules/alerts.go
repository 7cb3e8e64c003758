package rules

func alert(name, expr, forDuration, severity, summary, description string) Rule {
	return Rule{
		Alert:       name,
		Expr:        expr,
		For:         forDuration,
		Labels:      map[string]string{"severity": severity},
		Annotations: map[string]string{"summary": summary, "description": description},
	}
}

// AlertRules returns a PrometheusRule CR containing alert rules for
// stock-tracker operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "stk-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "stk-alerts",
					Rules: []Rule{
						alert("StkDown",
							`absent(up{job="stock-tracker"})`, "2m", "critical",
							"stock-tracker is down",
							"The stock-tracker job has been absent for more than 2 minutes."),
						alert("StkReadinessDown",
							`stk_readyz_up == 0`, "2m", "critical",
							"stock-tracker readiness check is failing",
							"The database has been unreachable for more than 2 minutes."),
						alert("StkNoSuccessfulCycles",
							`sum by (store) (increase(stk_cycles_total{outcome="ok"}[30m])) == 0`, "10m", "warning",
							"A store has not completed a cycle in 30 minutes",
							"Every recent cycle of the store aborted. Check the session cookie and rate limit."),
						alert("StkUnauthorized",
							`increase(stk_cycles_total{outcome="unauthorized"}[15m]) > 0`, "0m", "critical",
							"Storefront session was rejected",
							"A store answered 401 or 403. The configured session cookie has probably expired."),
						alert("StkRateLimited",
							`sum by (store) (increase(stk_rate_limit_hits_total[15m])) > 3`, "5m", "warning",
							"Storefront is rate limiting the tracker",
							"More than 3 rate limit answers in 15 minutes. Lower the request rate or widen the check interval."),
						alert("StkNotificationFailures",
							`increase(stk_notification_failures_total[5m]) > 0`, "1m", "warning",
							"Notification delivery failures detected",
							"One or more notification channels failed to deliver an alert."),
						alert("StkPersistenceErrors",
							`increase(stk_persistence_errors_total[10m]) > 0`, "5m", "warning",
							"Cooldown or price persistence is failing",
							"Writes to the database or cooldown persister are failing. Cooldowns may not survive a restart."),
					},
				},
			},
		},
	}
}
