package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// listing-notifier operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "ln-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "ln-alerts",
					Rules: []Rule{
						{
							Alert: "LnDown",
							Expr:  `absent(up{job="listing-notifier"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Listing Notifier is down",
								"description": "The listing-notifier job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "LnReadinessDown",
							Expr:  `ln_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Listing Notifier cannot reach its seen-set store",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "LnNoPasses",
							Expr:  `ln:passes:rate5m == 0`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "No passes have run",
								"description": "No registration pass has started for 15 minutes. The scheduler may be disabled or stuck.",
							},
						},
						{
							Alert: "LnFetchErrors",
							Expr:  `ln:pass_errors:rate5m{stage="fetch"} > 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Feed fetches are failing",
								"description": "Passes have been failing to fetch a feed for more than 10 minutes.",
							},
						},
						{
							Alert: "LnStoreErrors",
							Expr:  `ln:pass_errors:rate5m{stage="store"} > 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Seen-set store errors",
								"description": "Passes have been failing to read or write the seen-set for more than 5 minutes.",
							},
						},
						{
							Alert: "LnHighErrorRate",
							Expr:  `ln:http_errors:rate5m / ln:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Listing Notifier",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "LnNotificationFailures",
							Expr:  `increase(ln_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more messages to recipients have failed to send. Listings from that pass will not be re-sent.",
							},
						},
					},
				},
			},
		},
	}
}
