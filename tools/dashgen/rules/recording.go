package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "ln-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "ln-recording",
					Rules: []Rule{
						{
							Record: "ln:http_requests:rate5m",
							Expr:   `sum(rate(ln_http_requests_total[5m]))`,
						},
						{
							Record: "ln:http_errors:rate5m",
							Expr:   `sum(rate(ln_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "ln:passes:rate5m",
							Expr:   `sum(rate(ln_passes_total[5m]))`,
						},
						{
							Record: "ln:pass_errors:rate5m",
							Expr:   `sum(rate(ln_pass_errors_total[5m])) by (stage)`,
						},
						{
							Record: "ln:unseen_listings:rate5m",
							Expr:   `sum(rate(ln_unseen_listings_total[5m]))`,
						},
						{
							Record: "ln:notification_duration:p95_5m",
							Expr:   `histogram_quantile(0.95, sum(rate(ln_notification_duration_seconds_bucket[5m])) by (le))`,
						},
					},
				},
			},
		},
	}
}
