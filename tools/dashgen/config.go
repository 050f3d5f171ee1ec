package main

import "errors"

// KnownMetrics is the set of metric names exported by listing-notifier
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"ln_http_request_duration_seconds": true,
	"ln_http_requests_total":           true,

	// Health metrics.
	"ln_healthz_up": true,
	"ln_readyz_up":  true,

	// Pass metrics.
	"ln_passes_total":           true,
	"ln_pass_errors_total":      true,
	"ln_pass_duration_seconds":  true,
	"ln_fetch_duration_seconds": true,

	// Listing metrics.
	"ln_listings_fetched_total": true,
	"ln_unseen_listings_total":  true,
	"ln_seen_set_size":          true,
	"ln_seen_set_resets_total":  true,

	// Notification metrics.
	"ln_messages_sent_total":           true,
	"ln_notification_failures_total":   true,
	"ln_notification_duration_seconds": true,

	// Recording rules.
	"ln:http_requests:rate5m":         true,
	"ln:http_errors:rate5m":           true,
	"ln:passes:rate5m":                true,
	"ln:pass_errors:rate5m":           true,
	"ln:unseen_listings:rate5m":       true,
	"ln:notification_duration:p95_5m": true,

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
