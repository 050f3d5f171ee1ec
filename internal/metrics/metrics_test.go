package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, PassesTotal)
	assert.NotNil(t, PassErrorsTotal)
	assert.NotNil(t, PassDuration)
	assert.NotNil(t, FetchDuration)
	assert.NotNil(t, ListingsFetchedTotal)
	assert.NotNil(t, UnseenListingsTotal)
	assert.NotNil(t, SeenSetSize)
	assert.NotNil(t, SeenSetResetsTotal)
	assert.NotNil(t, MessagesSentTotal)
	assert.NotNil(t, NotificationFailuresTotal)
	assert.NotNil(t, NotificationDuration)
}

func TestMetricsNamespace(t *testing.T) {
	t.Parallel()

	// Touch the vectors so they show up in Gather.
	PassesTotal.WithLabelValues("test")
	PassErrorsTotal.WithLabelValues("test")
	MessagesSentTotal.WithLabelValues("test")
	HTTPRequestsTotal.WithLabelValues("GET", "/test", "200")
	HTTPRequestDuration.WithLabelValues("GET", "/test", "200")

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var ours []string
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "ln_") {
			ours = append(ours, mf.GetName())
		}
	}
	assert.Subset(t, ours, []string{
		"ln_passes_total",
		"ln_pass_errors_total",
		"ln_messages_sent_total",
		"ln_http_requests_total",
		"ln_seen_set_size",
		"ln_healthz_up",
	})
}
