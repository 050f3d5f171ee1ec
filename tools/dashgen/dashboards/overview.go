// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/listing-notifier/tools/dashgen/panels"
)

// OverviewUID is the stable dashboard UID.
const OverviewUID = "ln-overview"

// BuildOverview constructs the Listing Notifier overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Listing Notifier Overview").
		Uid(OverviewUID).
		Tags([]string{"ln", "listing-notifier"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.SeenSetSizeStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Passes").
		WithPanel(panels.PassRate()).
		WithPanel(panels.PassErrors()).
		WithPanel(panels.PassDuration()))

	b.WithRow(dashboard.NewRowBuilder("Listings").
		WithPanel(panels.ListingsRate()).
		WithPanel(panels.SeenSetResets()))

	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.MessagesRate()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyP95()).
		WithPanel(panels.ErrorRate()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
