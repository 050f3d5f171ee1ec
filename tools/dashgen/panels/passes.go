package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PassRate returns a timeseries panel showing passes per minute by trigger.
func PassRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Passes / min").
		Description("Registration passes started per minute, by trigger").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(rate(ln_passes_total{job=%q}[5m])) by (trigger) * 60`, Job),
			"{{trigger}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PassErrors returns a timeseries panel showing failed passes per minute
// by the stage that failed.
func PassErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Pass Errors / min").
		Description("Failed passes per minute by stage (fetch, store, notify)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(rate(ln_pass_errors_total{job=%q}[5m])) by (stage) * 60`, Job),
			"{{stage}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PassDuration returns a timeseries panel showing p95 pass and fetch
// durations.
func PassDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Pass Duration (p95)").
		Description("95th percentile duration of a whole pass and of a single feed fetch").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(P95("ln_pass_duration_seconds"), "pass", "A")).
		WithTarget(PromQuery(P95("ln_fetch_duration_seconds"), "fetch", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ListingsRate returns a timeseries panel comparing fetched and unseen
// listings per minute.
func ListingsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Listings / min").
		Description("Listings fetched from feeds and listings seen for the first time").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(rate(ln_listings_fetched_total{job=%q}[5m])) * 60`, Job),
			"fetched", "A",
		)).
		WithTarget(PromQuery(`ln:unseen_listings:rate5m * 60`, "new", "B")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SeenSetResets returns a stat panel showing seen-set resets in the past day.
func SeenSetResets() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Resets (24h)").
		Description("Seen-set resets in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`increase(ln_seen_set_resets_total{job=%q}[24h])`, Job),
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
