// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/stock-tracker/tools/dashgen/panels"
)

// BuildOverview constructs the stock-tracker overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Stock Tracker Overview").
		Uid("stk-overview").
		Tags([]string{"stk", "stock-tracker"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.ActiveCooldowns()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Cycles").
		WithPanel(panels.CycleRate()).
		WithPanel(panels.CycleDuration()).
		WithPanel(panels.QueryErrors()))

	b.WithRow(dashboard.NewRowBuilder("Storefront").
		WithPanel(panels.StorefrontRequests()).
		WithPanel(panels.StorefrontLatency()).
		WithPanel(panels.RateLimitHits()))

	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.StockNotifications()).
		WithPanel(panels.Suppressed()).
		WithPanel(panels.NotificationFailures()))

	b.WithRow(dashboard.NewRowBuilder("Basket").
		WithPanel(panels.CookiesCreated()).
		WithPanel(panels.BasketFailures()))

	b.WithRow(dashboard.NewRowBuilder("API").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
