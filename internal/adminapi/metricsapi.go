package adminapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nexretail/nexpos/internal/app"
	"github.com/nexretail/nexpos/internal/webserver"
	"github.com/nexretail/nexpos/pkg/metrics"
)

// registerMetricsRoutes registers label activity metrics endpoints
func registerMetricsRoutes() {
	webserver.ApiGET("/metrics/labels", labelMetrics)
}

// labelMetrics summarizes print activity over a trailing window. The
// window defaults to 24 hours, capped at 30 days.
func labelMetrics(c echo.Context) error {
	hours := 24
	if h, err := time.ParseDuration(c.QueryParam("window")); err == nil && h > 0 && h <= 30*24*time.Hour {
		hours = int(h.Hours())
	}

	end := time.Now()
	start := end.Add(-time.Duration(hours) * time.Hour)

	return ok(c, map[string]interface{}{
		"window_hours":   hours,
		"labels_printed": metrics.SumRange(app.MetricsLabelsPrinted, start, end),
		"jobs_succeeded": metrics.SumRange(app.MetricsPrintJobsOk, start, end),
		"jobs_failed":    metrics.SumRange(app.MetricsPrintJobsFailed, start, end),
		"labels_skipped": metrics.SumRange(app.MetricsLabelsSkipped, start, end),
	})
}
