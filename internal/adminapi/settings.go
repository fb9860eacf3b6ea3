package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/internal/webserver"
)

// registerSettingsRoutes registers system settings endpoints
func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", saveSettings)
}

func listSettings(c echo.Context) error {
	db := GetDB(c).Model(&domain.SysConfig{})
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("type = ?", category)
	}

	var rows []domain.SysConfig
	if err := db.Order("type ASC, sort ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

// saveSettings accepts a flat {"category.name": value} map and persists
// every entry. Settings consumers see changes within the cache TTL.
func saveSettings(c echo.Context) error {
	var values map[string]interface{}
	if err := c.Bind(&values); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	if len(values) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No settings provided", nil)
	}

	if err := GetApp(c).SaveSettings(values); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}
	return ok(c, map[string]interface{}{"saved": len(values)})
}
