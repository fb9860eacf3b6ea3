package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/nexretail/nexpos/internal/app"
	"github.com/nexretail/nexpos/internal/webserver"
	"gorm.io/gorm"
)

// InitRouter registers every admin API route group.
func InitRouter() {
	registerProductRoutes()
	registerUnitRoutes()
	registerLabelRoutes()
	registerSettingsRoutes()
	registerMetricsRoutes()
}

// GetApp returns the application context bound to the request.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":   code,
		"msg":    message,
		"detail": detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"msg":  "ok",
		"data": map[string]interface{}{
			"rows":      rows,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	} else if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// sortColumn resolves a requested sort field against a whitelist; unknown
// fields fall back to id to keep user input out of the ORDER BY clause.
func sortColumn(c echo.Context, allowed map[string]string) string {
	field := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	col, found := allowed[field]
	if !found || col == "" {
		col = "id"
	}
	return col + " " + order
}

func handleValidationError(c echo.Context, err error) error {
	if verrs, isValidation := err.(validator.ValidationErrors); isValidation {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fe.Field()+" failed on "+fe.Tag())
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", details)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request", err.Error())
}
