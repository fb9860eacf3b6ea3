package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/internal/labeling"
	"github.com/nexretail/nexpos/internal/webserver"
)

type labelRequest struct {
	ProductIDs []int64               `json:"product_ids"`
	Options    labeling.LabelOptions `json:"options"`
}

// registerLabelRoutes registers the label preview and print endpoints
func registerLabelRoutes() {
	webserver.ApiPOST("/labels/preview", previewLabels)
	webserver.ApiPOST("/labels/print", printLabels)
	webserver.ApiGET("/labels/printlog", listPrintLog)
}

// bindLabelRequest decodes on top of the default options, so absent fields
// keep their defaults while explicit out-of-range values still reach the
// pipeline's validation and get rejected, never clamped.
func bindLabelRequest(c echo.Context) (*labelRequest, error) {
	req := &labelRequest{Options: labeling.DefaultLabelOptions()}
	if err := c.Bind(req); err != nil {
		return nil, err
	}
	return req, nil
}

func previewLabels(c echo.Context) error {
	req, err := bindLabelRequest(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse label request", err.Error())
	}

	labels, skipped, err := GetApp(c).LabelPipeline().Preview(c.Request().Context(), req.ProductIDs, req.Options)
	if err != nil {
		return labelError(c, err)
	}

	return ok(c, map[string]interface{}{
		"labels":  labels,
		"skipped": skipped,
	})
}

// printLabels runs the full print pipeline and returns the printable HTML
// document. The job result travels in response headers so the client can
// surface totals without parsing the document.
func printLabels(c echo.Context) error {
	req, err := bindLabelRequest(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse label request", err.Error())
	}

	operator := strings.TrimSpace(c.Request().Header.Get("X-Operator"))
	if operator == "" {
		operator = "admin"
	}

	doc, result, err := GetApp(c).LabelPipeline().Print(c.Request().Context(), req.ProductIDs, req.Options, operator)
	if err != nil {
		return labelError(c, err)
	}

	h := c.Response().Header()
	h.Set("X-Print-Job-Id", strconv.FormatInt(result.JobID, 10))
	h.Set("X-Print-Total-Labels", strconv.Itoa(result.TotalLabels))
	h.Set("X-Print-Skipped", strconv.Itoa(len(result.Skipped)))
	return c.HTMLBlob(http.StatusOK, doc.HTML)
}

func listPrintLog(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.PrintLog{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query print log", err.Error())
	}

	var rows []domain.PrintLog
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query print log", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

// labelError maps pipeline failure classes onto HTTP statuses.
func labelError(c echo.Context, err error) error {
	var verr *labeling.ValidationError
	if errors.As(err, &verr) {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), nil)
	}
	var herr *labeling.HostError
	if errors.As(err, &herr) {
		return fail(c, http.StatusServiceUnavailable, "HOST_ERROR", herr.Error(), herr.Hint)
	}
	return fail(c, http.StatusInternalServerError, "PRINT_ERROR", err.Error(), nil)
}
