package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/internal/webserver"
	"github.com/nexretail/nexpos/pkg/common"
	"gorm.io/gorm"
)

type unitPayload struct {
	ProductID    int64    `json:"product_id,string" validate:"required"`
	SerialNumber string   `json:"serial_number" validate:"required,min=1,max=128"`
	Price        *float64 `json:"price" validate:"omitempty,min=0"`
	MinPrice     *float64 `json:"min_price" validate:"omitempty,min=0"`
	MaxPrice     *float64 `json:"max_price" validate:"omitempty,min=0"`
	Color        string   `json:"color" validate:"omitempty,max=64"`
	Storage      *int     `json:"storage" validate:"omitempty,min=0"`
	Ram          *int     `json:"ram" validate:"omitempty,min=0"`
	BatteryLevel *int     `json:"battery_level" validate:"omitempty,min=0,max=100"`
	Barcode      string   `json:"barcode" validate:"omitempty,max=64"`
	Status       string   `json:"status" validate:"omitempty,oneof=available sold damaged"`
	Remark       string   `json:"remark" validate:"omitempty,max=500"`
}

// registerUnitRoutes registers serialized unit CRUD endpoints
func registerUnitRoutes() {
	webserver.ApiGET("/catalog/units", listUnits)
	webserver.ApiGET("/catalog/units/:id", getUnit)
	webserver.ApiPOST("/catalog/units", createUnit)
	webserver.ApiPUT("/catalog/units/:id", updateUnit)
	webserver.ApiDELETE("/catalog/units/:id", deleteUnit)
}

func listUnits(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.ProductUnit{})
	if pid, err := strconv.ParseInt(c.QueryParam("product_id"), 10, 64); err == nil && pid > 0 {
		db = db.Where("product_id = ?", pid)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("serial_number ILIKE ? OR barcode ILIKE ?", "%"+q+"%", "%"+q+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query units", err.Error())
	}

	order := sortColumn(c, map[string]string{
		"id":            "id",
		"serial_number": "serial_number",
		"status":        "status",
		"created_at":    "created_at",
	})

	var rows []domain.ProductUnit
	if err := db.Order(order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query units", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getUnit(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid unit ID", nil)
	}
	var unit domain.ProductUnit
	if err := GetDB(c).Where("id = ?", id).First(&unit).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unit not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query unit", err.Error())
	}
	return ok(c, unit)
}

func createUnit(c echo.Context) error {
	var payload unitPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse unit", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	// The parent product must exist before a unit hangs off it.
	var parent domain.Product
	if err := GetDB(c).Where("id = ?", payload.ProductID).First(&parent).Error; err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Parent product not found", nil)
	}

	status := payload.Status
	if status == "" {
		status = domain.UnitStatusAvailable
	}

	now := time.Now()
	unit := domain.ProductUnit{
		ID:           common.UUIDint64(),
		ProductID:    payload.ProductID,
		SerialNumber: strings.TrimSpace(payload.SerialNumber),
		Price:        payload.Price,
		MinPrice:     payload.MinPrice,
		MaxPrice:     payload.MaxPrice,
		Color:        strings.TrimSpace(payload.Color),
		Storage:      payload.Storage,
		Ram:          payload.Ram,
		BatteryLevel: payload.BatteryLevel,
		Barcode:      strings.TrimSpace(payload.Barcode),
		Status:       status,
		Remark:       payload.Remark,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := GetDB(c).Create(&unit).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create unit", err.Error())
	}
	return ok(c, unit)
}

func updateUnit(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid unit ID", nil)
	}
	var unit domain.ProductUnit
	if err := GetDB(c).Where("id = ?", id).First(&unit).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unit not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query unit", err.Error())
	}

	var payload unitPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse unit", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	// An assigned barcode is never cleared or regenerated through update.
	barcode := strings.TrimSpace(payload.Barcode)
	if unit.Barcode != "" && barcode == "" {
		barcode = unit.Barcode
	}

	unit.SerialNumber = strings.TrimSpace(payload.SerialNumber)
	unit.Price = payload.Price
	unit.MinPrice = payload.MinPrice
	unit.MaxPrice = payload.MaxPrice
	unit.Color = strings.TrimSpace(payload.Color)
	unit.Storage = payload.Storage
	unit.Ram = payload.Ram
	unit.BatteryLevel = payload.BatteryLevel
	unit.Barcode = barcode
	if payload.Status != "" {
		unit.Status = payload.Status
	}
	unit.Remark = payload.Remark
	unit.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&unit).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update unit", err.Error())
	}
	return ok(c, unit)
}

func deleteUnit(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid unit ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.ProductUnit{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete unit", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
