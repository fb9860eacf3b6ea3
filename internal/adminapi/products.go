package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/internal/webserver"
	"github.com/nexretail/nexpos/pkg/common"
	"gorm.io/gorm"
)

type productPayload struct {
	Brand          string   `json:"brand" validate:"required,min=1,max=128"`
	Model          string   `json:"model" validate:"required,min=1,max=128"`
	Year           *int     `json:"year" validate:"omitempty,min=1990,max=2100"`
	Category       string   `json:"category" validate:"omitempty,max=64"`
	Price          float64  `json:"price" validate:"min=0"`
	MinPrice       *float64 `json:"min_price" validate:"omitempty,min=0"`
	MaxPrice       *float64 `json:"max_price" validate:"omitempty,min=0"`
	Stock          *int     `json:"stock" validate:"omitempty,min=0"`
	Barcode        string   `json:"barcode" validate:"omitempty,max=64"`
	DefaultStorage *int     `json:"default_storage" validate:"omitempty,min=0"`
	DefaultRam     *int     `json:"default_ram" validate:"omitempty,min=0"`
	Remark         string   `json:"remark" validate:"omitempty,max=500"`
}

// registerProductRoutes registers product catalog CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/catalog/products", listProducts)
	webserver.ApiGET("/catalog/products/:id", getProduct)
	webserver.ApiPOST("/catalog/products", createProduct)
	webserver.ApiPUT("/catalog/products/:id", updateProduct)
	webserver.ApiDELETE("/catalog/products/:id", deleteProduct)
	webserver.ApiPOST("/catalog/products/import", importProducts)
	webserver.ApiGET("/catalog/products/export", exportProducts)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("brand ILIKE ? OR model ILIKE ? OR barcode ILIKE ?",
			"%"+q+"%", "%"+q+"%", "%"+q+"%")
	}
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("category = ?", category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	// whitelist allowed sort columns to avoid SQL injection
	order := sortColumn(c, map[string]string{
		"id":         "id",
		"brand":      "brand",
		"model":      "model",
		"price":      "price",
		"created_at": "created_at",
		"updated_at": "updated_at",
	})

	var rows []domain.Product
	if err := db.Order(order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	now := time.Now()
	p := domain.Product{
		ID:             common.UUIDint64(),
		Brand:          strings.TrimSpace(payload.Brand),
		Model:          strings.TrimSpace(payload.Model),
		Year:           payload.Year,
		Category:       strings.TrimSpace(payload.Category),
		Price:          payload.Price,
		MinPrice:       payload.MinPrice,
		MaxPrice:       payload.MaxPrice,
		Stock:          payload.Stock,
		Barcode:        strings.TrimSpace(payload.Barcode),
		DefaultStorage: payload.DefaultStorage,
		DefaultRam:     payload.DefaultRam,
		Remark:         payload.Remark,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p.Brand = strings.TrimSpace(payload.Brand)
	p.Model = strings.TrimSpace(payload.Model)
	p.Year = payload.Year
	p.Category = strings.TrimSpace(payload.Category)
	p.Price = payload.Price
	p.MinPrice = payload.MinPrice
	p.MaxPrice = payload.MaxPrice
	p.Stock = payload.Stock
	p.Barcode = strings.TrimSpace(payload.Barcode)
	p.DefaultStorage = payload.DefaultStorage
	p.DefaultRam = payload.DefaultRam
	p.Remark = payload.Remark
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	db := GetDB(c)
	if err := db.Where("product_id = ?", id).Delete(&domain.ProductUnit{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product units", err.Error())
	}
	if err := db.Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
