package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/pkg/common"
	"go.uber.org/zap"
)

// productCsvRow is the CSV exchange format for catalog import. Optional
// numeric columns stay empty rather than zero.
type productCsvRow struct {
	Brand          string   `csv:"brand"`
	Model          string   `csv:"model"`
	Year           *int     `csv:"year"`
	Category       string   `csv:"category"`
	Price          float64  `csv:"price"`
	MinPrice       *float64 `csv:"min_price"`
	MaxPrice       *float64 `csv:"max_price"`
	Stock          *int     `csv:"stock"`
	Barcode        string   `csv:"barcode"`
	DefaultStorage *int     `csv:"default_storage"`
	DefaultRam     *int     `csv:"default_ram"`
	Remark         string   `csv:"remark"`
}

// importProducts ingests a CSV catalog file. Rows missing brand or model
// are skipped and reported; the rest are created in one pass.
func importProducts(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing upload file", err.Error())
	}
	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload file", err.Error())
	}
	defer src.Close()

	var rows []*productCsvRow
	if err := gocsv.Unmarshal(src, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse CSV file", err.Error())
	}

	now := time.Now()
	var created int
	var skipped []string
	for i, row := range rows {
		brand := strings.TrimSpace(row.Brand)
		model := strings.TrimSpace(row.Model)
		if brand == "" || model == "" {
			skipped = append(skipped, fmt.Sprintf("row %d: missing brand or model", i+2))
			continue
		}
		p := domain.Product{
			ID:             common.UUIDint64(),
			Brand:          brand,
			Model:          model,
			Year:           row.Year,
			Category:       strings.TrimSpace(row.Category),
			Price:          row.Price,
			MinPrice:       row.MinPrice,
			MaxPrice:       row.MaxPrice,
			Stock:          row.Stock,
			Barcode:        strings.TrimSpace(row.Barcode),
			DefaultStorage: row.DefaultStorage,
			DefaultRam:     row.DefaultRam,
			Remark:         row.Remark,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := GetDB(c).Create(&p).Error; err != nil {
			skipped = append(skipped, fmt.Sprintf("row %d: %s", i+2, err.Error()))
			continue
		}
		created++
	}

	zap.L().Info("product import finished",
		zap.Int("created", created),
		zap.Int("skipped", len(skipped)))

	return ok(c, map[string]interface{}{
		"created": created,
		"skipped": skipped,
	})
}

// exportProducts streams the full catalog as an XLSX workbook.
func exportProducts(c echo.Context) error {
	var products []domain.Product
	if err := GetDB(c).Order("id ASC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	const sheet = "Sheet1"
	f := excelize.NewFile()

	headers := []string{"ID", "Brand", "Model", "Year", "Category", "Price",
		"Min Price", "Max Price", "Stock", "Barcode", "Storage", "Ram", "Remark"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s1", excelize.ToAlphaString(i)), h)
	}

	for n, p := range products {
		row := n + 2
		cell := func(col int, value interface{}) {
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row), value)
		}
		cell(0, p.ID)
		cell(1, p.Brand)
		cell(2, p.Model)
		if p.Year != nil {
			cell(3, *p.Year)
		}
		cell(4, p.Category)
		cell(5, p.Price)
		if p.MinPrice != nil {
			cell(6, *p.MinPrice)
		}
		if p.MaxPrice != nil {
			cell(7, *p.MaxPrice)
		}
		if p.Stock != nil {
			cell(8, *p.Stock)
		}
		cell(9, p.Barcode)
		if p.DefaultStorage != nil {
			cell(10, *p.DefaultStorage)
		}
		if p.DefaultRam != nil {
			cell(11, *p.DefaultRam)
		}
		cell(12, p.Remark)
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="products-%s.xlsx"`, time.Now().Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
