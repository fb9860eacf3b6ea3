package app

import (
	"errors"
	"strings"
	"time"

	"github.com/nexretail/nexpos/internal/domain"
	"github.com/nexretail/nexpos/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "nexpos"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type configSchema struct {
	Key         string
	Default     string
	Description string
}

// defaultConfigSchemas defines every system setting with its default value.
// Missing rows are created on startup; existing rows are never touched.
var defaultConfigSchemas = []configSchema{
	{"system.SystemTitle", "NexPOS", "System title shown in the admin UI"},
	{"system.OprLogDays", "365", "Days to keep operator action logs"},
	{"labels.CompanyName", "NexRetail", "Company name printed on label headers"},
	{"labels.BulkLabelCap", "10", "Maximum labels printed per bulk product"},
	{"labels.PrintLogDays", "90", "Days to keep label print job logs"},
	{"labels.RenderWorkers", "8", "Barcode render worker pool size"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range defaultConfigSchemas {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		// Check whether the configuration already exists
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkDemoProducts seeds a minimal catalog on an empty database so the
// label pipeline can be exercised immediately after install.
func (a *Application) checkDemoProducts() {
	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	iptr := func(v int) *int { return &v }
	fptr := func(v float64) *float64 { return &v }

	phone := domain.Product{
		ID:             common.UUIDint64(),
		Brand:          "Apple",
		Model:          "iPhone 12",
		Category:       "Smartphones",
		Price:          349,
		MaxPrice:       fptr(399),
		Barcode:        "4006381333931",
		DefaultStorage: iptr(128),
		DefaultRam:     iptr(4),
		Remark:         "demo",
	}
	cable := domain.Product{
		ID:       common.UUIDint64(),
		Brand:    "Ugreen",
		Model:    "USB-C Cable 1m",
		Category: "Accessories",
		Price:    9.9,
		Stock:    iptr(25),
		Barcode:  "UGR-USBC-100",
		Remark:   "demo",
	}

	if err := a.gormDB.Create([]*domain.Product{&phone, &cable}).Error; err != nil {
		zap.L().Error("failed to seed demo products", zap.Error(err))
		return
	}

	units := []domain.ProductUnit{
		{
			ID:           common.UUIDint64(),
			ProductID:    phone.ID,
			SerialNumber: "DEMO-IP12-001",
			Color:        "Black",
			Storage:      iptr(128),
			BatteryLevel: iptr(92),
			Barcode:      "IP12-001",
			Status:       domain.UnitStatusAvailable,
		},
		{
			ID:           common.UUIDint64(),
			ProductID:    phone.ID,
			SerialNumber: "DEMO-IP12-002",
			Color:        "White",
			Storage:      iptr(256),
			BatteryLevel: iptr(88),
			Barcode:      "IP12-002",
			Status:       domain.UnitStatusAvailable,
		},
	}
	if err := a.gormDB.Create(&units).Error; err != nil {
		zap.L().Error("failed to seed demo units", zap.Error(err))
		return
	}
	zap.L().Info("initialized demo catalog", zap.Int("products", 2), zap.Int("units", len(units)))
}
