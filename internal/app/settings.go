package app

import (
	"strings"
	"sync"
	"time"

	"github.com/nexretail/nexpos/internal/domain"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// ConfigManager reads system settings from the sys_config table with a
// short-lived in-memory cache. Values changed through the admin API become
// visible within the cache TTL without a restart.
type ConfigManager struct {
	app      *Application
	cacheTTL time.Duration

	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

const settingsCacheTTL = 30 * time.Second

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{
		app:      app,
		cacheTTL: settingsCacheTTL,
		cache:    map[string]string{},
	}
}

func (m *ConfigManager) cacheKey(category, name string) string {
	return category + "." + name
}

func (m *ConfigManager) load() map[string]string {
	m.mu.RLock()
	if time.Since(m.loadedAt) < m.cacheTTL && len(m.cache) > 0 {
		defer m.mu.RUnlock()
		return m.cache
	}
	m.mu.RUnlock()

	var rows []domain.SysConfig
	if err := m.app.gormDB.Find(&rows).Error; err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.cache
	}

	fresh := make(map[string]string, len(rows))
	for _, row := range rows {
		fresh[m.cacheKey(row.Type, row.Name)] = row.Value
	}

	m.mu.Lock()
	m.cache = fresh
	m.loadedAt = time.Now()
	m.mu.Unlock()
	return fresh
}

// Invalidate drops the cache so the next read hits the database.
func (m *ConfigManager) Invalidate() {
	m.mu.Lock()
	m.loadedAt = time.Time{}
	m.mu.Unlock()
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.load()[m.cacheKey(category, name)]
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.GetString(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue creates or updates one setting row and invalidates the cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	var row domain.SysConfig
	err := m.app.gormDB.Where("type = ? and name = ?", category, name).First(&row).Error
	if err != nil {
		err = m.app.gormDB.Create(&domain.SysConfig{
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	} else {
		err = m.app.gormDB.Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).
			Update("value", value).Error
	}
	if err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

// SaveValues persists a batch of "category.name" keyed settings.
func (m *ConfigManager) SaveValues(settings map[string]interface{}) error {
	for key, value := range settings {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			continue
		}
		if err := m.SetValue(parts[0], parts[1], cast.ToString(value)); err != nil {
			return err
		}
	}
	return nil
}
