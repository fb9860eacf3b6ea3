package labeling

import (
	"context"

	"github.com/nexretail/nexpos/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RecordSource supplies raw product and unit rows for a selection of
// product identifiers. The pipeline calls it once per print invocation.
type RecordSource interface {
	FetchProducts(ctx context.Context, ids []int64) ([]ProductWithUnits, error)
}

// GormRecordSource reads the catalog through gorm. Two queries per fetch
// regardless of how many labels the selection expands to.
type GormRecordSource struct {
	db *gorm.DB
}

func NewGormRecordSource(db *gorm.DB) *GormRecordSource {
	return &GormRecordSource{db: db}
}

func (s *GormRecordSource) FetchProducts(ctx context.Context, ids []int64) ([]ProductWithUnits, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []domain.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "query products")
	}

	var units []domain.ProductUnit
	if err := s.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("id ASC").
		Find(&units).Error; err != nil {
		return nil, errors.Wrap(err, "query product units")
	}

	unitsByProduct := make(map[int64][]domain.ProductUnit, len(products))
	for _, u := range units {
		unitsByProduct[u.ProductID] = append(unitsByProduct[u.ProductID], u)
	}

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Preserve the caller's selection order; the builder relies on it.
	out := make([]ProductWithUnits, 0, len(products))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, ProductWithUnits{Product: p, Units: unitsByProduct[id]})
	}
	return out, nil
}
