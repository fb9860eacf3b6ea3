package labeling

import (
	"regexp"
	"strings"

	"github.com/nexretail/nexpos/internal/domain"
	"go.uber.org/zap"
)

// ProductWithUnits is the raw input shape supplied by the record source:
// one product row plus its unit rows in store order.
type ProductWithUnits struct {
	Product domain.Product
	Units   []domain.ProductUnit
}

// BuildResult carries both the successfully built records and the skip
// reasons for everything that could not yield a label. Partial success is
// the expected outcome, not an edge case.
type BuildResult struct {
	Records []LabelRecord
	Skipped []SkipReason
}

// Builder expands a product selection into an ordered sequence of label
// records, one per physical unit to print.
type Builder struct {
	// BulkLabelCap bounds the label count for a product printed by stock
	// count. Zero means DefaultBulkLabelCap.
	BulkLabelCap int
}

func NewBuilder(bulkLabelCap int) *Builder {
	if bulkLabelCap <= 0 {
		bulkLabelCap = DefaultBulkLabelCap
	}
	return &Builder{BulkLabelCap: bulkLabelCap}
}

// Build emits one record per non-sold unit for serialized products, and
// min(max(stock,1),cap) records from product-level data for bulk products.
// Input product order and store unit order are preserved. A product that
// is missing brand or model, or that fails barcode resolution, is skipped
// with a collected reason; one bad product never aborts the batch.
func (b *Builder) Build(products []ProductWithUnits, opts LabelOptions) BuildResult {
	limit := b.BulkLabelCap
	if limit <= 0 {
		limit = DefaultBulkLabelCap
	}

	var out BuildResult
	for i := range products {
		p := &products[i].Product

		name, ok := displayName(p)
		if !ok {
			out.Skipped = append(out.Skipped, SkipReason{
				ProductID: p.ID,
				Reason:    "missing brand or model",
			})
			zap.L().Warn("label build: product skipped",
				zap.Int64("product_id", p.ID),
				zap.String("reason", "missing brand or model"))
			continue
		}

		eligible := eligibleUnits(products[i].Units)
		if len(eligible) > 0 {
			for _, unit := range eligible {
				rec, err := buildRecord(p, unit, name, opts)
				if err != nil {
					out.Skipped = append(out.Skipped, skipFromError(p.ID, unit.SerialNumber, err))
					continue
				}
				out.Records = append(out.Records, rec)
			}
			continue
		}

		// Bulk product: no units, or every unit sold.
		rec, err := buildRecord(p, nil, name, opts)
		if err != nil {
			out.Skipped = append(out.Skipped, skipFromError(p.ID, "", err))
			continue
		}
		for n := 0; n < bulkCount(p.Stock, limit); n++ {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

func buildRecord(p *domain.Product, unit *domain.ProductUnit, name string, opts LabelOptions) (LabelRecord, error) {
	fields, err := ResolveFields(p, unit, opts.UseMasterBarcode)
	if err != nil {
		return LabelRecord{}, err
	}
	rec := LabelRecord{
		ProductID:    p.ID,
		ProductName:  name,
		Barcode:      fields.Barcode,
		Price:        fields.Price,
		Category:     p.Category,
		Color:        fields.Color,
		Storage:      fields.Storage,
		Ram:          fields.Ram,
		BatteryLevel: fields.BatteryLevel,
	}
	if unit != nil {
		rec.SerialNumber = unit.SerialNumber
	}
	return rec, nil
}

func eligibleUnits(units []domain.ProductUnit) []*domain.ProductUnit {
	var out []*domain.ProductUnit
	for i := range units {
		if units[i].Status == domain.UnitStatusSold {
			continue
		}
		out = append(out, &units[i])
	}
	return out
}

func bulkCount(stock *int, limit int) int {
	n := 1
	if stock != nil && *stock > 1 {
		n = *stock
	}
	if n > limit {
		n = limit
	}
	return n
}

var parenAnnotation = regexp.MustCompile(`\s*\([^)]*\)`)

// displayName formats "Brand Model", stripping parenthesized color
// annotations from both parts. Color travels as a structured field, never
// inside the name string.
func displayName(p *domain.Product) (string, bool) {
	brand := strings.TrimSpace(parenAnnotation.ReplaceAllString(p.Brand, ""))
	model := strings.TrimSpace(parenAnnotation.ReplaceAllString(p.Model, ""))
	if brand == "" || model == "" {
		return "", false
	}
	return brand + " " + model, true
}

func skipFromError(productID int64, serial string, err error) SkipReason {
	if ie, ok := err.(*DataIntegrityError); ok {
		return SkipReason{ProductID: ie.ProductID, Serial: ie.Serial, Reason: ie.Reason}
	}
	return SkipReason{ProductID: productID, Serial: serial, Reason: err.Error()}
}
