package labeling

import "github.com/nexretail/nexpos/internal/domain"

// ResolvedFields is the per-label outcome of reconciling product-level and
// unit-level data.
type ResolvedFields struct {
	Price        float64
	Barcode      string
	Color        string
	Storage      *int
	Ram          *int
	BatteryLevel *int
}

// ResolveFields computes the single price, barcode and descriptive fields
// for one label. unit may be nil for bulk products.
//
// Price precedence, first non-nil wins:
// unit.max_price > product.max_price > unit.price > product.price > 0.
//
// Barcode precedence: the master barcode (product-level, when requested and
// present) overrides everything; otherwise unit barcode, then product
// barcode. A unit that resolves to no barcode is a hard error: the resolver
// never synthesizes one, because an invented barcode prints fine and then
// fails at the register scanner.
func ResolveFields(p *domain.Product, unit *domain.ProductUnit, useMasterBarcode bool) (ResolvedFields, error) {
	var out ResolvedFields

	out.Price = resolvePrice(p, unit)

	barcode, err := resolveBarcode(p, unit, useMasterBarcode)
	if err != nil {
		return ResolvedFields{}, err
	}
	out.Barcode = barcode

	if unit != nil && unit.Color != "" {
		out.Color = unit.Color
	}
	out.Storage = firstInt(unitStorage(unit), p.DefaultStorage)
	out.Ram = firstInt(unitRam(unit), p.DefaultRam)
	if unit != nil {
		out.BatteryLevel = unit.BatteryLevel
	}

	return out, nil
}

func resolvePrice(p *domain.Product, unit *domain.ProductUnit) float64 {
	if unit != nil && unit.MaxPrice != nil {
		return *unit.MaxPrice
	}
	if p.MaxPrice != nil {
		return *p.MaxPrice
	}
	if unit != nil && unit.Price != nil {
		return *unit.Price
	}
	return p.Price
}

func resolveBarcode(p *domain.Product, unit *domain.ProductUnit, useMasterBarcode bool) (string, error) {
	if useMasterBarcode && p.Barcode != "" {
		return p.Barcode, nil
	}
	if unit != nil && unit.Barcode != "" {
		return unit.Barcode, nil
	}
	if p.Barcode != "" {
		return p.Barcode, nil
	}
	serial := ""
	if unit != nil {
		serial = unit.SerialNumber
	}
	return "", &DataIntegrityError{ProductID: p.ID, Serial: serial, Reason: "missing barcode"}
}

func unitStorage(unit *domain.ProductUnit) *int {
	if unit == nil {
		return nil
	}
	return unit.Storage
}

func unitRam(unit *domain.ProductUnit) *int {
	if unit == nil {
		return nil
	}
	return unit.Ram
}

func firstInt(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
