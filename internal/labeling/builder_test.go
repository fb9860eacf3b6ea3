package labeling

import (
	"testing"

	"github.com/nexretail/nexpos/internal/domain"
)

func TestBuildSerializedProduct(t *testing.T) {
	input := []ProductWithUnits{
		{
			Product: domain.Product{ID: 1, Brand: "Apple", Model: "iPhone 12", Barcode: "M"},
			Units: []domain.ProductUnit{
				{ProductID: 1, SerialNumber: "S1", Barcode: "1111111111111", Status: domain.UnitStatusAvailable},
				{ProductID: 1, SerialNumber: "S2", Barcode: "2222222222222", Status: domain.UnitStatusAvailable},
				{ProductID: 1, SerialNumber: "S3", Barcode: "3333333333333", Status: domain.UnitStatusSold},
			},
		},
	}

	result := NewBuilder(0).Build(input, DefaultLabelOptions())
	if len(result.Skipped) != 0 {
		t.Fatalf("unexpected skips: %+v", result.Skipped)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected one record per non-sold unit, got %d", len(result.Records))
	}
	if result.Records[0].SerialNumber != "S1" || result.Records[1].SerialNumber != "S2" {
		t.Fatalf("unit input order not preserved: %+v", result.Records)
	}
	if result.Records[0].Barcode != "1111111111111" {
		t.Fatalf("expected unit barcode, got %q", result.Records[0].Barcode)
	}
}

func TestBuildBulkProduct(t *testing.T) {
	testCases := []struct {
		name  string
		stock *int
		cap   int
		want  int
	}{
		{"nil stock emits one", nil, 10, 1},
		{"zero stock emits one", iptr(0), 10, 1},
		{"stock three", iptr(3), 10, 3},
		{"stock above cap", iptr(500), 10, 10},
		{"configurable cap", iptr(500), 25, 25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := []ProductWithUnits{
				{Product: domain.Product{ID: 1, Brand: "Samsung", Model: "S21", Barcode: "B1", Stock: tc.stock}},
			}
			result := NewBuilder(tc.cap).Build(input, DefaultLabelOptions())
			if len(result.Records) != tc.want {
				t.Fatalf("expected %d records, got %d", tc.want, len(result.Records))
			}
		})
	}
}

func TestBuildAllUnitsSoldFallsBackToBulk(t *testing.T) {
	input := []ProductWithUnits{
		{
			Product: domain.Product{ID: 1, Brand: "Apple", Model: "iPhone 11", Barcode: "B", Stock: iptr(2)},
			Units: []domain.ProductUnit{
				{ProductID: 1, SerialNumber: "S1", Barcode: "U1", Status: domain.UnitStatusSold},
			},
		},
	}
	result := NewBuilder(0).Build(input, DefaultLabelOptions())
	if len(result.Records) != 2 {
		t.Fatalf("expected bulk fallback of 2 records, got %d", len(result.Records))
	}
	if result.Records[0].SerialNumber != "" {
		t.Fatal("bulk records must not carry a serial")
	}
}

func TestBuildDisplayName(t *testing.T) {
	input := []ProductWithUnits{
		{Product: domain.Product{ID: 1, Brand: "Apple (Black)", Model: "iPhone 12 (Product Red)", Barcode: "B"}},
	}
	result := NewBuilder(0).Build(input, DefaultLabelOptions())
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if got := result.Records[0].ProductName; got != "Apple iPhone 12" {
		t.Fatalf("expected color annotations stripped, got %q", got)
	}
}

func TestBuildSkipsInvalidProducts(t *testing.T) {
	input := []ProductWithUnits{
		{Product: domain.Product{ID: 1, Brand: "Apple", Barcode: "B"}}, // missing model
		{Product: domain.Product{ID: 2, Brand: "Apple", Model: "iPhone 12", Barcode: "OK"}},
		{Product: domain.Product{ID: 3, Brand: "Sony", Model: "WH-1000"}}, // missing barcode
	}
	result := NewBuilder(0).Build(input, DefaultLabelOptions())

	if len(result.Records) != 1 || result.Records[0].ProductID != 2 {
		t.Fatalf("expected only product 2 to survive, got %+v", result.Records)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("expected 2 skip reasons, got %+v", result.Skipped)
	}
	if result.Skipped[0].ProductID != 1 || result.Skipped[0].Reason != "missing brand or model" {
		t.Fatalf("unexpected first skip: %+v", result.Skipped[0])
	}
	if result.Skipped[1].ProductID != 3 || result.Skipped[1].Reason != "missing barcode" {
		t.Fatalf("unexpected second skip: %+v", result.Skipped[1])
	}
}

func TestBuildMasterBarcode(t *testing.T) {
	input := []ProductWithUnits{
		{
			Product: domain.Product{ID: 1, Brand: "Apple", Model: "iPhone 12", Barcode: "999999999"},
			Units: []domain.ProductUnit{
				{ProductID: 1, SerialNumber: "S1", Barcode: "U1", Status: domain.UnitStatusAvailable},
				{ProductID: 1, SerialNumber: "S2", Barcode: "U2", Status: domain.UnitStatusAvailable},
			},
		},
	}
	opts := DefaultLabelOptions()
	opts.UseMasterBarcode = true

	result := NewBuilder(0).Build(input, opts)
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	for _, rec := range result.Records {
		if rec.Barcode != "999999999" {
			t.Fatalf("expected master barcode on every label, got %q", rec.Barcode)
		}
	}
}

func TestBuildPreservesProductOrder(t *testing.T) {
	input := []ProductWithUnits{
		{
			Product: domain.Product{ID: 1, Brand: "Apple", Model: "A", Barcode: "BA"},
			Units: []domain.ProductUnit{
				{ProductID: 1, SerialNumber: "S1", Barcode: "1111111111111", Status: domain.UnitStatusAvailable},
				{ProductID: 1, SerialNumber: "S2", Barcode: "2222222222222", Status: domain.UnitStatusAvailable},
			},
		},
		{Product: domain.Product{ID: 2, Brand: "Samsung", Model: "B", Barcode: "BB", Stock: iptr(3)}},
	}

	result := NewBuilder(0).Build(input, DefaultLabelOptions())
	if len(result.Records) != 5 {
		t.Fatalf("expected 2 unit + 3 bulk records, got %d", len(result.Records))
	}
	for i, wantProduct := range []int64{1, 1, 2, 2, 2} {
		if result.Records[i].ProductID != wantProduct {
			t.Fatalf("record %d: expected product %d, got %d", i, wantProduct, result.Records[i].ProductID)
		}
	}
}
