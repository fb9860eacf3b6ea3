package labeling

import (
	"reflect"
	"strings"
	"testing"
)

func TestFormatName(t *testing.T) {
	f := NewFormatter("")
	opts := LabelOptions{Copies: 1, Format: FormatStandard}

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"uppercased", "Apple iPhone 12", "APPLE IPHONE 12"},
		{"whitespace collapsed", "  Apple   iPhone\t12 ", "APPLE IPHONE 12"},
		{"capped at 50", strings.Repeat("ab ", 30), strings.Repeat("AB ", 17)[:50]},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := f.Format(LabelRecord{ProductName: tc.in, Barcode: "B"}, opts)
			if got.Name != tc.want {
				t.Fatalf("Format name = %q, want %q", got.Name, tc.want)
			}
			if len([]rune(got.Name)) > 50 {
				t.Fatalf("name exceeds 50 runes: %q", got.Name)
			}
		})
	}
}

func TestFormatFields(t *testing.T) {
	f := NewFormatter("NexRetail")
	rec := LabelRecord{
		ProductName:  "Apple iPhone 12",
		SerialNumber: "ABC123",
		Barcode:      "4006381333931",
		Price:        349.5,
		Category:     "Smartphones",
		Storage:      iptr(128),
		Ram:          iptr(4),
		BatteryLevel: iptr(87),
	}

	opts := LabelOptions{
		Copies:          1,
		Format:          FormatStandard,
		IncludePrice:    true,
		IncludeBarcode:  true,
		IncludeCompany:  true,
		IncludeCategory: true,
	}
	got := f.Format(rec, opts)

	if got.Price != "€349.50" {
		t.Fatalf("price = %q", got.Price)
	}
	if got.Serial != "SN: ABC123" {
		t.Fatalf("serial = %q", got.Serial)
	}
	if got.SpecLine != "128gb · 4gb ram · 87%" {
		t.Fatalf("spec line = %q", got.SpecLine)
	}
	if got.Barcode != "4006381333931" || got.Company != "NexRetail" || got.Category != "Smartphones" {
		t.Fatalf("unexpected output: %+v", got)
	}
}

func TestFormatOmitsExcludedFields(t *testing.T) {
	f := NewFormatter("NexRetail")
	rec := LabelRecord{ProductName: "Apple iPhone 12", Barcode: "B", Price: 100}

	got := f.Format(rec, LabelOptions{Copies: 1, Format: FormatStandard})
	if got.Price != "" {
		t.Fatal("price must be empty unless included")
	}
	if got.Barcode != "" {
		t.Fatal("barcode must be empty unless included")
	}
	if got.Company != "" || got.Category != "" || got.Serial != "" {
		t.Fatalf("unexpected output: %+v", got)
	}
}

func TestFormatSpecLineOmitsAbsentFields(t *testing.T) {
	f := NewFormatter("")
	opts := LabelOptions{Copies: 1, Format: FormatStandard}

	testCases := []struct {
		name string
		rec  LabelRecord
		want string
	}{
		{"all absent", LabelRecord{}, ""},
		{"storage only", LabelRecord{Storage: iptr(64)}, "64gb"},
		{"ram only", LabelRecord{Ram: iptr(8)}, "8gb ram"},
		{"battery only", LabelRecord{BatteryLevel: iptr(100)}, "100%"},
		{"storage and battery", LabelRecord{Storage: iptr(64), BatteryLevel: iptr(55)}, "64gb · 55%"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Format(tc.rec, opts).SpecLine; got != tc.want {
				t.Fatalf("spec line = %q, want %q", got, tc.want)
			}
		})
	}
}

// Preview and print rely on Format being deterministic: the same input must
// produce byte-identical output on every call.
func TestFormatDeterministic(t *testing.T) {
	f := NewFormatter("NexRetail")
	rec := LabelRecord{
		ProductName:  "Apple iPhone 12",
		SerialNumber: "S1",
		Barcode:      "4006381333931",
		Price:        99.99,
		Storage:      iptr(128),
		BatteryLevel: iptr(80),
	}
	opts := DefaultLabelOptions()

	first := f.Format(rec, opts)
	second := f.Format(rec, opts)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Format is not deterministic:\n%+v\n%+v", first, second)
	}
}
