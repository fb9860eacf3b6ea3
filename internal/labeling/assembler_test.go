package labeling

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	asm, err := NewAssembler(NewFormatter("NexRetail"), NewRenderer(), 2)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	t.Cleanup(asm.Release)
	return asm
}

func TestAssembleRejectsInvalidOptions(t *testing.T) {
	asm := newTestAssembler(t)
	records := []LabelRecord{{ProductName: "Apple iPhone 12", Barcode: "4006381333931"}}

	testCases := []struct {
		name string
		opts LabelOptions
	}{
		{"zero copies", LabelOptions{Copies: 0, Format: FormatStandard}},
		{"too many copies", LabelOptions{Copies: 51, Format: FormatStandard}},
		{"unknown format", LabelOptions{Copies: 1, Format: "fancy"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := asm.Assemble(context.Background(), records, tc.opts)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestAssembleRejectsEmptyRecords(t *testing.T) {
	asm := newTestAssembler(t)
	_, err := asm.Assemble(context.Background(), nil, DefaultLabelOptions())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestAssembleDocument(t *testing.T) {
	asm := newTestAssembler(t)
	records := []LabelRecord{
		{ProductName: "Apple iPhone 12", SerialNumber: "A1", Barcode: "4006381333931", Price: 349},
		{ProductName: "Samsung Galaxy S21", SerialNumber: "B1", Barcode: "SGS21-0001", Price: 299},
	}
	opts := DefaultLabelOptions()
	opts.Copies = 2
	opts.IncludeCompany = true

	doc, err := asm.Assemble(context.Background(), records, opts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if doc.TotalLabels != 4 {
		t.Fatalf("TotalLabels = %d, want 4", doc.TotalLabels)
	}
	if len(doc.RenderFailures) != 0 {
		t.Fatalf("unexpected render failures: %+v", doc.RenderFailures)
	}

	html := string(doc.HTML)
	if !strings.Contains(html, "size: 60mm 50mm") {
		t.Fatal("document must declare the physical page size")
	}
	if !strings.Contains(html, "width: 52mm") || !strings.Contains(html, "height: 12mm") {
		t.Fatal("barcode zone must be 52mm by 12mm")
	}
	if strings.Count(html, `class="label"`) != 4 {
		t.Fatalf("want 4 label blocks, got %d", strings.Count(html, `class="label"`))
	}
	if strings.Count(html, "data:image/png;base64,") != 4 {
		t.Fatal("every block must embed its barcode image")
	}
	if !strings.Contains(html, "window.print()") {
		t.Fatal("document must trigger printing on load")
	}

	// Copies of one record stay adjacent: both iPhone blocks come before
	// any Galaxy block.
	lastA := strings.LastIndex(html, "SN: A1")
	firstB := strings.Index(html, "SN: B1")
	if lastA < 0 || firstB < 0 || lastA > firstB {
		t.Fatal("copies of one record must be contiguous")
	}
}

func TestAssembleCompactFormat(t *testing.T) {
	asm := newTestAssembler(t)
	records := []LabelRecord{{ProductName: "Apple iPhone 12", Barcode: "4006381333931"}}
	opts := DefaultLabelOptions()
	opts.Format = FormatCompact

	doc, err := asm.Assemble(context.Background(), records, opts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(string(doc.HTML), "size: 60mm 30mm") {
		t.Fatal("compact format must use the 60mm by 30mm page size")
	}
}

func TestAssembleRenderFailurePlaceholder(t *testing.T) {
	asm := newTestAssembler(t)
	// 13 digits with a wrong check digit selects EAN-13 and fails encoding.
	records := []LabelRecord{{ProductName: "Apple iPhone 12", Barcode: "1234567890123"}}

	doc, err := asm.Assemble(context.Background(), records, DefaultLabelOptions())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(doc.RenderFailures) != 1 || doc.RenderFailures[0].Barcode != "1234567890123" {
		t.Fatalf("render failures = %+v", doc.RenderFailures)
	}
	html := string(doc.HTML)
	if !strings.Contains(html, "BARCODE ERROR") {
		t.Fatal("failed barcode must render a visible placeholder")
	}
	if strings.Contains(html, "data:image/png;base64,") {
		t.Fatal("failed barcode must not embed an image")
	}
	if doc.TotalLabels != 1 {
		t.Fatalf("TotalLabels = %d, want 1", doc.TotalLabels)
	}
}

func TestAssembleWithoutBarcodes(t *testing.T) {
	asm := newTestAssembler(t)
	records := []LabelRecord{{ProductName: "Apple iPhone 12", Barcode: "4006381333931"}}
	opts := DefaultLabelOptions()
	opts.IncludeBarcode = false

	doc, err := asm.Assemble(context.Background(), records, opts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if strings.Contains(string(doc.HTML), "data:image/png;base64,") {
		t.Fatal("barcode images must be absent when not requested")
	}
}

func TestAssembleCancelledContext(t *testing.T) {
	asm := newTestAssembler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []LabelRecord{{ProductName: "Apple iPhone 12", Barcode: "4006381333931"}}
	if _, err := asm.Assemble(ctx, records, DefaultLabelOptions()); err == nil {
		t.Fatal("want error on cancelled context")
	}
}

func TestAssembleReportsPhases(t *testing.T) {
	asm := newTestAssembler(t)
	records := []LabelRecord{{ProductName: "Apple iPhone 12", Barcode: "4006381333931"}}

	var phases []PrintState
	_, err := asm.AssembleWithPhase(context.Background(), records, DefaultLabelOptions(), func(s PrintState) {
		phases = append(phases, s)
	})
	if err != nil {
		t.Fatalf("AssembleWithPhase: %v", err)
	}
	want := []PrintState{StateRendering, StateAwaitingRenderCompletion}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phases = %v, want %v", phases, want)
		}
	}
}
