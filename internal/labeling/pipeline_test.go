package labeling

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nexretail/nexpos/internal/domain"
)

type fakeSource struct {
	rows     []ProductWithUnits
	failures int
	calls    int
}

func (s *fakeSource) FetchProducts(ctx context.Context, ids []int64) ([]ProductWithUnits, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("connection refused")
	}
	return s.rows, nil
}

type fakeBus struct {
	topics  []string
	results []*PrintJobResult
}

func (b *fakeBus) Publish(topic string, args ...interface{}) {
	b.topics = append(b.topics, topic)
	for _, arg := range args {
		if res, ok := arg.(*PrintJobResult); ok {
			b.results = append(b.results, res)
		}
	}
}

func newTestPipeline(t *testing.T, source RecordSource, bus EventPublisher) *Pipeline {
	t.Helper()
	asm, err := NewAssembler(NewFormatter("NexRetail"), NewRenderer(), 2)
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	t.Cleanup(asm.Release)
	p := NewPipeline(source, NewBuilder(DefaultBulkLabelCap), NewFormatter("NexRetail"), asm, bus)
	p.FetchBackoff = time.Millisecond
	return p
}

func printTestRows() []ProductWithUnits {
	return []ProductWithUnits{
		{
			Product: domain.Product{ID: 1, Brand: "Apple", Model: "iPhone 12", Barcode: "M1", Price: 349},
			Units: []domain.ProductUnit{
				{ID: 10, ProductID: 1, SerialNumber: "A1", Barcode: "4006381333931", Status: domain.UnitStatusAvailable},
				{ID: 11, ProductID: 1, SerialNumber: "A2", Barcode: "CODEA2", Status: domain.UnitStatusAvailable},
			},
		},
		{
			Product: domain.Product{ID: 2, Brand: "Samsung", Model: "Galaxy S21", Barcode: "M2", Price: 299},
			Units: []domain.ProductUnit{
				{ID: 20, ProductID: 2, SerialNumber: "B1", Barcode: "CODEB1", Status: domain.UnitStatusAvailable},
				{ID: 21, ProductID: 2, SerialNumber: "B2", Barcode: "CODEB2", Status: domain.UnitStatusAvailable},
				{ID: 22, ProductID: 2, SerialNumber: "B3", Barcode: "CODEB3", Status: domain.UnitStatusAvailable},
			},
		},
	}
}

func TestPipelinePrint(t *testing.T) {
	bus := &fakeBus{}
	p := newTestPipeline(t, &fakeSource{rows: printTestRows()}, bus)

	opts := DefaultLabelOptions()
	opts.Copies = 2
	doc, result, err := p.Print(context.Background(), []int64{1, 2}, opts, "admin")
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if doc.TotalLabels != 10 {
		t.Fatalf("TotalLabels = %d, want 10", doc.TotalLabels)
	}
	if !result.Success || result.JobID == 0 || result.TotalLabels != 10 {
		t.Fatalf("result = %+v", result)
	}

	// All product 1 labels come before any product 2 label.
	html := string(doc.HTML)
	lastA := strings.LastIndex(html, "SN: A2")
	firstB := strings.Index(html, "SN: B1")
	if lastA < 0 || firstB < 0 || lastA > firstB {
		t.Fatal("labels must keep product order with copies contiguous")
	}

	if len(bus.topics) != 1 || bus.topics[0] != TopicPrintFinished {
		t.Fatalf("published topics = %v", bus.topics)
	}
	if len(bus.results) != 1 || !bus.results[0].Success {
		t.Fatalf("published results = %+v", bus.results)
	}
}

func TestPipelinePreview(t *testing.T) {
	p := newTestPipeline(t, &fakeSource{rows: printTestRows()}, &fakeBus{})

	labels, skipped, err := p.Preview(context.Background(), []int64{1, 2}, DefaultLabelOptions())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(labels) != 5 {
		t.Fatalf("labels = %d, want 5", len(labels))
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %+v", skipped)
	}
	if labels[0].Name != "APPLE IPHONE 12" {
		t.Fatalf("first label name = %q", labels[0].Name)
	}
}

func TestPipelineRetriesTransientFetch(t *testing.T) {
	source := &fakeSource{rows: printTestRows(), failures: 2}
	p := newTestPipeline(t, source, &fakeBus{})

	if _, _, err := p.Preview(context.Background(), []int64{1}, DefaultLabelOptions()); err != nil {
		t.Fatalf("Preview after retries: %v", err)
	}
	if source.calls != 3 {
		t.Fatalf("fetch calls = %d, want 3", source.calls)
	}
}

func TestPipelineFetchExhaustion(t *testing.T) {
	source := &fakeSource{failures: 100}
	bus := &fakeBus{}
	p := newTestPipeline(t, source, bus)

	_, result, err := p.Print(context.Background(), []int64{1}, DefaultLabelOptions(), "admin")
	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("want HostError, got %v", err)
	}
	if source.calls != defaultFetchAttempts {
		t.Fatalf("fetch calls = %d, want %d", source.calls, defaultFetchAttempts)
	}
	if result == nil || result.Success {
		t.Fatalf("result = %+v", result)
	}

	// Failed jobs publish too; the print log records them.
	if len(bus.results) != 1 || bus.results[0].Success {
		t.Fatalf("published results = %+v", bus.results)
	}
}

func TestPipelineValidationDoesNotFetch(t *testing.T) {
	source := &fakeSource{failures: 100}
	p := newTestPipeline(t, source, &fakeBus{})

	testCases := []struct {
		name string
		ids  []int64
		opts LabelOptions
	}{
		{"empty selection", nil, DefaultLabelOptions()},
		{"bad copies", []int64{1}, LabelOptions{Copies: 0, Format: FormatStandard}},
		{"bad format", []int64{1}, LabelOptions{Copies: 1, Format: "poster"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := p.Preview(context.Background(), tc.ids, tc.opts)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
	if source.calls != 0 {
		t.Fatalf("validation failures must not hit the store, calls = %d", source.calls)
	}
}

func TestPipelineCancelledContext(t *testing.T) {
	source := &fakeSource{failures: 100}
	p := newTestPipeline(t, source, &fakeBus{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := p.Preview(ctx, []int64{1}, DefaultLabelOptions())
	var herr *HostError
	if !errors.As(err, &herr) {
		t.Fatalf("want HostError, got %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("cancelled fetch must not retry, calls = %d", source.calls)
	}
}

func TestPipelineAllRecordsSkipped(t *testing.T) {
	rows := []ProductWithUnits{{Product: domain.Product{ID: 3}}}
	bus := &fakeBus{}
	p := newTestPipeline(t, &fakeSource{rows: rows}, bus)

	_, result, err := p.Print(context.Background(), []int64{3}, DefaultLabelOptions(), "admin")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if result.Success {
		t.Fatalf("result = %+v", result)
	}
	if len(bus.results) != 1 {
		t.Fatalf("failed job must still publish, results = %+v", bus.results)
	}
}
