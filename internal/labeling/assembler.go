package labeling

import (
	"context"
	"encoding/base64"
	"html/template"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Label sheet dimensions per format, in millimetres. The document expresses
// every size in physical units so the on-screen preview and the printed
// sticker agree exactly.
var formatDimensions = map[string]struct{ WidthMM, HeightMM int }{
	FormatStandard: {60, 50},
	FormatCompact:  {60, 30},
}

// RenderFailure describes a barcode that could not be encoded. The label
// still prints, with a visible placeholder in the barcode zone.
type RenderFailure struct {
	Barcode string `json:"barcode"`
	Reason  string `json:"reason"`
}

// PrintableDocument is the final artifact handed to the host's print
// facility: a self-contained HTML page with every barcode embedded, sized
// in physical units, one label per printed sticker.
type PrintableDocument struct {
	HTML           []byte
	TotalLabels    int
	Format         string
	RenderFailures []RenderFailure
}

// Assembler lays out label records into a printable document. Barcode
// rasterization is dispatched to a worker pool; Assemble joins on every
// dispatched render before emitting the document, so the print trigger can
// never fire against half-drawn barcodes.
type Assembler struct {
	formatter *Formatter
	renderer  *Renderer
	pool      *ants.Pool
	validate  *validator.Validate
}

// NewAssembler creates an assembler with a render pool of poolSize workers.
func NewAssembler(formatter *Formatter, renderer *Renderer, poolSize int) (*Assembler, error) {
	if poolSize <= 0 {
		poolSize = 8
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, errors.Wrap(err, "create render pool")
	}
	return &Assembler{
		formatter: formatter,
		renderer:  renderer,
		pool:      pool,
		validate:  validator.New(),
	}, nil
}

// Release frees the render pool.
func (a *Assembler) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// ValidateOptions checks a LabelOptions value without assembling anything.
// Out-of-range copies and unknown formats are rejected, never clamped.
func (a *Assembler) ValidateOptions(opts LabelOptions) error {
	if err := a.validate.Struct(opts); err != nil {
		return &ValidationError{Field: "options", Reason: err.Error()}
	}
	return nil
}

// Assemble validates input, renders every distinct barcode, expands each
// record into opts.Copies adjacent blocks and lays the result out at the
// fixed physical label size. Validation failures reject the whole call
// before any rendering work.
func (a *Assembler) Assemble(ctx context.Context, records []LabelRecord, opts LabelOptions) (*PrintableDocument, error) {
	return a.AssembleWithPhase(ctx, records, opts, nil)
}

// AssembleWithPhase additionally reports render phase transitions to the
// caller's state machine. phase may be nil.
func (a *Assembler) AssembleWithPhase(ctx context.Context, records []LabelRecord, opts LabelOptions, phase func(PrintState)) (*PrintableDocument, error) {
	if len(records) == 0 {
		return nil, &ValidationError{Field: "records", Reason: "empty record set"}
	}
	if err := a.ValidateOptions(opts); err != nil {
		return nil, err
	}

	images, failures, err := a.renderBarcodes(ctx, records, opts, phase)
	if err != nil {
		return nil, err
	}

	dims := formatDimensions[opts.Format]
	data := documentData{
		WidthMM:  dims.WidthMM,
		HeightMM: dims.HeightMM,
		Compact:  opts.Format == FormatCompact,
	}

	// Copy expansion keeps all copies of one record adjacent: printed
	// sheets for the same SKU stay contiguous for manual sorting.
	for _, rec := range records {
		block := labelBlock{Label: a.formatter.Format(rec, opts)}
		if opts.IncludeBarcode && rec.Barcode != "" {
			if img, ok := images[rec.Barcode]; ok && img != nil {
				block.BarcodeImage = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img))
			} else {
				block.RenderFailed = true
			}
		}
		for n := 0; n < opts.Copies; n++ {
			data.Blocks = append(data.Blocks, block)
		}
	}

	var buf strings.Builder
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return nil, &HostError{Op: "assemble document", Cause: err}
	}

	return &PrintableDocument{
		HTML:           []byte(buf.String()),
		TotalLabels:    len(records) * opts.Copies,
		Format:         opts.Format,
		RenderFailures: failures,
	}, nil
}

// renderBarcodes rasterizes each distinct barcode value once on the worker
// pool and joins on completion. The WaitGroup is the barrier the print
// trigger depends on; a fixed delay is never an acceptable substitute.
func (a *Assembler) renderBarcodes(ctx context.Context, records []LabelRecord, opts LabelOptions, phase func(PrintState)) (map[string][]byte, []RenderFailure, error) {
	if phase != nil {
		phase(StateRendering)
	}
	if !opts.IncludeBarcode {
		return nil, nil, nil
	}

	type renderResult struct {
		png []byte
		err error
	}
	results := make(map[string]*renderResult)
	for _, rec := range records {
		if rec.Barcode != "" {
			results[rec.Barcode] = &renderResult{}
		}
	}

	var wg sync.WaitGroup
	for value, slot := range results {
		value, slot := value, slot
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				slot.err = ctx.Err()
				return
			}
			slot.png, slot.err = a.renderer.Render(value, ResolveSymbology(value))
		}
		if err := a.pool.Submit(task); err != nil {
			// Pool saturated or released: render inline rather than drop.
			task()
		}
	}

	if phase != nil {
		phase(StateAwaitingRenderCompletion)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		// The caller went away mid-render; abandon without emitting.
		return nil, nil, errors.Wrap(err, "render cancelled")
	}

	images := make(map[string][]byte, len(results))
	var failures []RenderFailure
	for value, slot := range results {
		if slot.err != nil {
			zap.L().Warn("barcode render failed",
				zap.String("barcode", value),
				zap.Error(slot.err))
			failures = append(failures, RenderFailure{Barcode: value, Reason: slot.err.Error()})
			continue
		}
		images[value] = slot.png
	}
	return images, failures, nil
}

type labelBlock struct {
	Label        FormattedLabel
	BarcodeImage template.URL
	RenderFailed bool
}

type documentData struct {
	WidthMM  int
	HeightMM int
	Compact  bool
	Blocks   []labelBlock
}

// The single document template shared by every print call site. Sizes are
// physical millimetres throughout; each label block breaks the page so one
// label never spans two stickers.
var documentTemplate = template.Must(template.New("labels").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Labels</title>
<style>
  @page { size: {{.WidthMM}}mm {{.HeightMM}}mm; margin: 0; }
  html, body { margin: 0; padding: 0; }
  .label {
    width: {{.WidthMM}}mm;
    height: {{.HeightMM}}mm;
    box-sizing: border-box;
    padding: 1.5mm 2mm;
    overflow: hidden;
    page-break-after: always;
    font-family: Arial, Helvetica, sans-serif;
    text-align: center;
  }
  .company { font-size: 2.4mm; letter-spacing: 0.3mm; }
  .name { font-size: {{if .Compact}}2.8mm{{else}}3.2mm{{end}}; font-weight: bold; margin-top: 0.5mm; }
  .specs, .serial, .category { font-size: 2.4mm; margin-top: 0.5mm; }
  .price { font-size: {{if .Compact}}3.6mm{{else}}4.4mm{{end}}; font-weight: bold; margin-top: 0.8mm; }
  .barcode { margin-top: 1mm; }
  .barcode img { width: 52mm; height: 12mm; }
  .barcode-value { font-size: 2.2mm; letter-spacing: 0.4mm; margin-top: 0.3mm; }
  .barcode-error {
    width: 52mm; height: 12mm; margin: 1mm auto 0;
    border: 0.3mm dashed #000; line-height: 12mm; font-size: 2.6mm;
  }
</style>
</head>
<body>
{{- range .Blocks}}
<div class="label">
  {{- if .Label.Company}}
  <div class="company">{{.Label.Company}}</div>
  {{- end}}
  <div class="name">{{.Label.Name}}</div>
  {{- if .Label.SpecLine}}
  <div class="specs">{{.Label.SpecLine}}</div>
  {{- end}}
  {{- if .Label.Serial}}
  <div class="serial">{{.Label.Serial}}</div>
  {{- end}}
  {{- if .Label.Category}}
  <div class="category">{{.Label.Category}}</div>
  {{- end}}
  {{- if .Label.Price}}
  <div class="price">{{.Label.Price}}</div>
  {{- end}}
  {{- if .BarcodeImage}}
  <div class="barcode"><img src="{{.BarcodeImage}}" alt=""></div>
  <div class="barcode-value">{{.Label.Barcode}}</div>
  {{- else if .RenderFailed}}
  <div class="barcode-error">BARCODE ERROR</div>
  <div class="barcode-value">{{.Label.Barcode}}</div>
  {{- end}}
</div>
{{- end}}
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`))
