package labeling

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
)

// Physical rendering contract. 203 DPI thermal class printers resolve
// 8 dots per millimetre; the barcode zone occupies a fixed band of the
// label rather than the whole sticker.
const (
	dotsPerMM = 8

	barcodeZoneWidthMM  = 52
	barcodeZoneHeightMM = 12

	// quietZoneModules is the minimum clear margin on each side of the
	// bars, in module widths. Scanners need it to lock on.
	quietZoneModules = 4
)

// Renderer rasterizes barcode values into PNG images sized for the label's
// barcode zone. The human-readable text line is typeset by the document
// template directly beneath the image.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render encodes value in the given symbology and returns PNG bytes. An
// unencodable value returns a RenderError; callers substitute a visible
// placeholder so the document never ships a silently blank barcode area.
func (r *Renderer) Render(value string, sym Symbology) ([]byte, error) {
	encoded, err := encode(value, sym)
	if err != nil {
		return nil, &RenderError{Barcode: value, Symbology: sym, Cause: err}
	}

	zoneW := barcodeZoneWidthMM * dotsPerMM
	zoneH := barcodeZoneHeightMM * dotsPerMM

	modules := encoded.Bounds().Dx()
	modulePx := zoneW / (modules + 2*quietZoneModules)
	if modulePx < 1 {
		modulePx = 1
	}
	innerW := modulePx * modules

	scaled, err := barcode.Scale(encoded, innerW, zoneH)
	if err != nil {
		return nil, &RenderError{Barcode: value, Symbology: sym, Cause: err}
	}

	// Center the bars on a white canvas; the surrounding margin is the
	// quiet zone (>= quietZoneModules module widths per side).
	canvas := image.NewRGBA(image.Rect(0, 0, zoneW, zoneH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	offset := (zoneW - innerW) / 2
	draw.Draw(canvas, image.Rect(offset, 0, offset+innerW, zoneH), scaled, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, &RenderError{Barcode: value, Symbology: sym, Cause: err}
	}
	return buf.Bytes(), nil
}

func encode(value string, sym Symbology) (barcode.Barcode, error) {
	switch sym {
	case SymbologyEAN13:
		return ean.Encode(value)
	default:
		return code128.Encode(value)
	}
}
