package labeling

import "regexp"

// Symbology is a barcode encoding scheme.
type Symbology string

const (
	SymbologyEAN13   Symbology = "ean13"
	SymbologyCode128 Symbology = "code128"
)

var ean13Pattern = regexp.MustCompile(`^[0-9]{13}$`)

// ResolveSymbology selects the symbology for a raw barcode value: EAN-13
// for exactly 13 ASCII digits, CODE128 for everything else. This is the
// single format-detection rule in the codebase; preview and print both go
// through it. Do not reimplement this check inline anywhere.
func ResolveSymbology(value string) Symbology {
	if ean13Pattern.MatchString(value) {
		return SymbologyEAN13
	}
	return SymbologyCode128
}
