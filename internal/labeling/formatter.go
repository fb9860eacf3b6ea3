package labeling

import (
	"fmt"
	"strings"
)

const maxNameLength = 50

const specSeparator = " · "

// FormattedLabel is the exact set of strings and flags a label renders
// with. Preview and print both consume this type, produced by the same
// Formatter, so the two can never drift apart.
type FormattedLabel struct {
	Name     string `json:"name"`
	Serial   string `json:"serial,omitempty"`
	Price    string `json:"price,omitempty"`
	SpecLine string `json:"spec_line,omitempty"`
	Barcode  string `json:"barcode,omitempty"`
	Category string `json:"category,omitempty"`
	Company  string `json:"company,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Formatter normalizes label records into display strings. It is pure:
// identical (record, options) input yields byte-identical output. No
// clock, no randomness, no I/O.
type Formatter struct {
	// Company is the header printed when options request it.
	Company string
}

func NewFormatter(company string) *Formatter {
	return &Formatter{Company: company}
}

// Format produces the final display strings for one label.
func (f *Formatter) Format(rec LabelRecord, opts LabelOptions) FormattedLabel {
	out := FormattedLabel{
		Name:  formatName(rec.ProductName),
		Color: rec.Color,
	}
	if rec.SerialNumber != "" {
		out.Serial = "SN: " + rec.SerialNumber
	}
	if opts.IncludePrice {
		out.Price = fmt.Sprintf("€%.2f", rec.Price)
	}
	if opts.IncludeBarcode {
		out.Barcode = rec.Barcode
	}
	if opts.IncludeCategory {
		out.Category = rec.Category
	}
	if opts.IncludeCompany {
		out.Company = f.Company
	}
	out.SpecLine = formatSpecLine(rec)
	return out
}

// formatName uppercases, collapses runs of whitespace and caps the result
// at maxNameLength runes.
func formatName(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	upper := strings.ToUpper(collapsed)
	runes := []rune(upper)
	if len(runes) > maxNameLength {
		return string(runes[:maxNameLength])
	}
	return upper
}

// formatSpecLine joins storage, ram and battery into one line, omitting
// absent fields entirely. A missing value never prints as a zero.
func formatSpecLine(rec LabelRecord) string {
	var parts []string
	if rec.Storage != nil {
		parts = append(parts, fmt.Sprintf("%dgb", *rec.Storage))
	}
	if rec.Ram != nil {
		parts = append(parts, fmt.Sprintf("%dgb ram", *rec.Ram))
	}
	if rec.BatteryLevel != nil {
		parts = append(parts, fmt.Sprintf("%d%%", *rec.BatteryLevel))
	}
	return strings.Join(parts, specSeparator)
}
