package labeling

import "fmt"

// The pipeline distinguishes four failure classes. Validation and host
// errors abort the invocation; data-integrity and render errors are
// collected per label so the rest of the batch still prints.

// ValidationError reports bad caller input (options, empty selection).
// It is raised before any side effect and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// DataIntegrityError reports a product or unit that cannot yield a valid
// label (missing brand/model, missing barcode). The offending record is
// skipped; the batch continues.
type DataIntegrityError struct {
	ProductID int64
	Serial    string
	Reason    string
}

func (e *DataIntegrityError) Error() string {
	if e.Serial != "" {
		return fmt.Sprintf("product %d unit %s: %s", e.ProductID, e.Serial, e.Reason)
	}
	return fmt.Sprintf("product %d: %s", e.ProductID, e.Reason)
}

// RenderError reports a barcode that the selected symbology cannot encode.
// The affected label gets a visible error placeholder instead of a blank.
type RenderError struct {
	Barcode   string
	Symbology Symbology
	Cause     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s as %s: %v", e.Barcode, e.Symbology, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// HostError reports a failure of the surrounding host facility (document
// delivery, store unavailable after retries). Fatal for the invocation.
type HostError struct {
	Op    string
	Hint  string
	Cause error
}

func (e *HostError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Cause, e.Hint)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *HostError) Unwrap() error { return e.Cause }

// SkipReason is the caller-visible account of one skipped product/unit.
type SkipReason struct {
	ProductID int64  `json:"product_id,string"`
	Serial    string `json:"serial,omitempty"`
	Reason    string `json:"reason"`
}
