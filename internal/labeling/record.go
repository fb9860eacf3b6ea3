package labeling

// Label format templates and their physical dimensions.
const (
	FormatStandard = "standard" // 60 x 50 mm
	FormatCompact  = "compact"  // 60 x 30 mm
)

// Copies bounds accepted for a single print job.
const (
	MinCopies = 1
	MaxCopies = 50
)

// DefaultBulkLabelCap bounds how many labels a bulk (unserialized) product
// can emit in one job regardless of its stock count. Policy constant, kept
// configurable through system settings (labels.BulkLabelCap).
const DefaultBulkLabelCap = 10

// LabelRecord is the resolved, print-ready description of one physical
// sticker before copy expansion. Records are transient: built per print
// request, never persisted.
type LabelRecord struct {
	ProductID    int64
	ProductName  string // "Brand Model", color annotations stripped
	SerialNumber string
	Barcode      string // required, non-empty
	Price        float64
	Category     string
	Color        string
	Storage      *int // GB
	Ram          *int // GB
	BatteryLevel *int // 0-100
}

// LabelOptions is the user-selected configuration for one print job.
// Copies outside [1,50] and unknown formats are validation errors, not
// silently clamped.
type LabelOptions struct {
	Copies           int    `json:"copies" validate:"required,min=1,max=50"`
	IncludePrice     bool   `json:"include_price"`
	IncludeBarcode   bool   `json:"include_barcode"`
	IncludeCompany   bool   `json:"include_company"`
	IncludeCategory  bool   `json:"include_category"`
	Format           string `json:"format" validate:"required,oneof=standard compact"`
	UseMasterBarcode bool   `json:"use_master_barcode"`
}

// DefaultLabelOptions returns the options preselected by the print dialog.
func DefaultLabelOptions() LabelOptions {
	return LabelOptions{
		Copies:         1,
		IncludePrice:   true,
		IncludeBarcode: true,
		IncludeCompany: true,
		Format:         FormatStandard,
	}
}

// PrintJobResult is the outcome handed back to the UI shell.
type PrintJobResult struct {
	JobID       int64        `json:"job_id,string"`
	Success     bool         `json:"success"`
	Operator    string       `json:"operator,omitempty"`
	Message     string       `json:"message"`
	TotalLabels int          `json:"total_labels"`
	Copies      int          `json:"copies"`
	Format      string       `json:"format"`
	Skipped     []SkipReason `json:"skipped,omitempty"`
}
