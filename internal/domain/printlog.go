package domain

import "time"

// PrintLog records the outcome of a label print job. Only the result is
// persisted; the generated document itself never is.
type PrintLog struct {
	ID          int64     `json:"id,string"`
	JobID       int64     `gorm:"index" json:"job_id,string"`
	OprName     string    `json:"opr_name"`
	TotalLabels int       `json:"total_labels"`
	Copies      int       `json:"copies"`
	Format      string    `gorm:"size:16" json:"format"`
	Status      string    `gorm:"size:16;index" json:"status"` // succeeded | failed
	Message     string    `json:"message"`
	SkipCount   int       `json:"skip_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName Specify table name
func (PrintLog) TableName() string {
	return "pos_print_log"
}
