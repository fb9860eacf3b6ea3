package domain

import "time"

// Unit status values. A sold unit stays in the table for traceability but
// is excluded from stock counts and label printing.
const (
	UnitStatusAvailable = "available"
	UnitStatusSold      = "sold"
	UnitStatusDamaged   = "damaged"
)

// Product is the long-lived catalog aggregate. Serialized stock hangs off
// it as ProductUnit children; bulk stock is tracked by the Stock counter.
type Product struct {
	ID             int64     `json:"id,string" form:"id"`
	Brand          string    `gorm:"index" json:"brand" form:"brand"`
	Model          string    `gorm:"index" json:"model" form:"model"`
	Year           *int      `json:"year,omitempty" form:"year"`
	Category       string    `gorm:"size:64" json:"category" form:"category"`
	Price          float64   `json:"price" form:"price"`
	MinPrice       *float64  `json:"min_price,omitempty" form:"min_price"`
	MaxPrice       *float64  `json:"max_price,omitempty" form:"max_price"`
	Stock          *int      `json:"stock,omitempty" form:"stock"`
	Barcode        string    `gorm:"size:64;index" json:"barcode" form:"barcode"`
	DefaultStorage *int      `json:"default_storage,omitempty" form:"default_storage"` // GB
	DefaultRam     *int      `json:"default_ram,omitempty" form:"default_ram"`         // GB
	Remark         string    `json:"remark" form:"remark"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "pos_product"
}

// ProductUnit is a single serialized physical instance of a Product.
// Its barcode, once assigned, is never regenerated: losing barcode
// traceability breaks point-of-sale scanning.
type ProductUnit struct {
	ID           int64     `json:"id,string" form:"id"`
	ProductID    int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	SerialNumber string    `gorm:"size:128;index" json:"serial_number" form:"serial_number"`
	Price        *float64  `json:"price,omitempty" form:"price"`
	MinPrice     *float64  `json:"min_price,omitempty" form:"min_price"`
	MaxPrice     *float64  `json:"max_price,omitempty" form:"max_price"`
	Color        string    `gorm:"size:64" json:"color" form:"color"`
	Storage      *int      `json:"storage,omitempty" form:"storage"`             // GB
	Ram          *int      `json:"ram,omitempty" form:"ram"`                     // GB
	BatteryLevel *int      `json:"battery_level,omitempty" form:"battery_level"` // 0-100
	Barcode      string    `gorm:"size:64;index" json:"barcode" form:"barcode"`
	Status       string    `gorm:"size:16;index" json:"status" form:"status"` // available | sold | damaged
	Remark       string    `json:"remark" form:"remark"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName Specify table name
func (ProductUnit) TableName() string {
	return "pos_product_unit"
}
