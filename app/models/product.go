package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	StockStatusGood = "good"
	StockStatusLow  = "low"
	StockStatusOut  = "out"

	// LowStockThreshold marks products that need restocking soon.
	LowStockThreshold = 3
)

// Product represents one catalog item a business sells.
type Product struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"type:varchar(150);index" json:"name" validate:"required,min=2,max=150"`
	Price       float64          `gorm:"type:decimal(12,2);not null" json:"price" validate:"gte=0"`
	Stock       int              `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	Category    string           `gorm:"type:varchar(100);index" json:"category" validate:"max=100"`
	Description string           `gorm:"type:text" json:"description"`
	ViewCount   int              `gorm:"default:0" json:"view_count"`
	ImageURL    string           `gorm:"type:varchar(255)" json:"image_url" validate:"omitempty,max=255"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductVariant is one variant dimension of a product, e.g. "Size" with
// options S/M/L.
type ProductVariant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Name      string    `gorm:"type:varchar(100)" json:"name" validate:"required,max=100"`
	Options   string    `gorm:"type:text" json:"options"` // JSON-encoded list of option labels
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Product) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// StockStatus derives the display status from the current stock level.
func (p *Product) StockStatus() string {
	switch {
	case p.Stock <= 0:
		return StockStatusOut
	case p.Stock <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusGood
	}
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
