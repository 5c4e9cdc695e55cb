package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CustomerSegmentNew     = "new"
	CustomerSegmentRegular = "regular"
	CustomerSegmentVIP     = "vip"
	CustomerSegmentDormant = "dormant"
)

// Customer is a buyer profile built up from conversations and orders.
type Customer struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	PublicID       string         `gorm:"uniqueIndex;type:varchar(36)" json:"public_id"`
	Name           string         `gorm:"type:varchar(150);index" json:"name" validate:"required,min=2,max=150"`
	Phone          string         `gorm:"type:varchar(30);index" json:"phone" validate:"required,max=30"`
	Email          string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email"`
	PreferredSize  string         `gorm:"type:varchar(10)" json:"preferred_size"`
	PreferredColor string         `gorm:"type:varchar(30)" json:"preferred_color"`
	Tags           string         `gorm:"type:text" json:"tags"` // JSON-encoded list
	MessageCount   int            `gorm:"default:0" json:"message_count"`
	TotalSpent     float64        `gorm:"type:decimal(14,2);default:0" json:"total_spent"`
	LastOrderAt    *time.Time     `gorm:"type:timestamp;default:null" json:"last_order_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// BeforeCreate assigns the public UUID used in API responses.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.PublicID == "" {
		c.PublicID = uuid.NewString()
	}
	return nil
}

// Segment classifies the customer using message volume, spend and recency.
// Thresholds: fewer than 3 messages = new, no order in 90 days = dormant,
// above 100k spent with more than 5 messages = vip.
func (c *Customer) Segment(now time.Time) string {
	if c.MessageCount < 3 {
		return CustomerSegmentNew
	}
	if c.LastOrderAt == nil || now.Sub(*c.LastOrderAt) > 90*24*time.Hour {
		return CustomerSegmentDormant
	}
	if c.TotalSpent > 100000 && c.MessageCount > 5 {
		return CustomerSegmentVIP
	}
	return CustomerSegmentRegular
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
