package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"

	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order is the aggregate the payment reconciler mutates. Webhook events are
// correlated to it via OrderNumber (the business reference) or the numeric ID.
type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderNumber   string         `gorm:"uniqueIndex;type:varchar(50);not null" json:"order_number"`
	CustomerID    uint           `gorm:"index" json:"customer_id"`
	Customer      Customer       `gorm:"foreignKey:CustomerID" json:"customer" validate:"-"`
	Items         []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64        `gorm:"type:decimal(12,2);not null" json:"total_amount" validate:"gte=0"`
	Status        string         `gorm:"type:varchar(20);default:'pending';index" json:"status" validate:"oneof=pending confirmed shipped delivered cancelled"`
	PaymentStatus string         `gorm:"type:varchar(30);default:'unpaid';index" json:"payment_status"`
	PaymentRef    string         `gorm:"type:varchar(100);index" json:"payment_ref"`
	PaymentLink   string         `gorm:"type:varchar(255)" json:"payment_link"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem is one product line inside an order.
type OrderItem struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	OrderID           uint      `gorm:"index;not null" json:"order_id"`
	ProductID         uint      `gorm:"index" json:"product_id"`
	ProductName       string    `gorm:"type:varchar(150)" json:"product_name"`
	Quantity          int       `gorm:"not null;default:1" json:"quantity" validate:"gte=1"`
	Price             float64   `gorm:"type:decimal(12,2);not null" json:"price" validate:"gte=0"`
	VariantSelections string    `gorm:"type:text" json:"variant_selections"` // JSON-encoded {variant: option}
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (o *Order) Validate() error {
	v := validator.New()

	return v.Struct(o)
}

// MatchesReference reports whether a payment reference from a webhook event
// belongs to this order. Comparison is string-normalized because providers
// echo merchant metadata back with numeric ids turned into JSON numbers.
func (o *Order) MatchesReference(ref string) bool {
	if ref == "" {
		return false
	}
	return o.OrderNumber == ref || strconv.FormatUint(uint64(o.ID), 10) == ref
}

// FormatOrderNumber builds the business reference from the numeric sequence,
// e.g. 1234 -> "ORD-001234".
func FormatOrderNumber(seq uint) string {
	return fmt.Sprintf("ORD-%06d", seq)
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
