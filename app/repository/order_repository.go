package repository

import (
	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create creates a new order in the database
func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// GetByID retrieves an order by its ID
func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Customer").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNumber retrieves an order by its business reference
func (r *orderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Customer").
		Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByCustomerID retrieves all orders placed by a customer
func (r *orderRepository) GetByCustomerID(customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// GetByStatus retrieves all orders with a given fulfillment status
func (r *orderRepository) GetByStatus(status string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("status = ?", status).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// GetAll retrieves all orders, newest first
func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Preload("Customer").
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// Update updates an existing order in the database
func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

// UpdateStatus updates only the fulfillment status of an order
func (r *orderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

// UpdatePaymentStatus updates only the payment status of an order. The
// reconciler uses this so that repeated passes stay idempotent: a pure
// column overwrite, no history accumulation.
func (r *orderRepository) UpdatePaymentStatus(id uint, paymentStatus string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("payment_status", paymentStatus).Error
}

// NextOrderNumber builds the next business reference from the row count.
func (r *orderRepository) NextOrderNumber() (string, error) {
	var count int64
	if err := r.db.Unscoped().Model(&models.Order{}).Count(&count).Error; err != nil {
		return "", err
	}
	return models.FormatOrderNumber(uint(count) + 1), nil
}

// Count returns the total number of orders
func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}
