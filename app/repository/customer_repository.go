package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer in the database
func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

// GetByID retrieves a customer by its ID
func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByPublicID retrieves a customer by its public UUID
func (r *customerRepository) GetByPublicID(publicID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("public_id = ?", publicID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByPhone retrieves a customer by phone number
func (r *customerRepository) GetByPhone(phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("phone = ?", phone).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetAll retrieves all customers ordered by name
func (r *customerRepository) GetAll() ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Order("name ASC").Find(&customers).Error
	return customers, err
}

// GetInactiveSince retrieves customers whose last order predates the cutoff
func (r *customerRepository) GetInactiveSince(cutoff time.Time) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Where("last_order_at IS NOT NULL AND last_order_at < ?", cutoff).
		Order("last_order_at ASC").Find(&customers).Error
	return customers, err
}

// Update updates an existing customer in the database
func (r *customerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// Delete soft-deletes a customer
func (r *customerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Customer{}, id).Error
}

// Count returns the total number of customers
func (r *customerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).Count(&count).Error
	return count, err
}
