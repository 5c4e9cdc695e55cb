package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
)

// ProductRepository defines the interface for catalog database operations
type ProductRepository interface {
	Create(product *models.Product) error
	CreateBatch(products []models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetAll() ([]models.Product, error)
	GetByCategory(category string) ([]models.Product, error)
	GetLowStock() ([]models.Product, error)
	Search(query string) ([]models.Product, error)
	Update(product *models.Product) error
	AdjustStock(id uint, delta int) error
	Delete(id uint) error
	Count() (int64, error)
}

// OrderRepository defines the interface for order-related database operations
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetByCustomerID(customerID uint) ([]models.Order, error)
	GetByStatus(status string) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	Update(order *models.Order) error
	UpdateStatus(id uint, status string) error
	UpdatePaymentStatus(id uint, paymentStatus string) error
	NextOrderNumber() (string, error)
	Count() (int64, error)
}

// CustomerRepository defines the interface for customer database operations
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id uint) (*models.Customer, error)
	GetByPublicID(publicID string) (*models.Customer, error)
	GetByPhone(phone string) (*models.Customer, error)
	GetAll() ([]models.Customer, error)
	GetInactiveSince(cutoff time.Time) ([]models.Customer, error)
	Update(customer *models.Customer) error
	Delete(id uint) error
	Count() (int64, error)
}

// ConversationRepository defines the interface for conversation operations
type ConversationRepository interface {
	Create(conversation *models.Conversation) error
	GetByID(id uint) (*models.Conversation, error)
	GetByPublicID(publicID string) (*models.Conversation, error)
	GetByCustomerID(customerID uint) ([]models.Conversation, error)
	GetAll() ([]models.Conversation, error)
	AppendMessage(conversationID uint, message *models.Message) error
	Count() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Product      ProductRepository
	Order        OrderRepository
	Customer     CustomerRepository
	Conversation ConversationRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:      NewProductRepository(db),
		Order:        NewOrderRepository(db),
		Customer:     NewCustomerRepository(db),
		Conversation: NewConversationRepository(db),
	}
}
