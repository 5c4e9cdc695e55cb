package repository

import (
	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
)

// conversationRepository implements the ConversationRepository interface
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository instance
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Create creates a new conversation in the database
func (r *conversationRepository) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

// GetByID retrieves a conversation with its messages
func (r *conversationRepository) GetByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("Messages").Preload("Customer").First(&conversation, id).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetByPublicID retrieves a conversation by its public UUID
func (r *conversationRepository) GetByPublicID(publicID string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("Messages").Preload("Customer").
		Where("public_id = ?", publicID).First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetByCustomerID retrieves all conversations with a customer
func (r *conversationRepository) GetByCustomerID(customerID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("Messages").Where("customer_id = ?", customerID).
		Order("updated_at DESC").Find(&conversations).Error
	return conversations, err
}

// GetAll retrieves all conversations, most recently active first
func (r *conversationRepository) GetAll() ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("Messages").Preload("Customer").
		Order("updated_at DESC").Find(&conversations).Error
	return conversations, err
}

// AppendMessage adds a message to an existing conversation
func (r *conversationRepository) AppendMessage(conversationID uint, message *models.Message) error {
	message.ConversationID = conversationID
	if err := r.db.Create(message).Error; err != nil {
		return err
	}
	// Touch the conversation so ordering by activity stays correct.
	return r.db.Model(&models.Conversation{}).Where("id = ?", conversationID).
		Update("updated_at", message.CreatedAt).Error
}

// Count returns the total number of conversations
func (r *conversationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Conversation{}).Count(&count).Error
	return count, err
}
