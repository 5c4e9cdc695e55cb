package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MessageSenderCustomer  = "customer"
	MessageSenderAssistant = "assistant"
	MessageSenderOwner     = "owner"
)

// Conversation is one message thread with a customer.
type Conversation struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	PublicID   string         `gorm:"uniqueIndex;type:varchar(36)" json:"public_id"`
	CustomerID uint           `gorm:"index;not null" json:"customer_id"`
	Customer   Customer       `gorm:"foreignKey:CustomerID" json:"customer"`
	Channel    string         `gorm:"type:varchar(30);default:'chat'" json:"channel"`
	Messages   []Message      `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Message is a single message inside a conversation. Assistant replies carry
// the detected intent and whether a human should review them.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversation_id"`
	Sender         string    `gorm:"type:varchar(20);not null" json:"sender"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	Intent         string    `gorm:"type:varchar(40)" json:"intent"`
	Sentiment      string    `gorm:"type:varchar(20)" json:"sentiment"`
	RequiresReview bool      `gorm:"default:false" json:"requires_review"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// BeforeCreate assigns the public UUID used in API responses.
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.PublicID == "" {
		c.PublicID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Conversation model
func (Conversation) TableName() string {
	return "conversations"
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
