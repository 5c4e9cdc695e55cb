package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
	"github.com/chidihq/chidi/app/repository"
	"github.com/chidihq/chidi/internal/pkg/assistant"
	"github.com/chidihq/chidi/internal/pkg/env"
)

var (
	conversationRepo      repository.ConversationRepository
	conversationCustRepo  repository.CustomerRepository
	conversationProdRepo  repository.ProductRepository
	conversationOrderRepo repository.OrderRepository
)

// InitializeConversationController wires the repositories the assistant needs.
func InitializeConversationController() {
	factory := repository.GetGlobalFactory()
	conversationRepo = factory.GetConversationRepository()
	conversationCustRepo = factory.GetCustomerRepository()
	conversationProdRepo = factory.GetProductRepository()
	conversationOrderRepo = factory.GetOrderRepository()
}

// StartConversationRequest opens a thread with the first customer message.
type StartConversationRequest struct {
	CustomerID uint   `json:"customer_id"`
	Channel    string `json:"channel"`
	Message    string `json:"message"`
}

// MessageRequest appends one customer message to an existing thread.
type MessageRequest struct {
	Message string `json:"message"`
}

// HandleListConversations returns all threads, optionally for one customer.
func HandleListConversations(c *fiber.Ctx) error {
	var (
		conversations []models.Conversation
		err           error
	)
	if customerID := c.QueryInt("customer_id", 0); customerID > 0 {
		conversations, err = conversationRepo.GetByCustomerID(uint(customerID))
	} else {
		conversations, err = conversationRepo.GetAll()
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "conversations": conversations})
}

// HandleGetConversation returns one thread with all messages.
func HandleGetConversation(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid conversation id")
	}
	conversation, err := conversationRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "conversation not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "conversation": conversation})
}

// HandleStartConversation opens a new thread and answers the first message.
func HandleStartConversation(c *fiber.Ctx) error {
	var req StartConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid conversation payload")
	}
	if req.Message == "" {
		return jsonError(c, fiber.StatusBadRequest, "message is required")
	}

	customer, err := conversationCustRepo.GetByID(req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "unknown customer")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	channel := req.Channel
	if channel == "" {
		channel = "chat"
	}
	conversation := models.Conversation{
		CustomerID: customer.ID,
		Channel:    channel,
	}
	if err := conversationRepo.Create(&conversation); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	reply, incoming, err := respondToMessage(conversation.ID, customer, req.Message)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":           true,
		"conversation": conversation,
		"message":      incoming,
		"reply":        reply,
	})
}

// HandleAppendMessage adds a customer message to a thread and replies.
func HandleAppendMessage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid conversation id")
	}
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid message payload")
	}
	if req.Message == "" {
		return jsonError(c, fiber.StatusBadRequest, "message is required")
	}

	conversation, err := conversationRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "conversation not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	customer, err := conversationCustRepo.GetByID(conversation.CustomerID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	reply, incoming, err := respondToMessage(conversation.ID, customer, req.Message)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"ok": true, "message": incoming, "reply": reply})
}

// respondToMessage records the customer message, runs the assistant and
// records its reply. Canned auto-responses skip intent analysis entirely.
func respondToMessage(conversationID uint, customer *models.Customer, text string) (*models.Message, *models.Message, error) {
	sentiment := assistant.AnalyzeSentiment(text)
	classification := assistant.ClassifyMessage(text, sentiment)

	incoming := &models.Message{
		ConversationID: conversationID,
		Sender:         models.MessageSenderCustomer,
		Body:           text,
		Sentiment:      sentiment,
		RequiresReview: classification.RequiresHuman,
	}

	var reply *models.Message
	if canned, ok := assistant.MatchAutoResponse(text); ok {
		reply = &models.Message{
			ConversationID: conversationID,
			Sender:         models.MessageSenderAssistant,
			Body:           canned,
		}
	} else {
		products, err := conversationProdRepo.GetAll()
		if err != nil {
			return nil, nil, err
		}
		intent := assistant.AnalyzeMessage(text, products)
		incoming.Intent = intent.Type

		generated := assistant.GenerateReply(intent, products, env.GetEnv("BUSINESS_NAME", ""))
		if intent.Type == assistant.IntentOrderStatus && intent.OrderNumber != "" {
			generated = resolveOrderStatus(intent.OrderNumber, generated)
		}
		reply = &models.Message{
			ConversationID: conversationID,
			Sender:         models.MessageSenderAssistant,
			Body:           generated.Message,
			Intent:         intent.Type,
			RequiresReview: generated.RequiresReview || classification.RequiresHuman,
		}
	}

	if err := conversationRepo.AppendMessage(conversationID, incoming); err != nil {
		return nil, nil, err
	}
	if err := conversationRepo.AppendMessage(conversationID, reply); err != nil {
		return nil, nil, err
	}

	customer.MessageCount++
	if err := conversationCustRepo.Update(customer); err != nil {
		log.Warnf("Message count update failed for customer %d: %v", customer.ID, err)
	}

	return reply, incoming, nil
}

// resolveOrderStatus replaces the generic status reply with the real order
// state when the mentioned order exists.
func resolveOrderStatus(orderNumber string, fallback assistant.Reply) assistant.Reply {
	order, err := conversationOrderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return fallback
	}
	return assistant.Reply{
		Message: "Your order " + order.OrderNumber + " is currently " + order.Status +
			" and the payment is " + order.PaymentStatus + ".",
		SuggestedActions: []string{"view_order"},
	}
}
