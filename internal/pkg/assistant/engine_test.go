package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chidihq/chidi/app/models"
)

func testCatalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Red Summer Dress", Price: 15000, Stock: 8},
		{ID: 2, Name: "Leather Handbag", Price: 45000, Stock: 0},
		{ID: 3, Name: "Sneakers", Price: 25000, Stock: 2},
	}
}

func TestAnalyzeMessage_Intents(t *testing.T) {
	products := testCatalog()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "availability", message: "Do you have the red summer dress in stock?", want: IntentAvailability},
		{name: "price check", message: "How much is the leather handbag?", want: IntentPriceCheck},
		{name: "delivery", message: "Can you deliver to Lagos?", want: IntentDelivery},
		{name: "returns", message: "What is your refund policy?", want: IntentReturnPolicy},
		{name: "order status", message: "Where is my order ORD-000042?", want: IntentOrderStatus},
		{name: "general", message: "Nice weather today", want: IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := AnalyzeMessage(tt.message, products)
			assert.Equal(t, tt.want, intent.Type)
		})
	}
}

func TestAnalyzeMessage_ExtractsEntities(t *testing.T) {
	products := testCatalog()

	intent := AnalyzeMessage("Do you have the Red Summer Dress available?", products)
	assert.Equal(t, "Red Summer Dress", intent.ProductName)

	intent = AnalyzeMessage("Do you deliver to lagos?", products)
	assert.Equal(t, "Lagos", intent.Location)

	intent = AnalyzeMessage("please check my order ord-000042", products)
	assert.Equal(t, "ORD-000042", intent.OrderNumber)
}

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{message: "This is the worst scam ever, I hate it", want: SentimentAngry},
		{message: "I need this urgent, asap please", want: SentimentUrgent},
		{message: "I love this shop, great service", want: SentimentPositive},
		{message: "The delivery was slow and the item is broken", want: SentimentNegative},
		{message: "Is the blue shirt in size M?", want: SentimentNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AnalyzeSentiment(tt.message), "message: %s", tt.message)
	}
}

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name          string
		message       string
		sentiment     string
		wantCategory  string
		requiresHuman bool
	}{
		{
			name: "spam", message: "You are a winner! Click here for your prize",
			sentiment: SentimentNeutral, wantCategory: CategorySpam,
		},
		{
			name: "angry escalates", message: "My package never arrived",
			sentiment: SentimentAngry, wantCategory: CategoryPriority, requiresHuman: true,
		},
		{
			name: "refund escalates", message: "I want a refund",
			sentiment: SentimentNeutral, wantCategory: CategoryPriority, requiresHuman: true,
		},
		{
			name: "order inquiry", message: "I want to buy the sneakers, how much?",
			sentiment: SentimentNeutral, wantCategory: CategoryOrder,
		},
		{
			name: "complaint", message: "There is an issue with my delivery",
			sentiment: SentimentNegative, wantCategory: CategoryComplaint, requiresHuman: true,
		},
		{
			name: "plain inquiry", message: "What colors do you carry?",
			sentiment: SentimentNeutral, wantCategory: CategoryInquiry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyMessage(tt.message, tt.sentiment)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.requiresHuman, got.RequiresHuman)
		})
	}
}

func TestGenerateReply_Availability(t *testing.T) {
	products := testCatalog()

	reply := GenerateReply(Intent{Type: IntentAvailability, ProductName: "Red Summer Dress"}, products, "")
	assert.Contains(t, reply.Message, "Red Summer Dress")
	assert.Contains(t, reply.Message, "8 units")
	assert.Contains(t, reply.SuggestedActions, "create_order")

	reply = GenerateReply(Intent{Type: IntentAvailability, ProductName: "Leather Handbag"}, products, "")
	assert.Contains(t, reply.Message, "out of stock")
	assert.Contains(t, reply.SuggestedActions, "set_notification")

	reply = GenerateReply(Intent{Type: IntentAvailability}, products, "")
	assert.Contains(t, reply.Message, "which specific product")
}

func TestGenerateReply_PriceCheck(t *testing.T) {
	products := testCatalog()

	reply := GenerateReply(Intent{Type: IntentPriceCheck, ProductName: "Sneakers"}, products, "")
	assert.Contains(t, reply.Message, "25000")
	assert.Contains(t, reply.Message, "in stock")

	reply = GenerateReply(Intent{Type: IntentPriceCheck, ProductName: "Leather Handbag"}, products, "")
	assert.Contains(t, reply.Message, "out of stock")
	assert.Empty(t, reply.SuggestedActions)
}

func TestGenerateReply_OrderStatus(t *testing.T) {
	reply := GenerateReply(Intent{Type: IntentOrderStatus, OrderNumber: "ORD-000042"}, nil, "")
	assert.Contains(t, reply.Message, "ORD-000042")
	assert.True(t, reply.RequiresReview)

	reply = GenerateReply(Intent{Type: IntentOrderStatus}, nil, "")
	assert.Contains(t, reply.Message, "order number")
	assert.False(t, reply.RequiresReview)
}

func TestGenerateReply_GeneralUsesBusinessName(t *testing.T) {
	reply := GenerateReply(Intent{Type: IntentGeneral}, nil, "Ada's Boutique")
	assert.Contains(t, reply.Message, "Ada's Boutique")

	reply = GenerateReply(Intent{Type: IntentGeneral}, nil, "")
	assert.True(t, strings.Contains(reply.Message, "reaching out"))
}

func TestMatchAutoResponse(t *testing.T) {
	reply, ok := MatchAutoResponse("Hello there")
	assert.True(t, ok)
	assert.Contains(t, reply, "Hello")

	reply, ok = MatchAutoResponse("thanks a lot")
	assert.True(t, ok)
	assert.Contains(t, reply, "welcome")

	_, ok = MatchAutoResponse("Do you have shoes?")
	assert.False(t, ok)
}

func TestFindProduct_BidirectionalMatch(t *testing.T) {
	products := testCatalog()

	assert.NotNil(t, findProduct("red summer dress", products))
	// Query longer than the product name still matches.
	assert.NotNil(t, findProduct("those nice sneakers you sell", products))
	assert.Nil(t, findProduct("winter coat", products))
	assert.Nil(t, findProduct("", products))
}
