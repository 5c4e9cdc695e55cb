// Package assistant is the rules-based conversation engine: keyword intent
// detection, sentiment tagging and templated replies against the live
// catalog. There is no language model behind it and there should not be —
// responses stay deterministic and auditable.
package assistant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chidihq/chidi/app/models"
)

const (
	IntentAvailability = "availability"
	IntentPriceCheck   = "price_check"
	IntentDelivery     = "delivery"
	IntentReturnPolicy = "return_policy"
	IntentOrderStatus  = "order_status"
	IntentGeneral      = "general"

	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentAngry    = "angry"
	SentimentUrgent   = "urgent"

	CategorySpam      = "spam"
	CategoryInquiry   = "inquiry"
	CategoryComplaint = "complaint"
	CategoryOrder     = "order"
	CategoryPriority  = "priority"
)

// Intent is the detected purpose of a customer message plus any entities
// pulled out of it.
type Intent struct {
	Type        string  `json:"type"`
	Confidence  float64 `json:"confidence"`
	ProductName string  `json:"product_name,omitempty"`
	Location    string  `json:"location,omitempty"`
	OrderNumber string  `json:"order_number,omitempty"`
}

// Classification routes a message to the right queue.
type Classification struct {
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	RequiresHuman bool   `json:"requires_human"`
}

// Reply is the assistant's generated answer.
type Reply struct {
	Message          string   `json:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
	RequiresReview   bool     `json:"requires_review"`
}

var (
	angryPattern    = regexp.MustCompile(`angry|upset|stupid|idiot|useless|hate|worst|scam`)
	urgentPattern   = regexp.MustCompile(`urgent|asap|now|emergency|fast|quick`)
	positivePattern = regexp.MustCompile(`love|great|amazing|thanks|thank you|good|best|happy`)
	negativePattern = regexp.MustCompile(`bad|slow|wrong|broken|missing|late|disappointed`)
	spamPattern     = regexp.MustCompile(`winner|lottery|prize|click here|subscribe|promo code|investment`)
	orderPattern    = regexp.MustCompile(`order|buy|purchase|price|cost|how much|stock|available`)
	problemPattern  = regexp.MustCompile(`issue|problem|error|fail|didn't get`)
	orderNumPattern = regexp.MustCompile(`(?i)ORD-\d+`)
)

var deliveryCities = []string{
	"lagos", "abuja", "port harcourt", "kano", "ibadan", "enugu", "kaduna", "owerri",
}

// AnalyzeMessage detects the intent of a customer message.
func AnalyzeMessage(message string, products []models.Product) Intent {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, "do you have", "available", "in stock"):
		return Intent{
			Type:        IntentAvailability,
			Confidence:  0.9,
			ProductName: matchProductName(lower, products),
		}
	case containsAny(lower, "how much", "price", "cost"):
		return Intent{
			Type:        IntentPriceCheck,
			Confidence:  0.85,
			ProductName: matchProductName(lower, products),
		}
	case containsAny(lower, "delivery", "shipping", "deliver to"):
		return Intent{
			Type:       IntentDelivery,
			Confidence: 0.9,
			Location:   matchCity(lower),
		}
	case containsAny(lower, "return", "refund", "exchange"):
		return Intent{
			Type:       IntentReturnPolicy,
			Confidence: 0.95,
		}
	case containsAny(lower, "order", "my purchase", "tracking"):
		return Intent{
			Type:        IntentOrderStatus,
			Confidence:  0.8,
			OrderNumber: strings.ToUpper(orderNumPattern.FindString(message)),
		}
	}

	return Intent{Type: IntentGeneral, Confidence: 0.5}
}

// AnalyzeSentiment tags the emotional tone of a message.
func AnalyzeSentiment(message string) string {
	lower := strings.ToLower(message)

	switch {
	case angryPattern.MatchString(lower):
		return SentimentAngry
	case urgentPattern.MatchString(lower):
		return SentimentUrgent
	case positivePattern.MatchString(lower):
		return SentimentPositive
	case negativePattern.MatchString(lower):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ClassifyMessage routes a message based on content and sentiment.
func ClassifyMessage(message, sentiment string) Classification {
	lower := strings.ToLower(message)

	switch {
	case spamPattern.MatchString(lower):
		return Classification{Category: CategorySpam, Priority: "low"}
	case sentiment == SentimentAngry || sentiment == SentimentUrgent ||
		strings.Contains(lower, "refund") || strings.Contains(lower, "complaint"):
		return Classification{Category: CategoryPriority, Priority: "high", RequiresHuman: true}
	case orderPattern.MatchString(lower):
		return Classification{Category: CategoryOrder, Priority: "medium"}
	case sentiment == SentimentNegative || problemPattern.MatchString(lower):
		return Classification{Category: CategoryComplaint, Priority: "high", RequiresHuman: true}
	default:
		return Classification{Category: CategoryInquiry, Priority: "medium"}
	}
}

// GenerateReply builds the templated answer for an intent.
func GenerateReply(intent Intent, products []models.Product, businessName string) Reply {
	switch intent.Type {
	case IntentAvailability:
		if product := findProduct(intent.ProductName, products); product != nil {
			if product.Stock > 0 {
				return Reply{
					Message: fmt.Sprintf(
						"Yes! We have %s in stock. We currently have %d units available at ₦%.0f. Would you like to place an order?",
						product.Name, product.Stock, product.Price),
					SuggestedActions: []string{"create_order", "view_product"},
				}
			}
			return Reply{
				Message: fmt.Sprintf(
					"I'm sorry, %s is currently out of stock. We're expecting new inventory soon. Would you like me to notify you when it's back?",
					product.Name),
				SuggestedActions: []string{"set_notification"},
			}
		}
		return Reply{
			Message: "I'd be happy to help you check our inventory! Could you please tell me which specific product you're looking for?",
		}

	case IntentPriceCheck:
		if product := findProduct(intent.ProductName, products); product != nil {
			availability := "It's currently in stock!"
			actions := []string{"create_order"}
			if product.Stock <= 0 {
				availability = "Unfortunately it's out of stock right now."
				actions = nil
			}
			return Reply{
				Message: fmt.Sprintf("%s is priced at ₦%.0f. %s",
					product.Name, product.Price, availability),
				SuggestedActions: actions,
			}
		}
		return Reply{
			Message: "I'd be happy to help you with pricing! Which product are you interested in?",
		}

	case IntentDelivery:
		location := intent.Location
		if location == "" {
			location = "your location"
		}
		return Reply{
			Message: fmt.Sprintf(
				"We deliver to %s! Delivery within Lagos takes 1-2 business days (₦2,000). Outside Lagos takes 2-3 business days (₦3,500). Orders above ₦50,000 get free delivery!",
				location),
			SuggestedActions: []string{"create_order"},
		}

	case IntentReturnPolicy:
		return Reply{
			Message: "We offer a 7-day return policy for all items in original condition with receipt. Electronics come with a 14-day return window. Returns are hassle-free - just contact us and we'll arrange pickup.",
		}

	case IntentOrderStatus:
		if intent.OrderNumber != "" {
			return Reply{
				Message: fmt.Sprintf("Let me check the status of order %s for you. One moment please...",
					intent.OrderNumber),
				SuggestedActions: []string{"view_order"},
				RequiresReview:   true,
			}
		}
		return Reply{
			Message: `I'd be happy to check your order status! Could you please provide your order number? It starts with "ORD-"`,
		}
	}

	if businessName == "" {
		businessName = "us"
	}
	return Reply{
		Message: fmt.Sprintf(
			"Thank you for reaching out to %s! I'm CHIDI, your assistant. I can help you with product inquiries, orders, delivery information, and more. How can I assist you today?",
			businessName),
	}
}

func containsAny(lower string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// findProduct matches loosely in both directions so "red dress" finds the
// product "Dress" and "dress" finds "Red Summer Dress".
func findProduct(query string, products []models.Product) *models.Product {
	if query == "" {
		return nil
	}
	lower := strings.ToLower(query)
	for i := range products {
		if strings.Contains(strings.ToLower(products[i].Name), lower) {
			return &products[i]
		}
	}
	for i := range products {
		if strings.Contains(lower, strings.ToLower(products[i].Name)) {
			return &products[i]
		}
	}
	return nil
}

// matchProductName finds a catalog product mentioned in the message.
func matchProductName(lower string, products []models.Product) string {
	for _, product := range products {
		if strings.Contains(lower, strings.ToLower(product.Name)) {
			return product.Name
		}
	}
	// Fall back to single words that look like product references.
	for _, product := range products {
		for _, word := range strings.Fields(strings.ToLower(product.Name)) {
			if len(word) > 3 && strings.Contains(lower, word) {
				return product.Name
			}
		}
	}
	return ""
}

func matchCity(lower string) string {
	for _, city := range deliveryCities {
		if strings.Contains(lower, city) {
			return strings.ToUpper(city[:1]) + city[1:]
		}
	}
	return ""
}
