package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
	"github.com/chidihq/chidi/app/repository"
	"github.com/chidihq/chidi/internal/pkg/paystack"
)

var (
	orderRepo         repository.OrderRepository
	orderCustomerRepo repository.CustomerRepository
	orderProductRepo  repository.ProductRepository
)

// InitializeOrderController wires the repositories the order flow needs.
func InitializeOrderController() {
	factory := repository.GetGlobalFactory()
	orderRepo = factory.GetOrderRepository()
	orderCustomerRepo = factory.GetCustomerRepository()
	orderProductRepo = factory.GetProductRepository()
}

// CreateOrderRequest is the order placement payload.
type CreateOrderRequest struct {
	CustomerID uint                     `json:"customer_id"`
	Items      []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest is one requested line item.
type CreateOrderItemRequest struct {
	ProductID         uint   `json:"product_id"`
	Quantity          int    `json:"quantity"`
	VariantSelections string `json:"variant_selections"`
}

// HandleListOrders returns all orders, optionally filtered by status.
func HandleListOrders(c *fiber.Ctx) error {
	var (
		orders []models.Order
		err    error
	)
	if status := c.Query("status"); status != "" {
		orders, err = orderRepo.GetByStatus(status)
	} else {
		orders, err = orderRepo.GetAll()
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "orders": orders})
}

// HandleGetOrder returns one order with items and customer.
func HandleGetOrder(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	order, err := orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "order": order})
}

// HandleCreateOrder places a new order: prices come from the catalog, stock
// is decremented per line, and the customer's purchase stats are updated.
func HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid order payload")
	}
	if len(req.Items) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "order needs at least one item")
	}

	customer, err := orderCustomerRepo.GetByID(req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusBadRequest, "unknown customer")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var (
		items []models.OrderItem
		total float64
	)
	for _, item := range req.Items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		product, err := orderProductRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jsonError(c, fiber.StatusBadRequest, "unknown product in order")
			}
			return jsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if product.Stock < item.Quantity {
			return jsonError(c, fiber.StatusConflict, "not enough stock for "+product.Name)
		}
		items = append(items, models.OrderItem{
			ProductID:         product.ID,
			ProductName:       product.Name,
			Quantity:          item.Quantity,
			Price:             product.Price,
			VariantSelections: item.VariantSelections,
		})
		total += product.Price * float64(item.Quantity)
	}

	orderNumber, err := orderRepo.NextOrderNumber()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	order := models.Order{
		OrderNumber:   orderNumber,
		CustomerID:    customer.ID,
		Items:         items,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	if err := orderRepo.Create(&order); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	for _, item := range items {
		if err := orderProductRepo.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			log.Warnf("Stock adjustment failed for product %d: %v", item.ProductID, err)
		}
	}

	now := time.Now()
	customer.TotalSpent += total
	customer.LastOrderAt = &now
	if err := orderCustomerRepo.Update(customer); err != nil {
		log.Warnf("Customer stats update failed for %d: %v", customer.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "order": order})
}

// UpdateOrderStatusRequest carries the new fulfillment status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus moves an order through the fulfillment states.
func HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid status payload")
	}
	switch req.Status {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		return jsonError(c, fiber.StatusBadRequest, "unknown order status")
	}
	if _, err := orderRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := orderRepo.UpdateStatus(id, req.Status); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "status": req.Status})
}

// HandleCreatePaymentLink issues a payment reference and a simulated
// checkout link for an unpaid order. The reference is what the provider's
// webhook events later carry back for reconciliation.
func HandleCreatePaymentLink(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	order, err := orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "order not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return jsonError(c, fiber.StatusConflict, "order is already paid")
	}

	order.PaymentRef = paystack.GenerateReference(order.OrderNumber)
	order.PaymentLink = paystack.CheckoutLink(order.PaymentRef, order.TotalAmount)
	if err := orderRepo.Update(order); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"ok":           true,
		"payment_ref":  order.PaymentRef,
		"payment_link": order.PaymentLink,
	})
}
