package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
	"github.com/chidihq/chidi/app/repository"
)

var (
	customerRepo      repository.CustomerRepository
	customerOrderRepo repository.OrderRepository
)

// InitializeCustomerController wires the customer repositories.
func InitializeCustomerController() {
	factory := repository.GetGlobalFactory()
	customerRepo = factory.GetCustomerRepository()
	customerOrderRepo = factory.GetOrderRepository()
}

// HandleListCustomers returns all customers with their current segment.
func HandleListCustomers(c *fiber.Ctx) error {
	customers, err := customerRepo.GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	segments := make([]string, len(customers))
	for i := range customers {
		segments[i] = customers[i].Segment(now)
	}
	return c.JSON(fiber.Map{"ok": true, "customers": customers, "segments": segments})
}

// HandleGetCustomer returns one customer with segment and order history.
func HandleGetCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid customer id")
	}
	customer, err := customerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "customer not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	orders, err := customerOrderRepo.GetByCustomerID(id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"ok":       true,
		"customer": customer,
		"segment":  customer.Segment(time.Now()),
		"orders":   orders,
	})
}

// HandleCreateCustomer registers a new customer. Phone numbers act as the
// natural key, so a repeat registration returns the existing profile.
func HandleCreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid customer payload")
	}
	if err := customer.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if existing, err := customerRepo.GetByPhone(customer.Phone); err == nil {
		return c.JSON(fiber.Map{"ok": true, "customer": existing, "existing": true})
	}

	if err := customerRepo.Create(&customer); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "customer": customer})
}

// HandleUpdateCustomer updates a customer profile.
func HandleUpdateCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid customer id")
	}
	customer, err := customerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "customer not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := c.BodyParser(customer); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid customer payload")
	}
	customer.ID = id
	if err := customer.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := customerRepo.Update(customer); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "customer": customer})
}

// HandleDeleteCustomer removes a customer profile.
func HandleDeleteCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid customer id")
	}
	if err := customerRepo.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleListInactiveCustomers lists customers with no order in the given
// window (default 90 days), the re-engagement candidates.
func HandleListInactiveCustomers(c *fiber.Ctx) error {
	days := c.QueryInt("days", 90)
	if days < 1 {
		days = 90
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	customers, err := customerRepo.GetInactiveSince(cutoff)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "customers": customers, "cutoff": cutoff})
}
