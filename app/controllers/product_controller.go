package controllers

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
	"github.com/chidihq/chidi/app/repository"
	"github.com/chidihq/chidi/internal/pkg/metrics/counter"
)

var productRepo repository.ProductRepository

// InitializeProductController wires the product repository.
func InitializeProductController() {
	productRepo = repository.GetGlobalFactory().GetProductRepository()
}

// HandleListProducts returns the catalog, optionally filtered by category
// or a search query.
func HandleListProducts(c *fiber.Ctx) error {
	var (
		products []models.Product
		err      error
	)
	switch {
	case c.Query("q") != "":
		products, err = productRepo.Search(c.Query("q"))
	case c.Query("category") != "":
		products, err = productRepo.GetByCategory(c.Query("category"))
	case c.Query("low_stock") == "true":
		products, err = productRepo.GetLowStock()
	default:
		products, err = productRepo.GetAll()
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "products": products})
}

// HandleGetProduct returns one product with its stock status.
func HandleGetProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	product, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := counter.AddProductView(id); err != nil {
		log.Warnf("Could not count product view for %d: %v", id, err)
	}
	return c.JSON(fiber.Map{"ok": true, "product": product, "stock_status": product.StockStatus()})
}

// HandleCreateProduct adds a product to the catalog.
func HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product payload")
	}
	if err := product.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := productRepo.Create(&product); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "product": product})
}

// HandleUpdateProduct updates an existing catalog entry.
func HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	product, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := c.BodyParser(product); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product payload")
	}
	product.ID = id
	if err := product.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := productRepo.Update(product); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "product": product})
}

// HandleDeleteProduct removes a product from the catalog.
func HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := productRepo.Delete(id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleImportProducts bulk-imports products from a CSV body with a header
// row. Recognized columns: name, price, stock, category, description;
// unknown columns are ignored, rows without a name are skipped.
func HandleImportProducts(c *fiber.Ctx) error {
	reader := csv.NewReader(strings.NewReader(string(c.Body())))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid csv: missing header row")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var products []models.Product
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		product := productFromRecord(record, columns)
		if product.Name == "" {
			skipped++
			continue
		}
		products = append(products, product)
	}

	if err := productRepo.CreateBatch(products); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true, "imported": len(products), "skipped": skipped})
}

func productFromRecord(record []string, columns map[string]int) models.Product {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	product := models.Product{
		Name:        field("name"),
		Category:    field("category"),
		Description: field("description"),
	}
	if price, err := strconv.ParseFloat(strings.ReplaceAll(field("price"), ",", ""), 64); err == nil {
		product.Price = price
	}
	if stock, err := strconv.Atoi(field("stock")); err == nil {
		product.Stock = stock
	}
	return product
}
