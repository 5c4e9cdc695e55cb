package controllers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/chidihq/chidi/app/repository"
	"github.com/chidihq/chidi/internal/pkg/analytics"
	"github.com/chidihq/chidi/internal/pkg/cache"
	"github.com/chidihq/chidi/internal/pkg/metrics/counter"
)

const (
	metricsCacheKey = "analytics:business_metrics"
	metricsCacheTTL = 60 * time.Second
)

var (
	analyticsOrderRepo    repository.OrderRepository
	analyticsCustomerRepo repository.CustomerRepository
	analyticsProductRepo  repository.ProductRepository
)

// InitializeAnalyticsController wires the repositories the dashboard reads.
func InitializeAnalyticsController() {
	factory := repository.GetGlobalFactory()
	analyticsOrderRepo = factory.GetOrderRepository()
	analyticsCustomerRepo = factory.GetCustomerRepository()
	analyticsProductRepo = factory.GetProductRepository()
}

// HandleBusinessMetrics serves the dashboard aggregate. Results are cached
// in Redis for a minute; pass ?refresh=true to force a recompute.
func HandleBusinessMetrics(c *fiber.Ctx) error {
	if c.Query("refresh") != "true" {
		if cached, err := cache.Get(metricsCacheKey); err == nil && cached != "" {
			var metrics analytics.BusinessMetrics
			if err := json.Unmarshal([]byte(cached), &metrics); err == nil {
				return c.JSON(fiber.Map{"ok": true, "metrics": metrics, "cached": true})
			}
		}
	}

	// Drain pending view counters so the catalog numbers are current.
	if err := counter.FlushAll(); err != nil {
		log.Warnf("Could not flush view counters: %v", err)
	}

	orders, err := analyticsOrderRepo.GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	customers, err := analyticsCustomerRepo.GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	products, err := analyticsProductRepo.GetAll()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	metrics := analytics.CalculateBusinessMetrics(orders, customers, products, time.Now())

	if encoded, err := json.Marshal(metrics); err == nil {
		if err := cache.Set(metricsCacheKey, string(encoded), metricsCacheTTL); err != nil {
			log.Warnf("Could not cache business metrics: %v", err)
		}
	}

	return c.JSON(fiber.Map{"ok": true, "metrics": metrics, "cached": false})
}
