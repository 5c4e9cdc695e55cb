package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/chidihq/chidi/app/controllers"
	"github.com/chidihq/chidi/internal/pkg/constants"
	"github.com/chidihq/chidi/internal/pkg/env"
	"github.com/chidihq/chidi/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    limiterStorage(),
	}))

	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":      true,
			"service": "chidi",
		})
	})

	// Payment provider webhooks. The webhook ingest endpoint must never sit
	// behind auth; the provider signs its deliveries instead.
	adminKey := middleware.AdminKeyMiddleware()
	webhook := api.Group("/paystack/webhook")
	webhook.Post("/", controllers.HandlePaystackWebhook)
	webhook.Get("/", controllers.HandlePaystackWebhookLog)
	webhook.Delete("/", adminKey, controllers.HandlePaystackWebhookClear)
	webhook.Post("/rebuild", adminKey, controllers.HandlePaystackIndexRebuild)

	products := api.Group("/products")
	products.Get("/", controllers.HandleListProducts)
	products.Post("/", controllers.HandleCreateProduct)
	products.Post("/import", adminKey, controllers.HandleImportProducts)
	products.Get("/:id", controllers.HandleGetProduct)
	products.Put("/:id", controllers.HandleUpdateProduct)
	products.Delete("/:id", controllers.HandleDeleteProduct)

	orders := api.Group("/orders")
	orders.Get("/", controllers.HandleListOrders)
	orders.Post("/", controllers.HandleCreateOrder)
	orders.Get("/:id", controllers.HandleGetOrder)
	orders.Put("/:id/status", controllers.HandleUpdateOrderStatus)
	orders.Post("/:id/payment-link", controllers.HandleCreatePaymentLink)

	customers := api.Group("/customers")
	customers.Get("/", controllers.HandleListCustomers)
	customers.Post("/", controllers.HandleCreateCustomer)
	customers.Get("/inactive", controllers.HandleListInactiveCustomers)
	customers.Get("/:id", controllers.HandleGetCustomer)
	customers.Put("/:id", controllers.HandleUpdateCustomer)
	customers.Delete("/:id", controllers.HandleDeleteCustomer)

	conversations := api.Group("/conversations")
	conversations.Get("/", controllers.HandleListConversations)
	conversations.Post("/", controllers.HandleStartConversation)
	conversations.Get("/:id", controllers.HandleGetConversation)
	conversations.Post("/:id/messages", controllers.HandleAppendMessage)

	api.Get("/analytics", controllers.HandleBusinessMetrics)
}

// limiterStorage backs the rate limiter with Redis so limits hold across
// instances.
func limiterStorage() fiber.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host: env.GetEnv("CACHE_HOST", "localhost"),
		Port: port,
	})
}
