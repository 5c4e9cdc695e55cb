package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chidihq/chidi/app/controllers"
	"github.com/chidihq/chidi/app/repository"
	"github.com/chidihq/chidi/internal/pkg/cache"
	"github.com/chidihq/chidi/internal/pkg/database"
	"github.com/chidihq/chidi/internal/pkg/env"
	"github.com/chidihq/chidi/internal/pkg/payments"
	"github.com/chidihq/chidi/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	controllers.InitializeProductController()
	controllers.InitializeOrderController()
	controllers.InitializeCustomerController()
	controllers.InitializeConversationController()
	controllers.InitializeAnalyticsController()

	dataDir := env.GetEnv("PAYSTACK_DATA_DIR", "./logs")
	if err := controllers.InitializeWebhookController(dataDir); err != nil {
		log.Fatalf("Could not initialize webhook storage in %s: %v", dataDir, err)
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "CHIDI",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app)

	// background order reconciliation against the webhook event log
	worker := payments.NewWorker(
		controllers.GetWebhookStore(),
		repository.GetGlobalFactory().GetOrderRepository(),
		payments.CacheCursorStore{},
		reconcileInterval(),
	)
	worker.Start()
	app.Hooks().OnShutdown(func() error {
		worker.Stop()
		return nil
	})

	return app
}

func reconcileInterval() time.Duration {
	interval, err := time.ParseDuration(env.GetEnv("RECONCILE_INTERVAL", "30s"))
	if err != nil {
		return payments.DefaultReconcileInterval
	}
	return interval
}
