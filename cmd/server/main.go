package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kartikey742/referral-credit-system/internal/config"
	"github.com/kartikey742/referral-credit-system/internal/handler"
	"github.com/kartikey742/referral-credit-system/internal/middleware"
	"github.com/kartikey742/referral-credit-system/internal/repository"
	"github.com/kartikey742/referral-credit-system/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	userService := service.NewUserService(repo)
	purchaseSvc := service.NewPurchaseService(repo)
	referralSvc := service.NewReferralService(repo)

	h := handler.New(cfg, userService, purchaseSvc, referralSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", h.Health)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", h.Register)
	api.Post("/auth/login", h.Login)

	// Authenticated
	user := api.Group("/user", middleware.BearerAuth(cfg))
	user.Get("/me", h.GetMe)
	user.Get("/dashboard", h.GetDashboard)
	user.Post("/purchase", h.Purchase)
	user.Get("/credits", h.GetCreditHistory)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		_ = app.Shutdown()
	}()

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
