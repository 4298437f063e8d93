// Package app assembles the services, handlers and middleware into a fiber application.
package app

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"bistro/internal/handlers"
	"bistro/internal/middleware"
	"bistro/internal/models"
	"bistro/internal/repositories"
	"bistro/internal/services"
)

// Dependencies are the stores and collaborators the application is built from. Cache and
// Events are optional.
type Dependencies struct {
	Products       repositories.ProductRepository
	Users          repositories.UserRepository
	Logs           repositories.ImportExportLogRepository
	Cache          services.ProductCache
	Events         services.EventPublisher
	JWTSecret      string
	JWTTTL         time.Duration
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// App is the assembled HTTP application together with its services.
type App struct {
	Fiber        *fiber.App
	Auth         *services.AuthService
	Products     *services.ProductService
	ImportExport *services.ImportExportService
}

// New wires services and handlers and registers every route.
func New(deps Dependencies) *App {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = services.DefaultMaxUploadBytes
	}
	if deps.JWTTTL <= 0 {
		deps.JWTTTL = 24 * time.Hour
	}
	log := deps.Logger

	authService := services.NewAuthService(deps.Users, deps.JWTSecret, deps.JWTTTL, log)
	productService := services.NewProductService(deps.Products, deps.Cache, deps.Events, log)
	importExportService := services.NewImportExportService(deps.Products, deps.Logs, deps.Events, log)
	reportService := services.NewReportService(deps.Products)
	userService := services.NewUserService(deps.Users, log)

	app := fiber.New(fiber.Config{
		AppName: "bistro",
		// leave room for the multipart envelope around the largest accepted file
		BodyLimit:    int(deps.MaxUploadBytes) + 1<<20,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", middleware.PrometheusHandler())

	adminOnly := []fiber.Handler{
		middleware.AuthRequired(authService),
		middleware.RequireRole(models.RoleAdmin),
	}

	handlers.NewAuthHandler(authService, log).RegisterRoutes(app)
	handlers.NewProductHandler(productService, log).RegisterRoutes(app, adminOnly...)
	handlers.NewImportExportHandler(importExportService, deps.MaxUploadBytes, log).RegisterRoutes(app, adminOnly...)
	handlers.NewReportHandler(reportService, log).RegisterRoutes(app, adminOnly...)
	handlers.NewUserHandler(userService).RegisterRoutes(app, adminOnly...)

	return &App{
		Fiber:        app,
		Auth:         authService,
		Products:     productService,
		ImportExport: importExportService,
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": utils.StatusMessage(code),
		"error":   err.Error(),
	})
}
