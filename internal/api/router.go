package api

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/glebpopoff/expense-app-ai/internal/api/handlers"
)

const webStaticDir = "web/static"

func SetupRouter(
	expenseHandler *handlers.ExpenseHandler,
	analysisHandler *handlers.AnalysisHandler,
	appLogger *zap.Logger,
) *fiber.App {
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

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	// Browser client, when bundled next to the binary
	if _, err := os.Stat(webStaticDir); err == nil {
		appLogger.Info("Serving static files", zap.String("path", webStaticDir))
		app.Static("/", webStaticDir)
	}

	app.Post("/expenses", expenseHandler.Create)
	app.Get("/expenses", expenseHandler.List)
	app.Post("/query", analysisHandler.Query)
	app.Get("/insights", analysisHandler.Insights)
	app.Get("/analysis", analysisHandler.Analysis)

	return app
}
