package api

import (
	"errors"
	"net/http"

	"lowvie/docs"
	"lowvie/internal/api/handlers"
	"lowvie/pkg/auth"
	"lowvie/pkg/middleware"
	"lowvie/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type RouterConfig struct {
	BodyLimit int
	// RequestLog enables the per-request access log.
	RequestLog bool
}

func SetupRouter(
	pageHandler *handlers.PageHandler,
	apiHandler *handlers.APIHandler,
	tokens *auth.TokenManager,
	metricsHandler http.Handler,
	cfg RouterConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:                 web.Engine(),
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
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
	if cfg.RequestLog {
		app.Use(logger.New())
	}

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use("/static", filesystem.New(filesystem.Config{
		Root: web.Static(),
	}))

	app.Get("/health", handlers.Health)
	if metricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metricsHandler))
	}

	// Page shell
	app.Get("/", pageHandler.Landing)

	pages := app.Group("/p/:token", middleware.PageToken(tokens, appLogger, middleware.RestartPage))
	pages.Get("", pageHandler.Show)
	pages.Post("/upload", pageHandler.Upload)
	pages.Post("/cancel", pageHandler.Cancel)
	pages.Post("/reset", pageHandler.Reset)
	pages.Post("/expenses/:index/contact", pageHandler.ContactExpense)
	pages.Post("/expenses/:index/alternatives", pageHandler.FindAlternatives)
	pages.Post("/alternatives/:index/contact", pageHandler.ContactAlternative)
	pages.Post("/negotiate", pageHandler.Negotiate)
	pages.Post("/email", pageHandler.SendEmail)
	pages.Post("/email/cancel", pageHandler.CancelEmail)
	pages.Post("/link/session", pageHandler.CreateLinkSession)
	pages.Post("/link/transactions", pageHandler.FetchTransactions)

	// JSON API
	api := app.Group("/api/v1/pages/:token", middleware.PageToken(tokens, appLogger, middleware.RejectPage))
	api.Get("", apiHandler.GetPage)
	api.Post("/link/events", apiHandler.LinkEvent)

	return app
}
