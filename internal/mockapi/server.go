// Package mockapi serves the analysis backend's endpoints with canned demo
// data, for local demos and end-to-end tests.
package mockapi

import (
	"context"
	"errors"
	"time"

	"lowvie/internal/alternatives"
	"lowvie/internal/dto"
	"lowvie/internal/email"
	"lowvie/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	catalog *alternatives.Catalog
	drafter email.Drafter
	delay   time.Duration
	logger  *zap.Logger
}

func NewServer(catalog *alternatives.Catalog, drafter email.Drafter, delay time.Duration, logger *zap.Logger) *Server {
	return &Server{
		catalog: catalog,
		drafter: drafter,
		delay:   delay,
		logger:  logger,
	}
}

// App builds the fiber application with all backend routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error()})
		},
	})
	app.Use(recover.New())

	app.Post("/upload-receipt", s.uploadReceipt)
	app.Get("/search-alternatives/:category", s.searchAlternatives)
	app.Post("/draft-email", s.draftEmail)
	app.Post("/api/session/create", s.createSession)
	app.Post("/api/transactions/sync", s.syncTransactions)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{Status: "healthy"})
	})

	return app
}

func (s *Server) uploadReceipt(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "File is required"})
	}
	if err := s.wait(c.UserContext()); err != nil {
		return err
	}

	s.logger.Info("Parsed receipt", zap.String("file", file.Filename), zap.Int64("size", file.Size))
	return c.JSON(DemoReceipt())
}

func (s *Server) searchAlternatives(c *fiber.Ctx) error {
	category := c.Params("category")
	price, err := decimal.NewFromString(c.Query("current_price"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "current_price must be a number"})
	}
	if err := s.wait(c.UserContext()); err != nil {
		return err
	}

	alts, err := s.catalog.FindAlternatives(c.UserContext(), category, c.Query("city"), price)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	if alts == nil {
		alts = []models.Alternative{}
	}
	return c.JSON(dto.SearchAlternativesResponse{Alternatives: alts})
}

func (s *Server) draftEmail(c *fiber.Ctx) error {
	var request dto.DraftEmailRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}
	if err := s.wait(c.UserContext()); err != nil {
		return err
	}

	draft, err := s.drafter.DraftEmail(c.UserContext(), request)
	if errors.Is(err, email.ErrMarketDataRequired) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Market data required for negotiation email"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(draft)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	var request dto.CreateSessionRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	return c.JSON(models.Session{
		SessionID:      "mock-session-" + uuid.NewString(),
		ExternalUserID: request.ExternalUserID,
		Mock:           true,
	})
}

func (s *Server) syncTransactions(c *fiber.Ctx) error {
	var request dto.SyncTransactionsRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}
	if err := s.wait(c.UserContext()); err != nil {
		return err
	}

	txs := demoTransactions()
	if request.Limit > 0 && request.Limit < len(txs) {
		txs = txs[:request.Limit]
	}
	return c.JSON(dto.SyncTransactionsResponse{Transactions: txs})
}

func (s *Server) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fiber.NewError(fiber.StatusServiceUnavailable, "request cancelled")
	}
}
