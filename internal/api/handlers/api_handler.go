package handlers

import (
	"lowvie/internal/accountlink"
	"lowvie/internal/dto"
	"lowvie/internal/workflow"
	"lowvie/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type APIHandler struct {
	store  *workflow.Store
	logger *zap.Logger
}

func NewAPIHandler(store *workflow.Store, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		store:  store,
		logger: logger,
	}
}

// GetPage godoc
// @Summary Get page state
// @Description Snapshot of one page workflow: state, notice, parsed expenses, selection, email draft and account link
// @Tags pages
// @Produce json
// @Param token path string true "Page token"
// @Success 200 {object} dto.PageSnapshot
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/pages/{token} [get]
func (h *APIHandler) GetPage(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Page not found"})
	}
	return c.JSON(newSnapshot(page))
}

// LinkEvent godoc
// @Summary Relay an account-link SDK event
// @Description Browser relay for the link SDK callbacks: success, error, event and exit
// @Tags pages
// @Accept json
// @Produce json
// @Param token path string true "Page token"
// @Param request body dto.LinkEventRequest true "SDK callback"
// @Success 202 {object} dto.StatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/pages/{token}/link/events [post]
func (h *APIHandler) LinkEvent(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Page not found"})
	}

	var req dto.LinkEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	kind := accountlink.EventKind(req.Kind)
	switch kind {
	case accountlink.EventSuccess, accountlink.EventError, accountlink.EventProgress, accountlink.EventExit:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Unknown event kind"})
	}

	page.Link.HandleEvent(accountlink.Event{
		Kind:      kind,
		Product:   req.Product,
		Name:      req.Name,
		ErrorCode: req.ErrorCode,
		Message:   req.Message,
		Details:   req.Details,
	})

	return c.Status(fiber.StatusAccepted).JSON(dto.StatusResponse{Status: "accepted"})
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.StatusResponse
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{Status: "healthy"})
}

func (h *APIHandler) page(c *fiber.Ctx) (*workflow.Page, bool) {
	pageID, ok := c.Locals(middleware.LocalPageID).(string)
	if !ok {
		return nil, false
	}
	return h.store.Get(pageID)
}
