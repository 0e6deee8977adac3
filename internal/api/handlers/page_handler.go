package handlers

import (
	"errors"

	"lowvie/internal/analysis"
	"lowvie/internal/email"
	"lowvie/internal/upload"
	"lowvie/internal/workflow"
	"lowvie/pkg/auth"
	"lowvie/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	noticeBusy            = "A receipt is already being processed"
	noticeNoFile          = "Please choose a file to upload"
	noticeTooManyFiles    = "Please upload a single file"
	noticeUnsupportedFile = "Unsupported file type"
	noticeLinkFailed      = "Failed to connect account"
	noticeSyncFailed      = "Failed to fetch transactions"
)

// PageHandler serves the HTML page shell and its form actions. Every action
// redirects back to the page, except Send, which renders the mailto hand-off.
type PageHandler struct {
	store  *workflow.Store
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewPageHandler(store *workflow.Store, tokens *auth.TokenManager, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Landing mints a fresh page workflow. Reloading it always starts over.
func (h *PageHandler) Landing(c *fiber.Ctx) error {
	page := h.store.Create()

	token, err := h.tokens.Issue(page.ID)
	if err != nil {
		h.logger.Error("Failed to issue page token", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to start page")
	}

	return c.Redirect("/p/"+token, fiber.StatusSeeOther)
}

func (h *PageHandler) Show(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}
	return h.render(c, fiber.StatusOK, page, "", "")
}

// Upload handles the upload widget form.
func (h *PageHandler) Upload(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}

	var files []upload.File
	if form, err := c.MultipartForm(); err == nil {
		files, err = upload.FromMultipart(form.File["file"])
		if err != nil {
			h.logger.Warn("Failed to read upload", zap.Error(err))
			return h.render(c, fiber.StatusBadRequest, page, noticeNoFile, "")
		}
	}

	err := page.Upload.Select(files)
	var unsupported *upload.UnsupportedTypeError
	switch {
	case err == nil:
		return h.back(c)
	case errors.Is(err, workflow.ErrBusy):
		return h.render(c, fiber.StatusConflict, page, noticeBusy, "")
	case errors.Is(err, upload.ErrNoFile):
		return h.render(c, fiber.StatusBadRequest, page, noticeNoFile, "")
	case errors.Is(err, upload.ErrTooManyFiles):
		return h.render(c, fiber.StatusBadRequest, page, noticeTooManyFiles, "")
	case errors.As(err, &unsupported):
		return h.render(c, fiber.StatusUnsupportedMediaType, page, noticeUnsupportedFile, "")
	default:
		h.logger.Error("Upload rejected", zap.Error(err))
		return h.render(c, fiber.StatusInternalServerError, page, workflow.FailureNotice, "")
	}
}

func (h *PageHandler) Cancel(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}
	page.Shell.Cancel()
	return h.back(c)
}

func (h *PageHandler) Reset(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}
	page.Shell.Reset()
	return h.back(c)
}

func (h *PageHandler) ContactExpense(c *fiber.Ctx) error {
	return h.withView(c, func(view *analysis.View) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.ErrBadRequest
		}
		_, err = view.ContactSupplier(index)
		return err
	})
}

func (h *PageHandler) FindAlternatives(c *fiber.Ctx) error {
	return h.withView(c, func(view *analysis.View) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.ErrBadRequest
		}
		// A failed fetch is shown inline by the view.
		if err := view.FindAlternatives(c.UserContext(), index); err != nil && errors.Is(err, analysis.ErrNoExpense) {
			return err
		}
		return nil
	})
}

func (h *PageHandler) ContactAlternative(c *fiber.Ctx) error {
	return h.withView(c, func(view *analysis.View) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return fiber.ErrBadRequest
		}
		_, err = view.ContactAlternative(c.UserContext(), index)
		return ignoreDraftFailure(err)
	})
}

func (h *PageHandler) Negotiate(c *fiber.Ctx) error {
	return h.withView(c, func(view *analysis.View) error {
		_, err := view.NegotiateWithCurrent(c.UserContext())
		return ignoreDraftFailure(err)
	})
}

// SendEmail applies the user's edits and renders the page with the mailto
// link the browser opens. Nothing is sent by the server.
func (h *PageHandler) SendEmail(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}
	view := page.Shell.Status().View
	if view == nil {
		return h.back(c)
	}

	if err := view.EditEmail(c.FormValue("subject"), c.FormValue("body")); err != nil {
		if errors.Is(err, email.ErrModalClosed) {
			return h.back(c)
		}
		return err
	}
	mailto, err := view.SendEmail()
	if err != nil {
		return h.back(c)
	}

	return h.render(c, fiber.StatusOK, page, "", mailto)
}

func (h *PageHandler) CancelEmail(c *fiber.Ctx) error {
	return h.withView(c, func(view *analysis.View) error {
		view.CancelEmail()
		return nil
	})
}

func (h *PageHandler) CreateLinkSession(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}
	if _, err := page.Link.Connect(c.UserContext()); err != nil {
		h.logger.Warn("Account link failed", zap.Error(err))
		return h.render(c, fiber.StatusBadGateway, page, noticeLinkFailed, "")
	}
	return h.back(c)
}

func (h *PageHandler) FetchTransactions(c *fiber.Ctx) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}
	if _, err := page.Link.FetchTransactions(c.UserContext()); err != nil {
		if errors.Is(err, workflow.ErrBusy) {
			return h.render(c, fiber.StatusConflict, page, noticeBusy, "")
		}
		h.logger.Warn("Transaction fetch failed", zap.Error(err))
		return h.render(c, fiber.StatusBadGateway, page, noticeSyncFailed, "")
	}
	return h.back(c)
}

func (h *PageHandler) withView(c *fiber.Ctx, action func(view *analysis.View) error) error {
	page, ok := h.page(c)
	if !ok {
		return middleware.RestartPage(c)
	}
	view := page.Shell.Status().View
	if view == nil {
		return h.back(c)
	}

	err := action(view)
	switch {
	case err == nil:
		return h.back(c)
	case errors.Is(err, analysis.ErrNoExpense), errors.Is(err, analysis.ErrNoAlternative):
		return h.render(c, fiber.StatusNotFound, page, "", "")
	case errors.Is(err, analysis.ErrNoSelection), errors.Is(err, analysis.ErrNoAlternatives):
		return h.render(c, fiber.StatusConflict, page, "", "")
	default:
		return err
	}
}

func (h *PageHandler) page(c *fiber.Ctx) (*workflow.Page, bool) {
	pageID, ok := c.Locals(middleware.LocalPageID).(string)
	if !ok {
		return nil, false
	}
	return h.store.Get(pageID)
}

func (h *PageHandler) back(c *fiber.Ctx) error {
	token, _ := c.Locals(middleware.LocalPageToken).(string)
	return c.Redirect("/p/"+token, fiber.StatusSeeOther)
}

func (h *PageHandler) render(c *fiber.Ctx, status int, page *workflow.Page, flash, mailto string) error {
	token, _ := c.Locals(middleware.LocalPageToken).(string)
	view := newPageView(token, page, flash)
	view.Mailto = mailto
	return c.Status(status).Render("page", view, "layouts/main")
}

// ignoreDraftFailure keeps a failed draft on the page as a notice.
func ignoreDraftFailure(err error) error {
	if err == nil || errors.Is(err, analysis.ErrNoSelection) ||
		errors.Is(err, analysis.ErrNoAlternatives) || errors.Is(err, analysis.ErrNoAlternative) {
		return err
	}
	return nil
}
