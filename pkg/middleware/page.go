package middleware

import (
	"lowvie/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LocalPageID    = "pageID"
	LocalPageToken = "pageToken"
)

// PageToken validates the :token route parameter and stores the page ID in locals.
// Requests with a bad or expired token are handed to onInvalid.
func PageToken(tokens *auth.TokenManager, logger *zap.Logger, onInvalid fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")
		if token == "" {
			logger.Debug("Missing page token", zap.String("path", c.Path()))
			return onInvalid(c)
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			logger.Debug("Invalid page token", zap.Error(err))
			return onInvalid(c)
		}

		c.Locals(LocalPageID, claims.PageID())
		c.Locals(LocalPageToken, token)

		return c.Next()
	}
}

// RestartPage sends browsers back to the landing page, which mints a fresh workflow.
func RestartPage(c *fiber.Ctx) error {
	return c.Redirect("/", fiber.StatusSeeOther)
}

// RejectPage answers JSON clients with 401.
func RejectPage(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid or expired page token",
	})
}
