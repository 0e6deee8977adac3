package email

import (
	"context"
	"errors"

	"lowvie/internal/dto"
	"lowvie/internal/models"
)

var ErrMarketDataRequired = errors.New("market data required for negotiation email")

// Drafter seeds a draft from structured supplier and market context.
// The backend client drafts remotely; TemplateDrafter does it in process.
type Drafter interface {
	DraftEmail(ctx context.Context, request dto.DraftEmailRequest) (*models.EmailDraft, error)
}

type TemplateDrafter struct {
	templates Templates
}

func NewTemplateDrafter(templates Templates) *TemplateDrafter {
	return &TemplateDrafter{templates: templates}
}

func (d *TemplateDrafter) DraftEmail(_ context.Context, request dto.DraftEmailRequest) (*models.EmailDraft, error) {
	if request.IsCurrentSupplier {
		if request.MarketData == nil {
			return nil, ErrMarketDataRequired
		}
		draft := d.templates.Negotiation(request)
		return &draft, nil
	}

	draft := d.templates.NewSupplierInquiry(request)
	return &draft, nil
}
