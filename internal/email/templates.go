package email

import (
	"fmt"

	"lowvie/internal/dto"
	"lowvie/internal/models"

	"github.com/shopspring/decimal"
)

const DefaultSignature = "[Your Company Name]"

// Market-rate anchors quoted when contacting the current supplier directly.
var (
	AverageAnchor = decimal.RequireFromString("0.90")
	LowAnchor     = decimal.RequireFromString("0.85")
)

// Templates composes drafts locally from expense and market data.
type Templates struct {
	Signature string
}

func NewTemplates(signature string) Templates {
	if signature == "" {
		signature = DefaultSignature
	}
	return Templates{Signature: signature}
}

// ContactSupplier drafts a negotiation email to the expense's own supplier.
func (t Templates) ContactSupplier(expense models.Expense) models.EmailDraft {
	average := models.FormatUSD(expense.Price.Mul(AverageAnchor))
	low := models.FormatUSD(expense.Price.Mul(LowAnchor))

	body := fmt.Sprintf("Dear %s,\n\n", expense.BusinessName) +
		fmt.Sprintf("We value our business relationship and would like to discuss our current pricing for %s services. ", expense.Category) +
		fmt.Sprintf("Our market research shows competitive rates in the area averaging %s, with some suppliers offering rates as low as %s.\n\n", average, low) +
		"Would you be open to discussing a price adjustment to help us maintain a mutually beneficial partnership?\n\n" +
		"Best regards,\n" +
		t.Signature

	return models.EmailDraft{
		ToEmail: expense.Contact,
		Subject: fmt.Sprintf("Request for Price Negotiation - %s", expense.Category),
		Body:    body,
	}
}

// NewSupplierInquiry drafts a first contact with an alternative supplier.
func (t Templates) NewSupplierInquiry(req dto.DraftEmailRequest) models.EmailDraft {
	body := fmt.Sprintf("Dear %s team,\n\n", req.SupplierInfo.BusinessName) +
		fmt.Sprintf("We are a small business currently sourcing %s and are reviewing our suppliers. ", req.Category) +
		fmt.Sprintf("Our current supplier charges %s per unit, and we are interested in potentially switching.\n\n", models.FormatUSD(req.CurrentPrice)) +
		"Could you share your pricing details and minimum order quantities? If applicable, we would also appreciate samples.\n\n" +
		"Best regards,\n" +
		t.Signature

	return models.EmailDraft{
		ToEmail: req.SupplierInfo.ContactEmail,
		Subject: fmt.Sprintf("Inquiry about %s pricing", req.Category),
		Body:    body,
	}
}

// Negotiation drafts a price-adjustment request to the current supplier
// backed by market data.
func (t Templates) Negotiation(req dto.DraftEmailRequest) models.EmailDraft {
	var research string
	if req.MarketData != nil {
		research = fmt.Sprintf("Our recent market research for %s shows an average price of %s, with competitors offering rates as low as %s. ",
			req.Category,
			models.FormatUSD(req.MarketData.AverageMarketPrice),
			models.FormatUSD(req.MarketData.LowestCompetitorPrice),
		)
	}

	body := fmt.Sprintf("Dear %s,\n\n", req.SupplierInfo.BusinessName) +
		"We value our business relationship and would like to keep working together. " +
		research +
		fmt.Sprintf("We currently pay %s.\n\n", models.FormatUSD(req.CurrentPrice)) +
		"Would you be open to a price adjustment closer to these market rates? If the terms are agreeable, we are ready to commit to a long-term partnership.\n\n" +
		"Best regards,\n" +
		t.Signature

	return models.EmailDraft{
		ToEmail: req.SupplierInfo.ContactEmail,
		Subject: fmt.Sprintf("Pricing review for %s", req.Category),
		Body:    body,
	}
}
