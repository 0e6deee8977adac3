package dto

import (
	"lowvie/internal/models"

	"github.com/shopspring/decimal"
)

// Request and response shapes of the analysis backend.

type SupplierInfo struct {
	BusinessName string `json:"business_name"`
	ContactEmail string `json:"contact_email"`
}

type DraftEmailRequest struct {
	SupplierInfo      SupplierInfo       `json:"supplier_info"`
	Category          string             `json:"category"`
	CurrentPrice      decimal.Decimal    `json:"current_price"`
	IsCurrentSupplier bool               `json:"is_current_supplier"`
	MarketData        *models.MarketData `json:"market_data,omitempty"`
}

type SearchAlternativesResponse struct {
	Alternatives []models.Alternative `json:"alternatives"`
}

type CreateSessionRequest struct {
	Type           string `json:"type"`
	ExternalUserID string `json:"external_user_id"`
}

type SyncTransactionsRequest struct {
	ExternalUserID string `json:"external_user_id"`
	Limit          int    `json:"limit"`
}

type SyncTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
