package dto

import (
	"encoding/json"

	"lowvie/internal/models"
)

// PageSnapshot is the JSON view of one page workflow.
type PageSnapshot struct {
	ID        string                 `json:"id"`
	State     string                 `json:"state"`
	Notice    string                 `json:"notice,omitempty"`
	Result    *models.AnalysisResult `json:"result,omitempty"`
	Selection *SelectionResponse     `json:"selection,omitempty"`
	Email     *models.EmailDraft     `json:"email,omitempty"`
	Link      LinkResponse           `json:"link"`
}

type SelectionResponse struct {
	Category     string               `json:"category"`
	ExpenseIndex int                  `json:"expense_index"`
	Alternatives []models.Alternative `json:"alternatives"`
	Error        string               `json:"error,omitempty"`
}

type LinkResponse struct {
	SessionID    string               `json:"session_id,omitempty"`
	Connected    bool                 `json:"connected"`
	Transactions []models.Transaction `json:"transactions,omitempty"`
	Log          []string             `json:"log,omitempty"`
}

// LinkEventRequest is what the browser relays from the account-link SDK callbacks.
type LinkEventRequest struct {
	Kind      string          `json:"kind" example:"success"`
	Product   string          `json:"product" example:"transaction_link"`
	Name      string          `json:"name,omitempty"`
	ErrorCode string          `json:"error_code,omitempty"`
	Message   string          `json:"message,omitempty"`
	Details   json.RawMessage `json:"details,omitempty" swaggertype:"object"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
