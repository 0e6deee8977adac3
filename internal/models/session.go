package models

import (
	"github.com/shopspring/decimal"
)

// Session is a backend-issued token for the account-linking SDK.
type Session struct {
	SessionID      string `json:"sessionId"`
	ExternalUserID string `json:"externalUserId,omitempty"`
	Mock           bool   `json:"mock"`
}

// Transaction is a merchant transaction relayed from the sync endpoint.
// Merchants disagree on field names, so several are accepted.
type Transaction struct {
	ID          string              `json:"id,omitempty"`
	Merchant    string              `json:"merchant,omitempty"`
	Description string              `json:"description,omitempty"`
	Amount      decimal.NullDecimal `json:"amount"`
	Total       decimal.NullDecimal `json:"total"`
	Date        string              `json:"date,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

func (t Transaction) Label() string {
	switch {
	case t.Description != "":
		return t.Description
	case t.Merchant != "":
		return t.Merchant
	default:
		return "Purchase"
	}
}

func (t Transaction) DisplayAmount() string {
	switch {
	case t.Amount.Valid:
		return FormatUSD(t.Amount.Decimal)
	case t.Total.Valid:
		return FormatUSD(t.Total.Decimal)
	default:
		return "N/A"
	}
}

func (t Transaction) DisplayDate() string {
	switch {
	case t.Date != "":
		return t.Date
	case t.Timestamp != "":
		return t.Timestamp
	default:
		return "N/A"
	}
}
