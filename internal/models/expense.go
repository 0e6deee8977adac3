package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The backend speaks plain JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense is one parsed line item of an uploaded receipt.
type Expense struct {
	Category     string          `json:"category"`
	BusinessName string          `json:"business_name"`
	City         string          `json:"city"`
	Price        decimal.Decimal `json:"price"`
	Contact      string          `json:"contact"`
	Details      string          `json:"details"`
}

// AnalysisResult is the backend's answer to a receipt upload.
// TotalAmount is shown as received and never recomputed from Expenses.
type AnalysisResult struct {
	Expenses    []Expense       `json:"expenses"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Expense returns the line item at index, or false when out of range.
func (r *AnalysisResult) Expense(index int) (Expense, bool) {
	if r == nil || index < 0 || index >= len(r.Expenses) {
		return Expense{}, false
	}
	return r.Expenses[index], true
}

// FormatUSD renders an amount the way the analysis view prints prices.
func FormatUSD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
