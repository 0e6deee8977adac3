package mockapi

import (
	"lowvie/internal/models"

	"github.com/shopspring/decimal"
)

// DemoReceipt is what every upload parses to.
func DemoReceipt() *models.AnalysisResult {
	return &models.AnalysisResult{
		Expenses: []models.Expense{
			{
				Category:     "material",
				BusinessName: "Premium Fabrics Inc.",
				City:         "San Francisco",
				Price:        decimal.RequireFromString("25.00"),
				Contact:      "orders@premiumfabrics.com",
				Details:      "High-quality cotton blend material",
			},
			{
				Category:     "printing",
				BusinessName: "FastPrint Solutions",
				City:         "San Francisco",
				Price:        decimal.RequireFromString("8.50"),
				Contact:      "sales@fastprint.com",
				Details:      "Screen printing services",
			},
			{
				Category:     "shipping",
				BusinessName: "QuickShip Logistics",
				City:         "San Francisco",
				Price:        decimal.RequireFromString("5.75"),
				Contact:      "support@quickship.com",
				Details:      "Standard 3-5 day shipping",
			},
		},
		TotalAmount: decimal.RequireFromString("39.25"),
	}
}

func demoTransactions() []models.Transaction {
	amount := func(s string) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.RequireFromString(s))
	}
	return []models.Transaction{
		{ID: "txn-1001", Merchant: "Amazon", Description: "Cotton fabric roll, 20 yd", Amount: amount("182.40"), Date: "2025-11-01"},
		{ID: "txn-1002", Merchant: "Amazon", Description: "Screen printing ink set", Amount: amount("64.99"), Date: "2025-11-03"},
		{ID: "txn-1003", Merchant: "Walmart", Amount: amount("23.15"), Date: "2025-11-04"},
		{ID: "txn-1004", Merchant: "Target", Description: "Shipping boxes, 50 pack", Total: amount("41.00"), Timestamp: "2025-11-06T14:22:00Z"},
		{ID: "txn-1005", Description: "Packing tape"},
	}
}
