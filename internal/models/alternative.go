package models

import (
	"github.com/shopspring/decimal"
)

// Alternative is a candidate replacement supplier for an expense category.
type Alternative struct {
	BusinessName         string          `json:"business_name"`
	City                 string          `json:"city"`
	EstimatedPrice       decimal.Decimal `json:"estimated_price"`
	ContactEmail         string          `json:"contact_email"`
	PotentialSavings     decimal.Decimal `json:"potential_savings"`
	DistanceFromOriginal string          `json:"distance_from_original,omitempty"`
}

// SavingsPercent is the share of currentPrice saved by switching, rounded to one decimal.
func (a Alternative) SavingsPercent(currentPrice decimal.Decimal) decimal.Decimal {
	if !currentPrice.IsPositive() {
		return decimal.Zero
	}
	return a.PotentialSavings.Div(currentPrice).Mul(decimal.NewFromInt(100)).Round(1)
}

// MarketData aggregates the prices of fetched alternatives.
type MarketData struct {
	AverageMarketPrice    decimal.Decimal `json:"average_market_price"`
	LowestCompetitorPrice decimal.Decimal `json:"lowest_competitor_price"`
}

// NewMarketData computes average and minimum estimated prices.
// It reports false when there is nothing to aggregate.
func NewMarketData(alternatives []Alternative) (MarketData, bool) {
	if len(alternatives) == 0 {
		return MarketData{}, false
	}

	sum := decimal.Zero
	lowest := alternatives[0].EstimatedPrice
	for _, alt := range alternatives {
		sum = sum.Add(alt.EstimatedPrice)
		if alt.EstimatedPrice.LessThan(lowest) {
			lowest = alt.EstimatedPrice
		}
	}

	return MarketData{
		AverageMarketPrice:    sum.Div(decimal.NewFromInt(int64(len(alternatives)))).Round(2),
		LowestCompetitorPrice: lowest.Round(2),
	}, true
}
