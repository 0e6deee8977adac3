// Package alternatives finds candidate replacement suppliers for an expense category.
package alternatives

import (
	"context"

	"lowvie/internal/models"

	"github.com/shopspring/decimal"
)

// Finder returns alternatives for a category near a city, relative to the current price.
// The backend client and Catalog both satisfy it.
type Finder interface {
	FindAlternatives(ctx context.Context, category, city string, currentPrice decimal.Decimal) ([]models.Alternative, error)
}
