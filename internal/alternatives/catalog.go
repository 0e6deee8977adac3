package alternatives

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"lowvie/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogEntry struct {
	BusinessName         string  `yaml:"business_name"`
	City                 string  `yaml:"city"`
	EstimatedPrice       float64 `yaml:"estimated_price"`
	ContactEmail         string  `yaml:"contact_email"`
	PotentialSavings     float64 `yaml:"potential_savings"`
	DistanceFromOriginal string  `yaml:"distance_from_original"`
}

// Catalog is a static per-category supplier table, used when no search backend is wired.
type Catalog struct {
	categories map[string][]models.Alternative
}

// NewCatalog loads the embedded demo table.
func NewCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	var raw map[string][]catalogEntry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	categories := make(map[string][]models.Alternative, len(raw))
	for category, entries := range raw {
		alts := make([]models.Alternative, 0, len(entries))
		for _, e := range entries {
			if e.EstimatedPrice <= 0 || e.PotentialSavings <= 0 {
				return nil, fmt.Errorf("catalog entry %q in %q: prices must be positive", e.BusinessName, category)
			}
			alts = append(alts, models.Alternative{
				BusinessName:         e.BusinessName,
				City:                 e.City,
				EstimatedPrice:       decimal.NewFromFloat(e.EstimatedPrice),
				ContactEmail:         e.ContactEmail,
				PotentialSavings:     decimal.NewFromFloat(e.PotentialSavings),
				DistanceFromOriginal: e.DistanceFromOriginal,
			})
		}
		categories[strings.ToLower(category)] = alts
	}

	return &Catalog{categories: categories}, nil
}

func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindAlternatives looks the category up case-insensitively. With a positive
// current price every entry is rescaled so it keeps its savings ratio, which
// puts each estimate strictly below the current price. Unknown categories yield
// an empty list. The city only matters to a real search backend.
func (c *Catalog) FindAlternatives(_ context.Context, category, _ string, currentPrice decimal.Decimal) ([]models.Alternative, error) {
	entries := c.categories[strings.ToLower(strings.TrimSpace(category))]
	out := make([]models.Alternative, len(entries))
	copy(out, entries)

	if !currentPrice.IsPositive() {
		return out, nil
	}

	for i, alt := range out {
		// Share of the supplier's reference price that is saved.
		ratio := alt.PotentialSavings.Div(alt.EstimatedPrice.Add(alt.PotentialSavings))
		estimated := currentPrice.Sub(currentPrice.Mul(ratio))
		out[i].EstimatedPrice = estimated
		out[i].PotentialSavings = currentPrice.Sub(estimated)
	}
	return out, nil
}
