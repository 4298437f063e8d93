package repositories

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"bistro/internal/models"
)

// ProductFilter is a conjunction of optional product criteria. A nil field places no
// constraint; the zero value matches every product.
type ProductFilter struct {
	Name     *string          `json:"name,omitempty"`
	Category *string          `json:"category,omitempty"`
	MinPrice *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	MinStock *int             `json:"minStock,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (f ProductFilter) IsEmpty() bool {
	return f.Name == nil && f.Category == nil && f.MinPrice == nil && f.MaxPrice == nil && f.MinStock == nil
}

// Matches reports whether p satisfies every criterion of f.
func (f ProductFilter) Matches(p models.Product) bool {
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.MinStock != nil && p.Stock < *f.MinStock {
		return false
	}
	return f.MatchesName(p.Name)
}

// MatchesName reports whether name contains the name criterion, ignoring case.
func (f ProductFilter) MatchesName(name string) bool {
	if f.Name == nil {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(*f.Name))
}
