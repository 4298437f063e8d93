// Package reports builds the admin catalog reports.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"bistro/internal/models"
)

// ProductReport summarises the catalog at one point in time.
type ProductReport struct {
	GeneratedAt   time.Time        `json:"generatedAt"`
	TotalProducts int              `json:"totalProducts"`
	TotalStock    int              `json:"totalStock"`
	StockValue    decimal.Decimal  `json:"stockValue"`
	ByCategory    map[string]int   `json:"byCategory"`
	Products      []models.Product `json:"products"`
}

// BuildProductReport aggregates products. Every storable category appears in ByCategory, with
// zero when it has no products.
func BuildProductReport(products []models.Product, now time.Time) ProductReport {
	r := ProductReport{
		GeneratedAt:   now,
		TotalProducts: len(products),
		StockValue:    decimal.Zero,
		ByCategory:    make(map[string]int, len(models.Categories)),
		Products:      products,
	}
	for _, c := range models.Categories {
		r.ByCategory[c] = 0
	}
	for _, p := range products {
		r.TotalStock += p.Stock
		r.StockValue = r.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		r.ByCategory[p.Category]++
	}
	return r
}
