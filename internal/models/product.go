package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories accepted on create, edit and import.
const (
	CategoryPizza   = "Pizza"
	CategoryBurger  = "Burger"
	CategorySalad   = "Salată"
	CategoryDessert = "Desert"
	CategoryDrink   = "Băutură"
	// CategoryPasta is only recognised by export filters.
	CategoryPasta = "Paste"
)

// Categories lists the values a stored product may carry.
var Categories = []string{CategoryPizza, CategoryBurger, CategorySalad, CategoryDessert, CategoryDrink}

// ExportCategories lists the values the export and search filters accept.
var ExportCategories = []string{CategoryPizza, CategoryBurger, CategorySalad, CategoryPasta, CategoryDrink, CategoryDessert}

// Product represents a menu item.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Category    string          `json:"category" gorm:"type:varchar(32);not null;index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsCategory reports whether c is a storable product category.
func IsCategory(c string) bool {
	return contains(Categories, c)
}

// IsExportCategory reports whether c is accepted by export filtering.
func IsExportCategory(c string) bool {
	return contains(ExportCategories, c)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
