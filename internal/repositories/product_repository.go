package repositories

import (
	"context"

	"bistro/internal/models"
)

// ProductStore is the subset of the product store that bulk import and export depend on.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	ProductStore
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}
