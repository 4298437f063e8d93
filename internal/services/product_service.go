package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bistro/internal/models"
	"bistro/internal/repositories"
	"bistro/internal/validation"
)

// ProductCache is a read-through cache of product details.
type ProductCache interface {
	Get(ctx context.Context, id uint) (*models.Product, bool)
	Set(ctx context.Context, product *models.Product)
	Delete(ctx context.Context, id uint)
}

// ProductPatch carries the fields an edit supplies. Nil fields keep their stored value.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil && p.Stock == nil && p.Category == nil
}

func (p ProductPatch) apply(in *validation.ProductInput) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Stock != nil {
		in.Stock = *p.Stock
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	cache  ProductCache
	events EventPublisher
	logger zerolog.Logger
}

// NewProductService creates a new ProductService. cache and events may be nil.
func NewProductService(repo repositories.ProductRepository, cache ProductCache, events EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  cache,
		events: events,
		logger: logger.With().Str("component", "products").Logger(),
	}
}

// List retrieves all products ordered by id.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.FindAll(ctx, repositories.ProductFilter{})
}

// Search retrieves the products matching filter.
func (s *ProductService) Search(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.FindAll(ctx, filter)
}

// Get retrieves a single product, consulting the cache first.
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, id); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, p)
	}
	return p, nil
}

// Create validates input and stores it as a new product.
func (s *ProductService) Create(ctx context.Context, input validation.ProductInput) (*models.Product, error) {
	if violations := validation.ValidateProduct(input); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	product := input.ToModel()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info().Uint("id", product.ID).Str("name", product.Name).Msg("product created")
	publishEvent(ctx, s.events, s.logger, EventProductCreated, product)
	return product, nil
}

// Update merges patch over the stored product, validates the result and saves it.
func (s *ProductService) Update(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	if patch.IsEmpty() {
		return nil, &ValidationError{Violations: validation.Violations{
			{Field: "product", Message: "at least one field must be provided"},
		}}
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input := validation.FromModel(existing)
	patch.apply(&input)
	if violations := validation.ValidateProduct(input); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	updated := input.ToModel()
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}
	s.logger.Info().Uint("id", id).Msg("product updated")
	publishEvent(ctx, s.events, s.logger, EventProductUpdated, updated)
	return updated, nil
}

// Delete removes a product. Its identifier is not reused.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, id)
	}
	s.logger.Info().Uint("id", id).Msg("product deleted")
	publishEvent(ctx, s.events, s.logger, EventProductDeleted, map[string]uint{"id": id})
	return nil
}
