package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bistro/internal/models"
	"bistro/internal/repositories"
	"bistro/internal/services"
	"bistro/internal/validation"
)

// SeedConfig holds the credentials of the seeded admin account.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

var demoProducts = []validation.ProductInput{
	{Name: "Pizza Margherita", Price: decimal.NewFromInt(250), Description: "Sos de roșii, mozzarella, busuioc proaspăt", Stock: 20, Category: models.CategoryPizza},
	{Name: "Burger Clasic", Price: decimal.NewFromInt(200), Description: "Vită, cheddar, salată, roșii", Stock: 15, Category: models.CategoryBurger},
	{Name: "Salată Caesar", Price: decimal.NewFromInt(180), Description: "Pui, parmezan, crutoane, dressing Caesar", Stock: 12, Category: models.CategorySalad},
	{Name: "Cola", Price: decimal.NewFromInt(12), Description: "330 ml", Stock: 100, Category: models.CategoryDrink},
	{Name: "Tiramisu", Price: decimal.NewFromInt(120), Description: "Mascarpone, cafea, cacao", Stock: 8, Category: models.CategoryDessert},
}

// Seed inserts demo users and products into an empty database. It is a no-op when products or
// users already exist, so it can run on every start.
func Seed(ctx context.Context, products *services.ProductService, auth *services.AuthService, users repositories.UserRepository, cfg SeedConfig, logger zerolog.Logger) error {
	existingUsers, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check users before seeding: %w", err)
	}
	if len(existingUsers) == 0 {
		accounts := []models.User{
			{Name: "Alina", Email: "alina@email.com", Phone: "0712345678", Age: 25, Role: models.RoleUser, Password: "alina123"},
			{Name: "Octavian", Email: "octavian@email.com", Phone: "0723456789", Age: 34, Role: models.RoleManager, Department: "Sales", Password: "octavian123"},
			{Name: "Admin", Email: cfg.AdminEmail, Phone: "0700000000", Age: 30, Role: models.RoleAdmin, Password: cfg.AdminPassword},
		}
		for i := range accounts {
			if err := auth.Register(ctx, &accounts[i]); err != nil && !errors.Is(err, repositories.ErrDuplicate) {
				return fmt.Errorf("failed to seed user %s: %w", accounts[i].Email, err)
			}
		}
		logger.Info().Int("count", len(accounts)).Msg("seeded users")
	}

	existing, err := products.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check products before seeding: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, in := range demoProducts {
		if _, err := products.Create(ctx, in); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", in.Name, err)
		}
	}
	logger.Info().Int("count", len(demoProducts)).Msg("seeded products")
	return nil
}
