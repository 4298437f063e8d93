package services

import (
	"context"

	"github.com/rs/zerolog"

	"bistro/internal/models"
	"bistro/internal/repositories"
)

// UserService exposes admin user management.
type UserService struct {
	repo   repositories.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo repositories.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger.With().Str("component", "users").Logger()}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Uint("id", id).Msg("user deleted")
	return nil
}
