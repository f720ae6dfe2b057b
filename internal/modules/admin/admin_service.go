package admin

import (
	"context"
	"fmt"

	"growshare/internal/models"
)

// UserLister is implemented by the users service.
type UserLister interface {
	ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error)
}

// ServiceInterface defines business logic for admin dashboards.
type ServiceInterface interface {
	GetPlatformStats(ctx context.Context) (*models.PlatformStats, error)
	ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error)
}

type Service struct {
	repo  RepositoryInterface
	users UserLister
}

func NewService(repo RepositoryInterface, users UserLister) ServiceInterface {
	return &Service{repo: repo, users: users}
}

func (s *Service) GetPlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	stats, err := s.repo.GetPlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.GetPlatformStats: %w", err)
	}
	return stats, nil
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	return s.users.ListUsers(ctx, page, limit)
}
