package payments

import (
	"context"
	"fmt"

	"growshare/internal/models"
)

// OrderAccess verifies the requester may see the order whose payments are
// being listed. Implemented by the orders service.
type OrderAccess interface {
	GetOrderDetails(ctx context.Context, orderID, userID, role string) (*models.Order, error)
}

// ServiceInterface defines the contract for the payment service.
type ServiceInterface interface {
	ListOrderPayments(ctx context.Context, orderID, userID, role string) ([]*models.Payment, error)
	ListMyPayments(ctx context.Context, userID string, page, limit int) ([]*models.Payment, int, error)
}

// Service implements payment reads with order-level access checks.
type Service struct {
	repo   RepositoryInterface
	orders OrderAccess
}

// NewService creates a new payment service.
func NewService(repo RepositoryInterface, orders OrderAccess) *Service {
	return &Service{repo: repo, orders: orders}
}

// ListOrderPayments returns both payment records for an order the requester
// is allowed to see.
func (s *Service) ListOrderPayments(ctx context.Context, orderID, userID, role string) ([]*models.Payment, error) {
	if _, err := s.orders.GetOrderDetails(ctx, orderID, userID, role); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.ListOrderPayments: %w", err)
	}
	return payments, nil
}

// ListMyPayments returns the requester's own payment records.
func (s *Service) ListMyPayments(ctx context.Context, userID string, page, limit int) ([]*models.Payment, int, error) {
	payments, total, err := s.repo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListMyPayments: %w", err)
	}
	return payments, total, nil
}
