package growth

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path"

	"growshare/internal/models"
	"growshare/pkg/storage"

	"github.com/google/uuid"
)

// OrderReader is the slice of the orders repository the growth service
// needs: loading an order to check ownership and lifecycle state.
type OrderReader interface {
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
}

// FarmerLookup resolves the farmer profile acting behind an authenticated
// user.
type FarmerLookup interface {
	FindProfileIDByUserID(ctx context.Context, userID string) (string, error)
}

// TerminalChecker reports whether an order status is absorbing. Implemented
// by the orders package's lifecycle table.
type TerminalChecker func(models.OrderStatus) bool

// ImageFile is one uploaded photo: a name hint, its MIME type, and the
// content reader.
type ImageFile struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ServiceInterface defines the contract for the growth update service.
type ServiceInterface interface {
	AppendUpdate(ctx context.Context, farmerUserID, orderID string, req models.AppendGrowthUpdateRequest, images []ImageFile) (*models.GrowthUpdate, error)
	ListUpdates(ctx context.Context, orderID, userID, role string) ([]*models.GrowthUpdate, error)
}

// Service implements the growth update log.
type Service struct {
	repo       RepositoryInterface
	orders     OrderReader
	farmers    FarmerLookup
	uploader   storage.Uploader
	isTerminal TerminalChecker
}

// NewService creates a new growth update service.
func NewService(repo RepositoryInterface, orders OrderReader, farmers FarmerLookup, uploader storage.Uploader, isTerminal TerminalChecker) *Service {
	return &Service{repo: repo, orders: orders, farmers: farmers, uploader: uploader, isTerminal: isTerminal}
}

// AppendUpdate records a new growth log entry for an order the acting
// farmer owns, while the order is still in a non-terminal state. Image
// uploads and the log write form one logical unit: if any upload fails
// nothing is persisted, and any objects already stored are best-effort
// removed.
func (s *Service) AppendUpdate(ctx context.Context, farmerUserID, orderID string, req models.AppendGrowthUpdateRequest, images []ImageFile) (*models.GrowthUpdate, error) {
	profileID, err := s.farmers.FindProfileIDByUserID(ctx, farmerUserID)
	if err != nil {
		return nil, fmt.Errorf("service.AppendUpdate.Profile: %w", err)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.FarmerID != profileID {
		return nil, models.ErrForbidden
	}
	if s.isTerminal(order.Status) {
		return nil, fmt.Errorf("%w: order is %s, growth updates are closed", models.ErrIllegalTransition, order.Status)
	}

	if len(images) > 0 && s.uploader == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", models.ErrValidation)
	}

	urls := make([]string, 0, len(images))
	keys := make([]string, 0, len(images))
	for _, img := range images {
		key := fmt.Sprintf("growth/%s/%s%s", orderID, uuid.New().String(), path.Ext(img.Filename))
		url, err := s.uploader.Upload(ctx, key, img.ContentType, img.Content)
		if err != nil {
			// All-or-nothing: roll back the objects stored so far.
			for _, k := range keys {
				_ = s.uploader.Delete(ctx, k)
			}
			return nil, fmt.Errorf("service.AppendUpdate.Upload: %w", err)
		}
		keys = append(keys, key)
		urls = append(urls, url)
	}

	update := &models.GrowthUpdate{
		OrderID:    orderID,
		Status:     req.Status,
		Images:     urls,
		RecordedBy: profileID,
	}
	if req.Notes != "" {
		update.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	created, err := s.repo.Append(ctx, update)
	if err != nil {
		for _, k := range keys {
			_ = s.uploader.Delete(ctx, k)
		}
		return nil, fmt.Errorf("service.AppendUpdate: %w", err)
	}
	return created, nil
}

// ListUpdates returns an order's growth timeline, oldest first. Both
// parties to the order (and admins) may read it in any order state.
func (s *Service) ListUpdates(ctx context.Context, orderID, userID, role string) ([]*models.GrowthUpdate, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleAdmin:
	case models.RoleFarmer:
		profileID, err := s.farmers.FindProfileIDByUserID(ctx, userID)
		if err != nil || order.FarmerID != profileID {
			return nil, models.ErrNotFound
		}
	default:
		if order.UserID != userID {
			return nil, models.ErrNotFound
		}
	}

	updates, err := s.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.ListUpdates: %w", err)
	}
	return updates, nil
}
