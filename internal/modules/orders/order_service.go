package orders

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"growshare/internal/models"
	"growshare/internal/modules/payments"
	"growshare/internal/notify"
	"growshare/pkg/email"
)

// ListingFinder is the slice of the listings repository the order service
// needs: reading a listing to validate an incoming order against it.
type ListingFinder interface {
	FindByID(ctx context.Context, listingID string) (*models.LandListing, error)
}

// FarmerLookup resolves the farmer profile acting behind an authenticated
// user.
type FarmerLookup interface {
	FindProfileIDByUserID(ctx context.Context, userID string) (string, error)
}

// Notifier enqueues a best-effort notification. Implementations must never
// block or fail the caller.
type Notifier interface {
	Notify(evt notify.Event)
}

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	PlaceOrder(ctx context.Context, userID string, req models.PlaceOrderRequest) (*models.Order, error)
	GetOrderDetails(ctx context.Context, orderID, userID, role string) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error)
	ListFarmerOrders(ctx context.Context, farmerUserID string, status models.OrderStatus, page, limit int) ([]*models.Order, int, error)
	ListAllOrders(ctx context.Context, page, limit int) ([]*models.Order, int, error)
	AcceptOrder(ctx context.Context, farmerUserID, orderID string) (*models.Order, error)
	RejectOrder(ctx context.Context, farmerUserID, orderID, reason string) (*models.Order, error)
	AdvanceStatus(ctx context.Context, farmerUserID, orderID string) (*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID string) error
}

// Service implements the order lifecycle logic.
type Service struct {
	repo     RepositoryInterface
	listings ListingFinder
	farmers  FarmerLookup
	notifier Notifier
}

// NewService creates a new order service.
func NewService(repo RepositoryInterface, listings ListingFinder, farmers FarmerLookup, notifier Notifier) *Service {
	return &Service{repo: repo, listings: listings, farmers: farmers, notifier: notifier}
}

// PlaceOrder validates the request against the listing, computes the frozen
// 30/70 price split, and creates the order together with its advance payment
// record and the listing-size reservation in one transaction. A best-effort
// email to the farmer is queued afterwards; its outcome never affects the
// order.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req models.PlaceOrderRequest) (*models.Order, error) {
	listing, err := s.listings.FindByID(ctx, req.LandListingID)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceOrder.FindListing: %w", err)
	}

	if !listing.IsActive {
		return nil, models.ErrListingUnavailable
	}
	if req.LandSizeSqft > listing.AvailableSizeSqft {
		return nil, fmt.Errorf("%w: requested %.1f sqft, only %.1f available",
			models.ErrValidation, req.LandSizeSqft, listing.AvailableSizeSqft)
	}
	if !listing.SupportsVegetable(req.VegetableName) {
		return nil, fmt.Errorf("%w: %q is not grown on this listing", models.ErrValidation, req.VegetableName)
	}

	totalPrice := round2(req.LandSizeSqft * listing.PricePerSqft)
	advance, final := payments.Split(totalPrice)

	order := &models.Order{
		UserID:          userID,
		FarmerID:        listing.FarmerID,
		LandListingID:   listing.ID,
		VegetableName:   req.VegetableName,
		LandSizeSqft:    req.LandSizeSqft,
		TotalPrice:      totalPrice,
		AdvanceAmount:   advance,
		FinalAmount:     final,
		DeliveryAddress: req.DeliveryAddress,
		IdempotencyKey:  sql.NullString{String: req.IdempotencyKey, Valid: true},
	}
	if req.DeliveryNotes != "" {
		order.DeliveryNotes = sql.NullString{String: req.DeliveryNotes, Valid: true}
	}
	if req.PlantingInstructions != "" {
		order.PlantingInstructions = sql.NullString{String: req.PlantingInstructions, Valid: true}
	}

	advancePayment := &models.Payment{
		UserID:      userID,
		Amount:      advance,
		PaymentType: models.PaymentTypeAdvance,
		Status:      models.PaymentStatusPending,
	}

	created, err := s.repo.CreateWithAdvancePayment(ctx, order, advancePayment)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Event{Type: email.TypeOrderPlaced, OrderID: created.ID})
	return created, nil
}

// GetOrderDetails retrieves a single order, enforcing that the requester is
// the consumer, the owning farmer, or an admin.
func (s *Service) GetOrderDetails(ctx context.Context, orderID, userID, role string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.GetOrderDetails: %w", err)
	}

	switch role {
	case models.RoleAdmin:
		return order, nil
	case models.RoleFarmer:
		profileID, err := s.farmers.FindProfileIDByUserID(ctx, userID)
		if err != nil || order.FarmerID != profileID {
			// NotFound rather than Forbidden, to avoid leaking order ids.
			return nil, models.ErrNotFound
		}
		return order, nil
	default:
		if order.UserID != userID {
			return nil, models.ErrNotFound
		}
		return order, nil
	}
}

// ListUserOrders retrieves all orders placed by a consumer.
func (s *Service) ListUserOrders(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error) {
	orders, total, err := s.repo.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListUserOrders: %w", err)
	}
	return orders, total, nil
}

// ListFarmerOrders retrieves the orders on the acting farmer's land,
// optionally filtered by status.
func (s *Service) ListFarmerOrders(ctx context.Context, farmerUserID string, status models.OrderStatus, page, limit int) ([]*models.Order, int, error) {
	if status != "" && !IsValidStatus(status) {
		return nil, 0, fmt.Errorf("%w: unknown order status %q", models.ErrValidation, status)
	}
	profileID, err := s.farmers.FindProfileIDByUserID(ctx, farmerUserID)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListFarmerOrders.Profile: %w", err)
	}
	orders, total, err := s.repo.ListByFarmerID(ctx, profileID, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListFarmerOrders: %w", err)
	}
	return orders, total, nil
}

// ListAllOrders lists every order in the system (admin).
func (s *Service) ListAllOrders(ctx context.Context, page, limit int) ([]*models.Order, int, error) {
	return s.repo.ListAll(ctx, page, limit)
}

// AcceptOrder moves a pending order to accepted. The status check and the
// write are one conditional update, so two racing actors cannot both win.
func (s *Service) AcceptOrder(ctx context.Context, farmerUserID, orderID string) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, farmerUserID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: order is %s, only pending orders can be accepted", models.ErrIllegalTransition, order.Status)
	}

	affected, err := s.repo.UpdateStatusIfCurrent(ctx, orderID, models.StatusPending, models.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("service.AcceptOrder: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrConcurrentModification
	}

	s.notifier.Notify(notify.Event{Type: email.TypeOrderAccepted, OrderID: orderID})
	order.Status = models.StatusAccepted
	return order, nil
}

// RejectOrder moves a pending order to the terminal rejected state and
// returns the reserved land to the listing.
func (s *Service) RejectOrder(ctx context.Context, farmerUserID, orderID, reason string) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, farmerUserID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: order is %s, only pending orders can be rejected", models.ErrIllegalTransition, order.Status)
	}

	affected, err := s.repo.CloseAndReleaseLand(ctx, order, models.StatusRejected)
	if err != nil {
		return nil, fmt.Errorf("service.RejectOrder: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrConcurrentModification
	}

	s.notifier.Notify(notify.Event{Type: email.TypeOrderRejected, OrderID: orderID, Reason: reason})
	order.Status = models.StatusRejected
	return order, nil
}

// AdvanceStatus moves an order one step along the fixed growing sequence.
// Reaching ready_to_harvest also creates the final payment record, in the
// same transaction as the status change.
func (s *Service) AdvanceStatus(ctx context.Context, farmerUserID, orderID string) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, farmerUserID, orderID)
	if err != nil {
		return nil, err
	}

	if IsTerminal(order.Status) {
		return nil, fmt.Errorf("%w: order is already %s", models.ErrIllegalTransition, order.Status)
	}
	if order.Status == models.StatusPending {
		return nil, fmt.Errorf("%w: pending orders must be accepted or rejected first", models.ErrIllegalTransition)
	}

	next, ok := NextStatus(order.Status)
	if !ok {
		return nil, fmt.Errorf("%w: no next status after %s", models.ErrIllegalTransition, order.Status)
	}

	var affected int64
	if next == models.StatusReadyToHarvest {
		finalPayment := &models.Payment{
			UserID:      order.UserID,
			Amount:      order.FinalAmount,
			PaymentType: models.PaymentTypeFinal,
			Status:      models.PaymentStatusPending,
		}
		affected, err = s.repo.AdvanceWithFinalPayment(ctx, orderID, order.Status, finalPayment)
	} else {
		affected, err = s.repo.UpdateStatusIfCurrent(ctx, orderID, order.Status, next)
	}
	if err != nil {
		return nil, fmt.Errorf("service.AdvanceStatus: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrConcurrentModification
	}

	switch next {
	case models.StatusReadyToHarvest:
		s.notifier.Notify(notify.Event{Type: email.TypeReadyForDelivery, OrderID: orderID})
	case models.StatusDelivered:
		s.notifier.Notify(notify.Event{Type: email.TypeOrderDelivered, OrderID: orderID})
	}

	order.Status = next
	return order, nil
}

// CancelOrder lets the consumer cancel their own order while it is still in
// a non-terminal state. The reserved land goes back to the listing.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID string) error {
	order, err := s.GetOrderDetails(ctx, orderID, userID, models.RoleUser)
	if err != nil {
		return err
	}
	if IsTerminal(order.Status) {
		return fmt.Errorf("%w: order is already %s", models.ErrIllegalTransition, order.Status)
	}

	affected, err := s.repo.CloseAndReleaseLand(ctx, order, models.StatusCancelled)
	if err != nil {
		return fmt.Errorf("service.CancelOrder: %w", err)
	}
	if affected == 0 {
		return models.ErrConcurrentModification
	}
	return nil
}

// ownedOrder fetches an order and verifies the acting user is its farmer.
func (s *Service) ownedOrder(ctx context.Context, farmerUserID, orderID string) (*models.Order, error) {
	profileID, err := s.farmers.FindProfileIDByUserID(ctx, farmerUserID)
	if err != nil {
		return nil, fmt.Errorf("service.ownedOrder.Profile: %w", err)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.FarmerID != profileID {
		return nil, models.ErrForbidden
	}
	return order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
