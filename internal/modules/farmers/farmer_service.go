package farmers

import (
	"context"
	"fmt"

	"growshare/internal/models"
)

// ServiceInterface defines the contract for the farmer profile service.
type ServiceInterface interface {
	GetMyProfile(ctx context.Context, farmerUserID string) (*models.FarmerProfile, error)
	UpdateMyProfile(ctx context.Context, farmerUserID string, req models.UpdateFarmerProfileRequest) (*models.FarmerProfile, error)
	GetFarmer(ctx context.Context, profileID string) (*models.FarmerProfile, error)
	// ListVisibleFarmers returns approved farmers only; this is the sole
	// predicate used by consumer-facing discovery.
	ListVisibleFarmers(ctx context.Context, page, limit int) ([]*models.FarmerProfile, int, error)
	ListPendingFarmers(ctx context.Context) ([]*models.FarmerProfile, error)
	ReviewFarmer(ctx context.Context, adminID, profileID string, req models.ReviewFarmerRequest) (*models.FarmerProfile, error)
}

// Service implements the farmer profile and verification gate logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new farmer profile service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// GetMyProfile returns the acting farmer's own profile, including
// verification fields.
func (s *Service) GetMyProfile(ctx context.Context, farmerUserID string) (*models.FarmerProfile, error) {
	return s.repo.FindByUserID(ctx, farmerUserID)
}

// UpdateMyProfile edits the descriptive fields of the acting farmer's
// profile. Verification fields are admin-write-only and not reachable here.
func (s *Service) UpdateMyProfile(ctx context.Context, farmerUserID string, req models.UpdateFarmerProfileRequest) (*models.FarmerProfile, error) {
	profile, err := s.repo.Update(ctx, farmerUserID, req)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateMyProfile: %w", err)
	}
	return profile, nil
}

// GetFarmer returns a farmer profile by id. Consumers may only see approved
// farmers, so anything else reads as not found.
func (s *Service) GetFarmer(ctx context.Context, profileID string) (*models.FarmerProfile, error) {
	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.VerificationStatus != models.VerificationApproved {
		return nil, models.ErrNotFound
	}
	return profile, nil
}

// ListVisibleFarmers returns approved farmers for consumer browsing.
func (s *Service) ListVisibleFarmers(ctx context.Context, page, limit int) ([]*models.FarmerProfile, int, error) {
	return s.repo.ListApproved(ctx, page, limit)
}

// ListPendingFarmers returns the admin review queue.
func (s *Service) ListPendingFarmers(ctx context.Context) ([]*models.FarmerProfile, error) {
	return s.repo.ListPending(ctx)
}

// ReviewFarmer applies an admin's verification decision. The pending check
// and the write are one conditional update: a profile that has already been
// reviewed (or was reviewed concurrently) is never overwritten.
func (s *Service) ReviewFarmer(ctx context.Context, adminID, profileID string, req models.ReviewFarmerRequest) (*models.FarmerProfile, error) {
	decision := models.VerificationStatus(req.Decision)

	affected, err := s.repo.Review(ctx, profileID, adminID, decision, req.Notes)
	if err != nil {
		return nil, fmt.Errorf("service.ReviewFarmer: %w", err)
	}
	if affected == 0 {
		// Either the profile does not exist or it is no longer pending.
		if _, err := s.repo.FindByID(ctx, profileID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: farmer has already been reviewed", models.ErrIllegalTransition)
	}

	return s.repo.FindByID(ctx, profileID)
}
