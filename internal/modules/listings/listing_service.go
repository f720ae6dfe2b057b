package listings

import (
	"context"
	"database/sql"
	"fmt"

	"growshare/internal/models"
)

// FarmerLookup resolves the farmer profile acting behind an authenticated
// user.
type FarmerLookup interface {
	FindProfileIDByUserID(ctx context.Context, userID string) (string, error)
	FindByUserID(ctx context.Context, userID string) (*models.FarmerProfile, error)
}

// ServiceInterface defines the contract for the land listing service.
type ServiceInterface interface {
	CreateListing(ctx context.Context, farmerUserID string, req models.CreateListingRequest) (*models.LandListing, error)
	GetListing(ctx context.Context, listingID string) (*models.LandListing, error)
	ListMyListings(ctx context.Context, farmerUserID string) ([]*models.LandListing, error)
	BrowseListings(ctx context.Context, page, limit int) ([]*models.LandListing, int, error)
	UpdateListing(ctx context.Context, farmerUserID, listingID string, req models.UpdateListingRequest) (*models.LandListing, error)
	DeleteListing(ctx context.Context, farmerUserID, listingID string) error
}

// Service implements the land listing logic.
type Service struct {
	repo    RepositoryInterface
	farmers FarmerLookup
}

// NewService creates a new land listing service.
func NewService(repo RepositoryInterface, farmers FarmerLookup) *Service {
	return &Service{repo: repo, farmers: farmers}
}

// CreateListing publishes a new listing for the acting farmer. Only
// approved farmers may list land; the available size starts equal to the
// total size.
func (s *Service) CreateListing(ctx context.Context, farmerUserID string, req models.CreateListingRequest) (*models.LandListing, error) {
	profile, err := s.farmers.FindByUserID(ctx, farmerUserID)
	if err != nil {
		return nil, fmt.Errorf("service.CreateListing.Profile: %w", err)
	}
	if profile.VerificationStatus != models.VerificationApproved {
		return nil, fmt.Errorf("%w: farmer profile is not approved", models.ErrForbidden)
	}

	listing := &models.LandListing{
		FarmerID:            profile.ID,
		Title:               req.Title,
		Location:            req.Location,
		TotalSizeSqft:       req.TotalSizeSqft,
		PricePerSqft:        req.PricePerSqft,
		SupportedVegetables: req.SupportedVegetables,
		Images:              req.Images,
	}
	if req.Description != "" {
		listing.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if req.SoilType != "" {
		listing.SoilType = sql.NullString{String: req.SoilType, Valid: true}
	}
	if req.WaterSource != "" {
		listing.WaterSource = sql.NullString{String: req.WaterSource, Valid: true}
	}

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("service.CreateListing: %w", err)
	}
	return created, nil
}

// GetListing retrieves a single listing.
func (s *Service) GetListing(ctx context.Context, listingID string) (*models.LandListing, error) {
	return s.repo.FindByID(ctx, listingID)
}

// ListMyListings returns every listing the acting farmer owns, including
// inactive ones.
func (s *Service) ListMyListings(ctx context.Context, farmerUserID string) ([]*models.LandListing, error) {
	farmerID, err := s.farmers.FindProfileIDByUserID(ctx, farmerUserID)
	if err != nil {
		return nil, fmt.Errorf("service.ListMyListings.Profile: %w", err)
	}
	listings, err := s.repo.ListByFarmerID(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("service.ListMyListings: %w", err)
	}
	return listings, nil
}

// BrowseListings returns consumer-visible listings: active, on approved
// farms only.
func (s *Service) BrowseListings(ctx context.Context, page, limit int) ([]*models.LandListing, int, error) {
	return s.repo.ListVisible(ctx, page, limit)
}

// UpdateListing edits a listing the acting farmer owns.
func (s *Service) UpdateListing(ctx context.Context, farmerUserID, listingID string, req models.UpdateListingRequest) (*models.LandListing, error) {
	farmerID, err := s.farmers.FindProfileIDByUserID(ctx, farmerUserID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateListing.Profile: %w", err)
	}
	listing, err := s.repo.Update(ctx, listingID, farmerID, req)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateListing: %w", err)
	}
	return listing, nil
}

// DeleteListing removes a listing the acting farmer owns.
func (s *Service) DeleteListing(ctx context.Context, farmerUserID, listingID string) error {
	farmerID, err := s.farmers.FindProfileIDByUserID(ctx, farmerUserID)
	if err != nil {
		return fmt.Errorf("service.DeleteListing.Profile: %w", err)
	}
	return s.repo.Delete(ctx, listingID, farmerID)
}
