package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = `id, farmer_id, title, location, description, total_size_sqft,
	available_size_sqft, price_per_sqft, supported_vegetables, soil_type, water_source,
	images, is_active, created_at, updated_at`

// RepositoryInterface defines the contract for the land listing repository.
type RepositoryInterface interface {
	Create(ctx context.Context, listing *models.LandListing) (*models.LandListing, error)
	FindByID(ctx context.Context, listingID string) (*models.LandListing, error)
	ListByFarmerID(ctx context.Context, farmerID string) ([]*models.LandListing, error)
	// ListVisible returns active listings belonging to approved farmers;
	// this is the only browse predicate exposed to consumers.
	ListVisible(ctx context.Context, page, limit int) ([]*models.LandListing, int, error)
	Update(ctx context.Context, listingID, farmerID string, req models.UpdateListingRequest) (*models.LandListing, error)
	Delete(ctx context.Context, listingID, farmerID string) error
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new land listing repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func scanListing(row pgx.Row) (*models.LandListing, error) {
	var l models.LandListing
	err := row.Scan(
		&l.ID, &l.FarmerID, &l.Title, &l.Location, &l.Description, &l.TotalSizeSqft,
		&l.AvailableSizeSqft, &l.PricePerSqft, &l.SupportedVegetables, &l.SoilType,
		&l.WaterSource, &l.Images, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	return &l, nil
}

func (r *Repository) Create(ctx context.Context, listing *models.LandListing) (*models.LandListing, error) {
	query := `
		INSERT INTO land_listings (farmer_id, title, location, description, total_size_sqft,
			available_size_sqft, price_per_sqft, supported_vegetables, soil_type, water_source,
			images, is_active)
		VALUES ($1, $2, $3, $4, $5, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING ` + listingColumns

	row := r.db.QueryRow(ctx, query,
		listing.FarmerID, listing.Title, listing.Location, listing.Description,
		listing.TotalSizeSqft, listing.PricePerSqft, listing.SupportedVegetables,
		listing.SoilType, listing.WaterSource, listing.Images,
	)
	created, err := scanListing(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateListing: %w", err)
	}
	return created, nil
}

func (r *Repository) FindByID(ctx context.Context, listingID string) (*models.LandListing, error) {
	query := `SELECT ` + listingColumns + ` FROM land_listings WHERE id = $1`
	listing, err := scanListing(r.db.QueryRow(ctx, query, listingID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return listing, nil
}

func (r *Repository) ListByFarmerID(ctx context.Context, farmerID string) ([]*models.LandListing, error) {
	query := `SELECT ` + listingColumns + ` FROM land_listings WHERE farmer_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, farmerID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByFarmerID.Query: %w", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *Repository) ListVisible(ctx context.Context, page, limit int) ([]*models.LandListing, int, error) {
	offset := (page - 1) * limit
	query := `
		SELECT ` + prefixColumns("l", listingColumns) + `
		FROM land_listings l
		JOIN farmer_profiles fp ON fp.id = l.farmer_id
		WHERE l.is_active AND fp.verification_status = 'approved'
		ORDER BY l.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListVisible.Query: %w", err)
	}
	defer rows.Close()

	listings, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM land_listings l
		JOIN farmer_profiles fp ON fp.id = l.farmer_id
		WHERE l.is_active AND fp.verification_status = 'approved'`
	if err := r.db.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListVisible.Count: %w", err)
	}
	return listings, total, nil
}

func (r *Repository) Update(ctx context.Context, listingID, farmerID string, req models.UpdateListingRequest) (*models.LandListing, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Title != nil {
		addClause("title", *req.Title)
	}
	if req.Location != nil {
		addClause("location", *req.Location)
	}
	if req.Description != nil {
		addClause("description", *req.Description)
	}
	if req.PricePerSqft != nil {
		addClause("price_per_sqft", *req.PricePerSqft)
	}
	if req.SupportedVegetables != nil {
		addClause("supported_vegetables", req.SupportedVegetables)
	}
	if req.SoilType != nil {
		addClause("soil_type", *req.SoilType)
	}
	if req.WaterSource != nil {
		addClause("water_source", *req.WaterSource)
	}
	if req.IsActive != nil {
		addClause("is_active", *req.IsActive)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, listingID)
	}

	addClause("updated_at", time.Now())
	args = append(args, listingID, farmerID)

	query := fmt.Sprintf(`
		UPDATE land_listings SET %s
		WHERE id = $%d AND farmer_id = $%d
		RETURNING `+listingColumns,
		strings.Join(setClauses, ", "), argIdx, argIdx+1)

	listing, err := scanListing(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateListing: %w", err)
	}
	return listing, nil
}

func (r *Repository) Delete(ctx context.Context, listingID, farmerID string) error {
	cmdTag, err := r.db.Exec(ctx,
		"DELETE FROM land_listings WHERE id = $1 AND farmer_id = $2", listingID, farmerID)
	if err != nil {
		return fmt.Errorf("repository.DeleteListing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func collectListings(rows pgx.Rows) ([]*models.LandListing, error) {
	var listings []*models.LandListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

// prefixColumns qualifies every column in a comma-separated list with a
// table alias, for use in joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
