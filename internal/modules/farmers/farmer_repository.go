package farmers

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

const farmerColumns = `id, user_id, farm_name, location, farm_description, specializations,
	experience_years, verification_status, verification_notes, verified_at, verified_by,
	created_at, updated_at`

// RepositoryInterface defines the contract for the farmer profile repository.
type RepositoryInterface interface {
	FindByID(ctx context.Context, profileID string) (*models.FarmerProfile, error)
	FindByUserID(ctx context.Context, userID string) (*models.FarmerProfile, error)
	FindProfileIDByUserID(ctx context.Context, userID string) (string, error)
	Update(ctx context.Context, userID string, req models.UpdateFarmerProfileRequest) (*models.FarmerProfile, error)
	ListPending(ctx context.Context) ([]*models.FarmerProfile, error)
	ListApproved(ctx context.Context, page, limit int) ([]*models.FarmerProfile, int, error)
	// Review applies a verification decision only while the profile is
	// still pending; it returns the number of rows changed so the service
	// can distinguish a lost race from a missing profile.
	Review(ctx context.Context, profileID, adminID string, decision models.VerificationStatus, notes string) (int64, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new farmer profile repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func scanFarmer(row pgx.Row) (*models.FarmerProfile, error) {
	var f models.FarmerProfile
	err := row.Scan(
		&f.ID, &f.UserID, &f.FarmName, &f.Location, &f.FarmDescription, &f.Specializations,
		&f.ExperienceYears, &f.VerificationStatus, &f.VerificationNotes, &f.VerifiedAt,
		&f.VerifiedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan farmer profile: %w", err)
	}
	return &f, nil
}

func (r *Repository) FindByID(ctx context.Context, profileID string) (*models.FarmerProfile, error) {
	query := `SELECT ` + farmerColumns + ` FROM farmer_profiles WHERE id = $1`
	profile, err := scanFarmer(r.db.QueryRow(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return profile, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID string) (*models.FarmerProfile, error) {
	query := `SELECT ` + farmerColumns + ` FROM farmer_profiles WHERE user_id = $1`
	profile, err := scanFarmer(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByUserID: %w", err)
	}
	return profile, nil
}

func (r *Repository) FindProfileIDByUserID(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, "SELECT id FROM farmer_profiles WHERE user_id = $1", userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("repository.FindProfileIDByUserID: %w", err)
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, userID string, req models.UpdateFarmerProfileRequest) (*models.FarmerProfile, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.FarmName != nil {
		addClause("farm_name", *req.FarmName)
	}
	if req.Location != nil {
		addClause("location", *req.Location)
	}
	if req.FarmDescription != nil {
		addClause("farm_description", *req.FarmDescription)
	}
	if req.Specializations != nil {
		addClause("specializations", req.Specializations)
	}
	if req.ExperienceYears != nil {
		addClause("experience_years", *req.ExperienceYears)
	}

	if len(setClauses) == 0 {
		return r.FindByUserID(ctx, userID)
	}

	addClause("updated_at", time.Now())
	args = append(args, userID)

	query := fmt.Sprintf(`
		UPDATE farmer_profiles SET %s
		WHERE user_id = $%d
		RETURNING `+farmerColumns,
		strings.Join(setClauses, ", "), argIdx)

	profile, err := scanFarmer(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateFarmer: %w", err)
	}
	return profile, nil
}

func (r *Repository) ListPending(ctx context.Context) ([]*models.FarmerProfile, error) {
	query := `SELECT ` + farmerColumns + `
		FROM farmer_profiles
		WHERE verification_status = 'pending'
		ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListPending.Query: %w", err)
	}
	defer rows.Close()
	return collectFarmers(rows)
}

func (r *Repository) ListApproved(ctx context.Context, page, limit int) ([]*models.FarmerProfile, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + farmerColumns + `
		FROM farmer_profiles
		WHERE verification_status = 'approved'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListApproved.Query: %w", err)
	}
	defer rows.Close()

	profiles, err := collectFarmers(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM farmer_profiles WHERE verification_status = 'approved'").Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListApproved.Count: %w", err)
	}
	return profiles, total, nil
}

func (r *Repository) Review(ctx context.Context, profileID, adminID string, decision models.VerificationStatus, notes string) (int64, error) {
	query := `
		UPDATE farmer_profiles
		SET verification_status = $1, verification_notes = $2, verified_at = NOW(),
		    verified_by = $3, updated_at = NOW()
		WHERE id = $4 AND verification_status = 'pending'`

	cmdTag, err := r.db.Exec(ctx, query, string(decision), notes, adminID, profileID)
	if err != nil {
		return 0, fmt.Errorf("repository.Review: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func collectFarmers(rows pgx.Rows) ([]*models.FarmerProfile, error) {
	var profiles []*models.FarmerProfile
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
