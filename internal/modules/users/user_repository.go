package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `u.id, u.full_name, u.email, COALESCE(u.password_hash, ''), u.phone, u.address,
	u.avatar_url, COALESCE(r.role, 'user'), u.auth_provider, COALESCE(u.auth_provider_id, ''),
	u.is_active, u.created_at, u.updated_at`

const userJoin = `FROM users u LEFT JOIN user_roles r ON r.user_id = u.id`

// RepositoryInterface defines methods for interacting with user storage.
type RepositoryInterface interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error)

	// CreateUser inserts the account, its role row, and (for farmers) the
	// pending farmer profile in one transaction.
	CreateUser(ctx context.Context, user *models.User, passwordHash, farmName, location string) (*models.User, error)
	CreateOAuthUser(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)

	SetPasswordResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	UpdatePasswordAndClearResetToken(ctx context.Context, userID, passwordHash string) error

	ListAll(ctx context.Context, page, limit int) ([]*models.User, int, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new user repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Phone, &u.Address,
		&u.AvatarURL, &u.Role, &u.AuthProvider, &u.AuthProviderID,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *Repository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` ` + userJoin + ` WHERE u.id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` ` + userJoin + ` WHERE u.email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *Repository) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` ` + userJoin + `
		WHERE u.password_reset_token = $1 AND u.password_reset_expires_at > NOW()`
	user, err := scanUser(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByPasswordResetToken: %w", err)
	}
	return user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User, passwordHash, farmName, location string) (*models.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateUser.Begin: %w", err)
	}
	defer tx.Rollback(ctx)

	insertUser := `
		INSERT INTO users (full_name, email, password_hash, auth_provider, is_active)
		VALUES ($1, $2, $3, 'local', TRUE)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, insertUser, user.FullName, user.Email, passwordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateUser.Insert: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO user_roles (user_id, role) VALUES ($1, $2)", user.ID, user.Role); err != nil {
		return nil, fmt.Errorf("repository.CreateUser.Role: %w", err)
	}

	if user.Role == models.RoleFarmer {
		insertProfile := `
			INSERT INTO farmer_profiles (user_id, farm_name, location, verification_status)
			VALUES ($1, $2, $3, 'pending')`
		if _, err := tx.Exec(ctx, insertProfile, user.ID, farmName, location); err != nil {
			return nil, fmt.Errorf("repository.CreateUser.FarmerProfile: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateUser.Commit: %w", err)
	}

	user.AuthProvider = "local"
	user.IsActive = true
	return user, nil
}

func (r *Repository) CreateOAuthUser(ctx context.Context, user *models.User) (*models.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateOAuthUser.Begin: %w", err)
	}
	defer tx.Rollback(ctx)

	insertUser := `
		INSERT INTO users (full_name, email, avatar_url, auth_provider, auth_provider_id, is_active)
		VALUES ($1, $2, $3, 'google', $4, TRUE)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, insertUser, user.FullName, user.Email, user.AvatarURL, user.AuthProviderID).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateOAuthUser.Insert: %w", err)
	}

	// OAuth signups are always plain consumers; farmers onboard through the
	// regular signup form so the farm details are collected.
	if _, err := tx.Exec(ctx,
		"INSERT INTO user_roles (user_id, role) VALUES ($1, 'user')", user.ID); err != nil {
		return nil, fmt.Errorf("repository.CreateOAuthUser.Role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateOAuthUser.Commit: %w", err)
	}

	user.Role = models.RoleUser
	return user, nil
}

func (r *Repository) Update(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if data.FullName != nil {
		addClause("full_name", *data.FullName)
	}
	if data.Phone != nil {
		addClause("phone", *data.Phone)
	}
	if data.Address != nil {
		addClause("address", *data.Address)
	}
	if data.AvatarURL != nil {
		addClause("avatar_url", *data.AvatarURL)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, userID)
	}

	addClause("updated_at", time.Now())
	args = append(args, userID)

	query := fmt.Sprintf(
		"UPDATE users u SET %s WHERE u.id = $%d RETURNING u.id",
		strings.Join(setClauses, ", "), argIdx)

	var id string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateUser: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *Repository) SetPasswordResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET password_reset_token = $1, password_reset_expires_at = $2, updated_at = NOW()
		WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, query, token, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("repository.SetPasswordResetToken: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdatePasswordAndClearResetToken(ctx context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, password_reset_token = NULL, password_reset_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdatePasswordAndClearResetToken: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + userColumns + ` ` + userJoin + `
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Query: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListAll.Scan: %w", err)
		}
		u.PasswordHash = ""
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Rows: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Count: %w", err)
	}
	return users, total, nil
}
