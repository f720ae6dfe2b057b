package growth

import (
	"context"
	"fmt"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the growth update repository.
// The log is append-only: there is deliberately no update or delete.
type RepositoryInterface interface {
	Append(ctx context.Context, update *models.GrowthUpdate) (*models.GrowthUpdate, error)
	// ListByOrderID returns the timeline oldest-first, ordered by the
	// server-assigned creation timestamp.
	ListByOrderID(ctx context.Context, orderID string) ([]*models.GrowthUpdate, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new growth update repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) Append(ctx context.Context, update *models.GrowthUpdate) (*models.GrowthUpdate, error) {
	query := `
		INSERT INTO growth_status (order_id, status, notes, images, recorded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_id, status, notes, images, recorded_by, created_at`

	row := r.db.QueryRow(ctx, query,
		update.OrderID, update.Status, update.Notes, update.Images, update.RecordedBy)

	var created models.GrowthUpdate
	err := row.Scan(&created.ID, &created.OrderID, &created.Status, &created.Notes,
		&created.Images, &created.RecordedBy, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.AppendGrowthUpdate: %w", err)
	}
	return &created, nil
}

func (r *Repository) ListByOrderID(ctx context.Context, orderID string) ([]*models.GrowthUpdate, error) {
	query := `
		SELECT id, order_id, status, notes, images, recorded_by, created_at
		FROM growth_status
		WHERE order_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListGrowthUpdates.Query: %w", err)
	}
	defer rows.Close()

	var updates []*models.GrowthUpdate
	for rows.Next() {
		var u models.GrowthUpdate
		err := rows.Scan(&u.ID, &u.OrderID, &u.Status, &u.Notes, &u.Images, &u.RecordedBy, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository.ListGrowthUpdates.Scan: %w", err)
		}
		updates = append(updates, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListGrowthUpdates.Rows: %w", err)
	}
	return updates, nil
}
