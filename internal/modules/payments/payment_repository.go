package payments

import (
	"context"
	"fmt"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines read access to payment records. Writes happen
// inside the order repository's transactions, so the advance record can
// never exist without its order (and vice versa).
type RepositoryInterface interface {
	ListByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error)
	ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Payment, int, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new payment repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const paymentColumns = `id, order_id, user_id, amount, payment_type, status, payment_method, transaction_id, paid_at, created_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.PaymentType, &p.Status,
		&p.PaymentMethod, &p.TransactionID, &p.PaidAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return &p, nil
}

func (r *Repository) ListByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByOrderID.Query: %w", err)
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByOrderID.Scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListByOrderID.Rows: %w", err)
	}
	return out, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Payment, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Query: %w", err)
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListByUserID.Scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Rows: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM payments WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Count: %w", err)
	}
	return out, total, nil
}
