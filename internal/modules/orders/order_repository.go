package orders

import (
	"context"
	"errors"
	"fmt"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, farmer_id, land_listing_id, vegetable_name, land_size_sqft,
	total_price, advance_amount, final_amount, status, delivery_address, delivery_notes,
	planting_instructions, expected_harvest_date, actual_harvest_date, idempotency_key,
	created_at, updated_at`

// RepositoryInterface defines the contract for the order repository.
type RepositoryInterface interface {
	// CreateWithAdvancePayment inserts the order and its advance payment
	// record and decrements the listing's available size, all in one
	// transaction. The decrement is guarded so concurrent orders cannot
	// jointly over-allocate a listing.
	CreateWithAdvancePayment(ctx context.Context, order *models.Order, payment *models.Payment) (*models.Order, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error)
	ListByFarmerID(ctx context.Context, farmerID string, status models.OrderStatus, page, limit int) ([]*models.Order, int, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Order, int, error)
	// UpdateStatusIfCurrent performs a compare-and-swap status transition:
	// the row is updated only while its status still equals expected. It
	// returns the number of rows changed so the service can tell a lost
	// race from a missing order.
	UpdateStatusIfCurrent(ctx context.Context, orderID string, expected, next models.OrderStatus) (int64, error)
	// AdvanceWithFinalPayment transitions the order to ready_to_harvest and
	// creates the final payment record in the same transaction.
	AdvanceWithFinalPayment(ctx context.Context, orderID string, expected models.OrderStatus, payment *models.Payment) (int64, error)
	// CloseAndReleaseLand moves the order into a terminal status with the
	// same compare-and-swap guard as UpdateStatusIfCurrent and returns the
	// order's reserved size to its listing, in one transaction. Used for
	// reject and cancel, which undo the reservation taken at placement.
	CloseAndReleaseLand(ctx context.Context, order *models.Order, next models.OrderStatus) (int64, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.FarmerID, &o.LandListingID, &o.VegetableName, &o.LandSizeSqft,
		&o.TotalPrice, &o.AdvanceAmount, &o.FinalAmount, &o.Status, &o.DeliveryAddress,
		&o.DeliveryNotes, &o.PlantingInstructions, &o.ExpectedHarvestDate, &o.ActualHarvestDate,
		&o.IdempotencyKey, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

func (r *Repository) CreateWithAdvancePayment(ctx context.Context, order *models.Order, payment *models.Payment) (*models.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateWithAdvancePayment.Begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Reserve the land first. The size precondition lives inside the UPDATE
	// so two overlapping orders cannot both pass a stale client-side check.
	reserve := `
		UPDATE land_listings
		SET available_size_sqft = available_size_sqft - $1, updated_at = NOW()
		WHERE id = $2 AND is_active AND available_size_sqft >= $1`
	cmdTag, err := tx.Exec(ctx, reserve, order.LandSizeSqft, order.LandListingID)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateWithAdvancePayment.Reserve: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, models.ErrListingUnavailable
	}

	insertOrder := `
		INSERT INTO vegetable_orders (user_id, farmer_id, land_listing_id, vegetable_name,
			land_size_sqft, total_price, advance_amount, final_amount, status,
			delivery_address, delivery_notes, planting_instructions, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9, $10, $11, $12)
		RETURNING ` + orderColumns

	row := tx.QueryRow(ctx, insertOrder,
		order.UserID, order.FarmerID, order.LandListingID, order.VegetableName,
		order.LandSizeSqft, order.TotalPrice, order.AdvanceAmount, order.FinalAmount,
		order.DeliveryAddress, order.DeliveryNotes, order.PlantingInstructions, order.IdempotencyKey,
	)
	created, err := scanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Duplicate idempotency key: the same logical request already
			// created an order.
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateWithAdvancePayment.InsertOrder: %w", err)
	}

	insertPayment := `
		INSERT INTO payments (order_id, user_id, amount, payment_type, status)
		VALUES ($1, $2, $3, 'advance', 'pending')`
	if _, err := tx.Exec(ctx, insertPayment, created.ID, payment.UserID, payment.Amount); err != nil {
		return nil, fmt.Errorf("repository.CreateWithAdvancePayment.InsertPayment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateWithAdvancePayment.Commit: %w", err)
	}
	return created, nil
}

func (r *Repository) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM vegetable_orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + orderColumns + `
		FROM vegetable_orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Query: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Scan: %w", err)
	}

	var total int
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM vegetable_orders WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUserID.Count: %w", err)
	}
	return orders, total, nil
}

func (r *Repository) ListByFarmerID(ctx context.Context, farmerID string, status models.OrderStatus, page, limit int) ([]*models.Order, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + orderColumns + `
		FROM vegetable_orders
		WHERE farmer_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, farmerID, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByFarmerID.Query: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByFarmerID.Scan: %w", err)
	}

	var total int
	err = r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM vegetable_orders WHERE farmer_id = $1 AND ($2 = '' OR status = $2)",
		farmerID, string(status)).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByFarmerID.Count: %w", err)
	}
	return orders, total, nil
}

func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.Order, int, error) {
	offset := (page - 1) * limit
	query := `SELECT ` + orderColumns + `
		FROM vegetable_orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Query: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Scan: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM vegetable_orders").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListAll.Count: %w", err)
	}
	return orders, total, nil
}

func (r *Repository) UpdateStatusIfCurrent(ctx context.Context, orderID string, expected, next models.OrderStatus) (int64, error) {
	// actual_harvest_date is stamped when the harvest actually happens.
	query := `
		UPDATE vegetable_orders
		SET status = $1,
		    actual_harvest_date = CASE WHEN $1 = 'harvested' THEN NOW() ELSE actual_harvest_date END,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3`

	cmdTag, err := r.db.Exec(ctx, query, string(next), orderID, string(expected))
	if err != nil {
		return 0, fmt.Errorf("repository.UpdateStatusIfCurrent: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *Repository) AdvanceWithFinalPayment(ctx context.Context, orderID string, expected models.OrderStatus, payment *models.Payment) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository.AdvanceWithFinalPayment.Begin: %w", err)
	}
	defer tx.Rollback(ctx)

	update := `
		UPDATE vegetable_orders
		SET status = 'ready_to_harvest', updated_at = NOW()
		WHERE id = $1 AND status = $2`
	cmdTag, err := tx.Exec(ctx, update, orderID, string(expected))
	if err != nil {
		return 0, fmt.Errorf("repository.AdvanceWithFinalPayment.Update: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Lost the race; nothing written.
		return 0, nil
	}

	insert := `
		INSERT INTO payments (order_id, user_id, amount, payment_type, status)
		VALUES ($1, $2, $3, 'final', 'pending')`
	if _, err := tx.Exec(ctx, insert, orderID, payment.UserID, payment.Amount); err != nil {
		return 0, fmt.Errorf("repository.AdvanceWithFinalPayment.InsertPayment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository.AdvanceWithFinalPayment.Commit: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *Repository) CloseAndReleaseLand(ctx context.Context, order *models.Order, next models.OrderStatus) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository.CloseAndReleaseLand.Begin: %w", err)
	}
	defer tx.Rollback(ctx)

	update := `
		UPDATE vegetable_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`
	cmdTag, err := tx.Exec(ctx, update, string(next), order.ID, string(order.Status))
	if err != nil {
		return 0, fmt.Errorf("repository.CloseAndReleaseLand.Update: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Lost the race; the reservation stays with whoever won.
		return 0, nil
	}

	release := `
		UPDATE land_listings
		SET available_size_sqft = available_size_sqft + $1, updated_at = NOW()
		WHERE id = $2`
	if _, err := tx.Exec(ctx, release, order.LandSizeSqft, order.LandListingID); err != nil {
		return 0, fmt.Errorf("repository.CloseAndReleaseLand.Release: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository.CloseAndReleaseLand.Commit: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
