package admin

import (
	"context"
	"fmt"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface declares the aggregate queries behind the admin
// dashboard and the advisory chat context.
type RepositoryInterface interface {
	GetPlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new admin repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) GetPlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	stats := &models.PlatformStats{
		OrdersByStatus: make(map[string]int),
	}

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM farmer_profiles WHERE verification_status = 'approved'),
			(SELECT COUNT(*) FROM farmer_profiles WHERE verification_status = 'pending'),
			(SELECT COUNT(*) FROM vegetable_orders),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'paid')`
	err := r.db.QueryRow(ctx, countsQuery).Scan(
		&stats.TotalUsers, &stats.TotalFarmers, &stats.PendingFarmers,
		&stats.TotalOrders, &stats.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.GetPlatformStats.Counts: %w", err)
	}

	statusRows, err := r.db.Query(ctx,
		"SELECT status, COUNT(*) FROM vegetable_orders GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("repository.GetPlatformStats.Statuses: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("repository.GetPlatformStats.Statuses.Scan: %w", err)
		}
		stats.OrdersByStatus[status] = count
	}
	if err := statusRows.Err(); err != nil {
		return nil, fmt.Errorf("repository.GetPlatformStats.Statuses.Rows: %w", err)
	}

	vegRows, err := r.db.Query(ctx, `
		SELECT vegetable_name, COUNT(*) AS order_count
		FROM vegetable_orders
		GROUP BY vegetable_name
		ORDER BY order_count DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("repository.GetPlatformStats.Vegetables: %w", err)
	}
	defer vegRows.Close()
	for vegRows.Next() {
		var vc models.VegetableCount
		if err := vegRows.Scan(&vc.VegetableName, &vc.OrderCount); err != nil {
			return nil, fmt.Errorf("repository.GetPlatformStats.Vegetables.Scan: %w", err)
		}
		stats.PopularVegetables = append(stats.PopularVegetables, vc)
	}
	if err := vegRows.Err(); err != nil {
		return nil, fmt.Errorf("repository.GetPlatformStats.Vegetables.Rows: %w", err)
	}

	return stats, nil
}
