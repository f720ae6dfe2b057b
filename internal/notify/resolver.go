package notify

import (
	"context"
	"errors"
	"fmt"

	"growshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Resolver is a PostgreSQL implementation of PartyResolver.
type Resolver struct {
	db *pgxpool.Pool
}

func NewResolver(db *pgxpool.Pool) *Resolver {
	return &Resolver{db: db}
}

// ResolveOrderParties joins the order with its consumer account and the
// farmer profile's owning account.
func (r *Resolver) ResolveOrderParties(ctx context.Context, orderID string) (*OrderParties, error) {
	query := `
		SELECT o.vegetable_name,
		       cu.full_name, cu.email,
		       fp.farm_name, fu.email
		FROM vegetable_orders o
		JOIN users cu ON cu.id = o.user_id
		JOIN farmer_profiles fp ON fp.id = o.farmer_id
		JOIN users fu ON fu.id = fp.user_id
		WHERE o.id = $1`

	p := &OrderParties{}
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&p.VegetableName, &p.CustomerName, &p.CustomerEmail, &p.FarmName, &p.FarmerEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("notify.ResolveOrderParties: %w", err)
	}
	return p, nil
}
