package models

import (
	"database/sql"
	"time"
)

// Payment types and statuses are stored as plain strings; legality is
// enforced in the service layer, not by the database.
const (
	PaymentTypeAdvance = "advance"
	PaymentTypeFinal   = "final"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment is one of the two records (30% advance, 70% final) collected for
// an order. The advance record is created in the same transaction as the
// order; the final record is created when the order reaches ready_to_harvest.
type Payment struct {
	ID            string         `json:"id"`
	OrderID       string         `json:"order_id"`
	UserID        string         `json:"user_id"`
	Amount        float64        `json:"amount"`
	PaymentType   string         `json:"payment_type"`
	Status        string         `json:"status"`
	PaymentMethod sql.NullString `json:"payment_method,omitempty"`
	TransactionID sql.NullString `json:"transaction_id,omitempty"`
	PaidAt        sql.NullTime   `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
