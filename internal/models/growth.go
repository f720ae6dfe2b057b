package models

import (
	"database/sql"
	"time"
)

// GrowthUpdate is a farmer-authored progress report attached to an order.
// Entries are append-only; the timeline is ordered by the server-assigned
// created_at. The Status field is a free-text growth phase tag (for example
// "sprouting" or "flowering") and is intentionally finer-grained than the
// order-level status enum.
type GrowthUpdate struct {
	ID         string         `json:"id"`
	OrderID    string         `json:"order_id"`
	Status     string         `json:"status"`
	Notes      sql.NullString `json:"notes,omitempty"`
	Images     []string       `json:"images"`
	RecordedBy string         `json:"recorded_by"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AppendGrowthUpdateRequest is the multipart-friendly request body for
// appending a growth update. Image payloads arrive as uploaded files and are
// handled separately by the handler.
type AppendGrowthUpdateRequest struct {
	Status string `json:"status" form:"status" validate:"required,min=2,max=50"`
	Notes  string `json:"notes,omitempty" form:"notes"`
}
