package models

import (
	"database/sql"
	"time"
)

// OrderStatus enumerates the states of a vegetable order's lifecycle.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusAccepted       OrderStatus = "accepted"
	StatusRejected       OrderStatus = "rejected"
	StatusPlanted        OrderStatus = "planted"
	StatusGrowing        OrderStatus = "growing"
	StatusReadyToHarvest OrderStatus = "ready_to_harvest"
	StatusHarvested      OrderStatus = "harvested"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// Order represents a consumer's request to grow a vegetable on a portion of a
// farmer's listed land. Prices are computed once at creation and frozen.
type Order struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	FarmerID             string         `json:"farmer_id"`
	LandListingID        string         `json:"land_listing_id"`
	VegetableName        string         `json:"vegetable_name"`
	LandSizeSqft         float64        `json:"land_size_sqft"`
	TotalPrice           float64        `json:"total_price"`
	AdvanceAmount        float64        `json:"advance_amount"`
	FinalAmount          float64        `json:"final_amount"`
	Status               OrderStatus    `json:"status"`
	DeliveryAddress      string         `json:"delivery_address"`
	DeliveryNotes        sql.NullString `json:"delivery_notes,omitempty"`
	PlantingInstructions sql.NullString `json:"planting_instructions,omitempty"`
	ExpectedHarvestDate  sql.NullTime   `json:"expected_harvest_date,omitempty"`
	ActualHarvestDate    sql.NullTime   `json:"actual_harvest_date,omitempty"`
	IdempotencyKey       sql.NullString `json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// PlaceOrderRequest is the request body for placing a new order against a
// land listing. The idempotency key is generated client-side so a retried
// submit cannot create a second order.
type PlaceOrderRequest struct {
	LandListingID        string  `json:"land_listing_id" validate:"required,uuid"`
	VegetableName        string  `json:"vegetable_name" validate:"required"`
	LandSizeSqft         float64 `json:"land_size_sqft" validate:"required,gt=0"`
	DeliveryAddress      string  `json:"delivery_address" validate:"required,min=5"`
	DeliveryNotes        string  `json:"delivery_notes,omitempty"`
	PlantingInstructions string  `json:"planting_instructions,omitempty"`
	IdempotencyKey       string  `json:"idempotency_key" validate:"required,uuid"`
}

// RejectOrderRequest carries the optional reason a farmer gives when
// rejecting a pending order.
type RejectOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderStatusFilter is accepted as a query parameter on order list endpoints.
type OrderStatusFilter struct {
	Status string `query:"status" validate:"omitempty,oneof=pending accepted rejected planted growing ready_to_harvest harvested delivered cancelled"`
}
