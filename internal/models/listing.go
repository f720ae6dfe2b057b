package models

import (
	"database/sql"
	"time"
)

// LandListing is a farmer-published unit of rentable growing land.
// AvailableSizeSqft is a running reservation counter: it is decremented in
// the same transaction that creates an order, guarded by an atomic
// precondition so concurrent orders cannot jointly over-allocate the land.
type LandListing struct {
	ID                  string         `json:"id"`
	FarmerID            string         `json:"farmer_id"`
	Title               string         `json:"title"`
	Location            string         `json:"location"`
	Description         sql.NullString `json:"description,omitempty"`
	TotalSizeSqft       float64        `json:"total_size_sqft"`
	AvailableSizeSqft   float64        `json:"available_size_sqft"`
	PricePerSqft        float64        `json:"price_per_sqft"`
	SupportedVegetables []string       `json:"supported_vegetables"`
	SoilType            sql.NullString `json:"soil_type,omitempty"`
	WaterSource         sql.NullString `json:"water_source,omitempty"`
	Images              []string       `json:"images"`
	IsActive            bool           `json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// SupportsVegetable reports whether the listing grows the named vegetable.
func (l *LandListing) SupportsVegetable(name string) bool {
	for _, v := range l.SupportedVegetables {
		if v == name {
			return true
		}
	}
	return false
}

// CreateListingRequest is the request body for publishing a new land listing.
type CreateListingRequest struct {
	Title               string   `json:"title" validate:"required,min=3,max=150"`
	Location            string   `json:"location" validate:"required,min=2,max=200"`
	Description         string   `json:"description,omitempty"`
	TotalSizeSqft       float64  `json:"total_size_sqft" validate:"required,gt=0"`
	PricePerSqft        float64  `json:"price_per_sqft" validate:"required,gt=0"`
	SupportedVegetables []string `json:"supported_vegetables" validate:"required,min=1,dive,min=2"`
	SoilType            string   `json:"soil_type,omitempty"`
	WaterSource         string   `json:"water_source,omitempty"`
	Images              []string `json:"images,omitempty" validate:"omitempty,dive,url"`
}

// UpdateListingRequest defines the fields a farmer may edit on a listing.
type UpdateListingRequest struct {
	Title               *string  `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Location            *string  `json:"location,omitempty" validate:"omitempty,min=2,max=200"`
	Description         *string  `json:"description,omitempty"`
	PricePerSqft        *float64 `json:"price_per_sqft,omitempty" validate:"omitempty,gt=0"`
	SupportedVegetables []string `json:"supported_vegetables,omitempty" validate:"omitempty,min=1,dive,min=2"`
	SoilType            *string  `json:"soil_type,omitempty"`
	WaterSource         *string  `json:"water_source,omitempty"`
	IsActive            *bool    `json:"is_active,omitempty"`
}
