package models

// ChatMessage is a single turn in an advisory chat exchange.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

// AdvisorRequest is the request body for the AI advisory relay. Type selects
// the system prompt; Context carries optional platform data (trending
// vegetables, order stats) that is folded into the prompt.
type AdvisorRequest struct {
	Messages []ChatMessage  `json:"messages" validate:"required,min=1,dive"`
	Type     string         `json:"type" validate:"required,oneof=trending health farmer admin"`
	Context  map[string]any `json:"context,omitempty"`
}

// AdvisorResponse is the relay's non-streaming reply.
type AdvisorResponse struct {
	Reply string `json:"reply"`
}

// PlatformStats is the aggregate snapshot used by admin dashboards and as
// advisory chat context.
type PlatformStats struct {
	TotalUsers        int              `json:"total_users"`
	TotalFarmers      int              `json:"total_farmers"`
	PendingFarmers    int              `json:"pending_farmers"`
	TotalOrders       int              `json:"total_orders"`
	OrdersByStatus    map[string]int   `json:"orders_by_status"`
	PopularVegetables []VegetableCount `json:"popular_vegetables"`
	TotalRevenue      float64          `json:"total_revenue"`
}

// VegetableCount pairs a vegetable name with how many orders requested it.
type VegetableCount struct {
	VegetableName string `json:"vegetable_name"`
	OrderCount    int    `json:"order_count"`
}
