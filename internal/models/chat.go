package models

import "time"

// Message is one entry in the farmer↔admin support conversation. Unread
// counts are derived from the read_at column rather than kept as a separate
// counter.
type Message struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	FarmerID   string     `json:"farmer_id"`
	SenderRole string     `json:"sender_role"`
	Body       string     `json:"body"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// SendMessageRequest is the request body for posting a chat message.
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

// Conversation summarizes one farmer's thread for the admin inbox.
type Conversation struct {
	FarmerID      string    `json:"farmer_id"`
	FarmName      string    `json:"farm_name"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}
