package db

import (
	"encoding/json"
	"fmt"
	"time"
)

// User represents a row in the users table. Language is the user's preferred
// chat language (ISO 639-1 code); IsActive is the soft-delete flag.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Country    string    `json:"country"`
	Language   string    `json:"language"`
	IsVerified bool      `json:"is_verified"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Company represents a row in the companies table.
type Company struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Country     string    `json:"country"`
	Industry    string    `json:"industry"`
	Website     *string   `json:"website,omitempty"`
	IsVerified  bool      `json:"is_verified"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product represents a row in the products table.
type Product struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Category    string    `json:"category"`
	PriceMin    *float64  `json:"price_min,omitempty"`
	PriceMax    *float64  `json:"price_max,omitempty"`
	Currency    string    `json:"currency"`
	MediaURL    *string   `json:"media_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Message represents a row in the messages table. Translations maps a
// receiver language code to the translated content and is stored as JSONB.
type Message struct {
	ID             int64             `json:"id"`
	ConversationID string            `json:"conversation_id"`
	SenderID       int64             `json:"sender_id"`
	ReceiverID     int64             `json:"receiver_id"`
	MessageType    string            `json:"message_type"`
	Content        string            `json:"content"`
	MediaURL       *string           `json:"media_url,omitempty"`
	Translations   map[string]string `json:"translations,omitempty"`
	IsRead         bool              `json:"is_read"`
	CreatedAt      time.Time         `json:"created_at"`
}

// MarketResearch represents a persisted comprehensive research request.
// Results is the stored JSONB document; RawMessage keeps it inline JSON on
// the wire instead of base64.
type MarketResearch struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	ProductName   string          `json:"product_name"`
	TargetCountry string          `json:"target_country"`
	Status        string          `json:"status"`
	Results       json.RawMessage `json:"results,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ConversationSummary is one entry in a user's conversation list.
type ConversationSummary struct {
	ConversationID string   `json:"conversation_id"`
	OtherUser      *User    `json:"other_user,omitempty"`
	LatestMessage  *Message `json:"latest_message,omitempty"`
	UnreadCount    int      `json:"unread_count"`
}

// ConversationID derives the canonical conversation identifier for a pair of
// users: "conv_<lower>_<higher>" so both participants compute the same ID.
func ConversationID(userA, userB int64) string {
	lo, hi := userA, userB
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("conv_%d_%d", lo, hi)
}
