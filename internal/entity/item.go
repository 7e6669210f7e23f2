package entity

import "time"

// Item mirrors the `items` PostgreSQL table schema. A Price of 0 means no
// price was recorded.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand,omitempty"`
	URL       string    `json:"url,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
