package domain

import "time"

// AccountBook is a named shared ledger. Books are owned collectively by their
// members through Authority rows; a book exists only while at least one active
// Creator authority exists, and deleting a book cascades to its categories,
// expenses, and proportions.
type AccountBook struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
