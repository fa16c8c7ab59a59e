package domain

import "time"

// Expense is one spending event inside an account book. The creator is the
// paying user. Expenses are owned by their book and destroyed with it; the
// category reference is optional and cleared when the category is deleted.
type Expense struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Note        string    `json:"note,omitempty"`
	CreatorID   string    `json:"creator_id"`
	CategoryID  string    `json:"category_id,omitempty"`
	BookID      string    `json:"book_id"`
	ReceiptPath string    `json:"receipt_path,omitempty"`
	IsRepay     bool      `json:"is_repay"`
	Description string    `json:"description,omitempty"`
	SpentAt     time.Time `json:"spent_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
