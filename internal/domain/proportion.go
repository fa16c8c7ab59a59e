package domain

// Proportion is one user's assigned fee share of one expense. At most one
// proportion exists per (user, expense) pair. Every expense carries at least
// one proportion: a zero-fee row for the paying user, created with the
// expense. Proportions are owned by their expense and destroyed with it.
type Proportion struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Fee       int64  `json:"fee"`
	ExpenseID string `json:"expense_id"`
}
