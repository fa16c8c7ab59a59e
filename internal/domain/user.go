package domain

// User is the identity attached to a request. Identity and authentication
// live in an external provider; the ledger only ever sees this projection.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}
