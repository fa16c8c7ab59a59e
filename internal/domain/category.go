package domain

// Category is a label scoped to exactly one account book. Category names are
// unique within a book. Deleting a category detaches it from any expenses
// that reference it; it never deletes them.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	BookID string `json:"book_id"`
}
