// Package notify defines the outbound notification boundary. Delivery is an
// external concern: notifiers run strictly after the owning store transaction
// has committed, and their failures are logged and dropped, never propagated
// into ledger state.
package notify

import (
	"context"
	"log/slog"

	"github.com/tallyapp/tally-server/internal/domain"
)

// Notifier delivers account-setup notifications to users.
type Notifier interface {
	// BookShared tells a user that a book has been shared with them.
	BookShared(ctx context.Context, userID string, book *domain.AccountBook, role domain.Role) error
}

// LogNotifier writes notifications to the log instead of delivering them.
// Stands in for a real mail sender in development and tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// BookShared implements Notifier.
func (n *LogNotifier) BookShared(_ context.Context, userID string, book *domain.AccountBook, role domain.Role) error {
	n.logger.Info("notification: book shared",
		"user_id", userID,
		"book_id", book.ID,
		"title", book.Title,
		"role", role.String(),
	)
	return nil
}

// NoopNotifier discards all notifications. For tests.
type NoopNotifier struct{}

// BookShared implements Notifier as a no-op.
func (NoopNotifier) BookShared(context.Context, string, *domain.AccountBook, domain.Role) error {
	return nil
}
