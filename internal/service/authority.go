package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tallyapp/tally-server/internal/domain"
	domainerrors "github.com/tallyapp/tally-server/internal/errors"
	"github.com/tallyapp/tally-server/internal/id"
	"github.com/tallyapp/tally-server/internal/notify"
	"github.com/tallyapp/tally-server/internal/store"
)

// AuthorityService orchestrates membership operations: sharing a book,
// changing roles, and removing members. Removal demotes the target row to
// left; rows are hard-deleted only by the book-destruction cascade.
type AuthorityService struct {
	store    store.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewAuthorityService creates a new authority service.
func NewAuthorityService(store store.Store, notifier notify.Notifier, logger *slog.Logger) *AuthorityService {
	return &AuthorityService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Share grants the target user a membership on the book. The actor must hold
// an active creator or writer role; a missing row, a left row, or a reader
// role is insufficient. Granting to a user with an active row is a conflict;
// a left row is reactivated with the new role.
func (s *AuthorityService) Share(ctx context.Context, actorID, bookID, targetUserID string, role domain.Role) (*domain.Authority, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !role.Active() {
		return nil, domainerrors.Validation("granted role must be creator, writer, or reader")
	}
	if targetUserID == "" {
		return nil, domainerrors.Validation("target user is required")
	}
	if targetUserID == actorID {
		return nil, domainerrors.Validation("cannot share a book with yourself")
	}

	me, err := s.store.GetAuthorityForUser(ctx, actorID, bookID)
	if err != nil && !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup actor authority: %w", err)
	}
	if !domain.CanGrant(me) {
		return nil, domainerrors.Forbidden("only creators and writers can share a book")
	}

	authID, err := id.Generate("auth")
	if err != nil {
		return nil, fmt.Errorf("generate authority ID: %w", err)
	}

	auth := &domain.Authority{
		ID:     authID,
		UserID: targetUserID,
		BookID: bookID,
		Role:   role,
	}

	if err := s.store.GrantAuthority(ctx, auth); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("user is already a member of this book")
		}
		return nil, fmt.Errorf("grant authority: %w", err)
	}

	s.logger.Info("book shared",
		"book_id", bookID,
		"shared_by", actorID,
		"shared_with", targetUserID,
		"role", role.String(),
	)

	// Notification runs strictly after the grant committed; a delivery
	// failure never rolls back ledger state.
	if book, err := s.store.GetBook(ctx, bookID); err == nil {
		if err := s.notifier.BookShared(ctx, targetUserID, book, role); err != nil {
			s.logger.Warn("share notification failed",
				"book_id", bookID,
				"user_id", targetUserID,
				"error", err,
			)
		}
	}

	return auth, nil
}

// GetAuthority retrieves a membership row on a book the actor can see.
func (s *AuthorityService) GetAuthority(ctx context.Context, actorID, authorityID string) (*domain.Authority, error) {
	auth, err := s.store.GetAuthority(ctx, authorityID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, actorID, auth.BookID); err != nil {
		// Invisible books and missing rows look the same to the caller.
		return nil, domainerrors.NotFound("authority not found")
	}
	return auth, nil
}

// ListAuthorities returns the membership rows of a book the actor can see,
// left rows included.
func (s *AuthorityService) ListAuthorities(ctx context.Context, actorID, bookID string) ([]*domain.Authority, error) {
	if _, err := requireMember(ctx, s.store, actorID, bookID); err != nil {
		return nil, err
	}
	return s.store.ListAuthoritiesForBook(ctx, bookID)
}

// UpdateRole changes the role of a membership row. Only a creator on the
// book may change roles, and left is not assignable here; removal and leave
// own that transition. The last creator row of a book cannot be reassigned
// to a lesser role, the same protection removal has.
func (s *AuthorityService) UpdateRole(ctx context.Context, actorID, authorityID string, role domain.Role) (*domain.Authority, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !role.Active() {
		return nil, domainerrors.Validation("role must be creator, writer, or reader")
	}

	auth, err := s.GetAuthority(ctx, actorID, authorityID)
	if err != nil {
		return nil, err
	}

	me, err := requireMember(ctx, s.store, actorID, auth.BookID)
	if err != nil {
		return nil, err
	}
	if me.Role != domain.RoleCreator {
		return nil, domainerrors.Forbidden("only a creator can change member roles")
	}

	if err := s.store.UpdateAuthorityRole(ctx, authorityID, role); err != nil {
		if domainerrors.Is(err, store.ErrForbidden) {
			return nil, domainerrors.Forbidden("cannot demote the last creator of a book")
		}
		return nil, fmt.Errorf("update authority role: %w", err)
	}
	auth.Role = role

	s.logger.Info("authority role updated",
		"authority_id", authorityID,
		"book_id", auth.BookID,
		"actor_id", actorID,
		"role", role.String(),
	)

	return auth, nil
}

// RemoveMember demotes a membership row to left on behalf of the actor. The
// actor must hold a role equal or more privileged than the target's, and the
// last creator row of a book cannot be removed this way; the book must be
// deleted instead. The rank check runs inside the store transaction so it
// cannot race a concurrent role change.
func (s *AuthorityService) RemoveMember(ctx context.Context, actorID, authorityID string) (*domain.Authority, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	auth, err := s.store.DemoteMember(ctx, actorID, authorityID)
	if err != nil {
		if domainerrors.Is(err, store.ErrForbidden) {
			return nil, domainerrors.Forbidden("insufficient role to remove this member")
		}
		return nil, err
	}

	s.logger.Info("member removed",
		"authority_id", authorityID,
		"book_id", auth.BookID,
		"actor_id", actorID,
		"user_id", auth.UserID,
	)

	return auth, nil
}
