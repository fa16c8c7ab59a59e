package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/store"
)

const authorityColumns = `id, user_id, book_id, role`

func scanAuthority(scanner interface{ Scan(dest ...any) error }) (*domain.Authority, error) {
	var a domain.Authority
	var role int

	if err := scanner.Scan(&a.ID, &a.UserID, &a.BookID, &role); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

// GrantAuthority creates a membership row for (user, book), or reactivates a
// left row with the granted role. An existing active row returns
// store.ErrAlreadyExists. The check-then-write runs in one transaction; a
// racing insert for the same pair is caught by the unique index either way.
func (s *Store) GrantAuthority(ctx context.Context, auth *domain.Authority) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	existing, err := scanAuthority(tx.QueryRowContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE user_id = ? AND book_id = ?`,
		auth.UserID, auth.BookID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO authorities (id, user_id, book_id, role)
			VALUES (?, ?, ?, ?)`,
			auth.ID, auth.UserID, auth.BookID, int(auth.Role),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrAlreadyExists
			}
			return fmt.Errorf("insert authority: %w", err)
		}
	case err != nil:
		return fmt.Errorf("lookup authority: %w", err)
	case existing.Active():
		return store.ErrAlreadyExists
	default:
		// Rejoin: a left row is reactivated in place so the unique
		// (user, book) index stays authoritative.
		if _, err := tx.ExecContext(ctx,
			`UPDATE authorities SET role = ? WHERE id = ?`,
			int(auth.Role), existing.ID); err != nil {
			return fmt.Errorf("reactivate authority: %w", err)
		}
		auth.ID = existing.ID
	}

	return tx.Commit()
}

// GetAuthority retrieves an authority row by ID.
// Returns store.ErrNotFound if the row does not exist.
func (s *Store) GetAuthority(ctx context.Context, id string) (*domain.Authority, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE id = ?`, id)

	a, err := scanAuthority(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAuthorityForUser returns the row binding the user to the book, left rows
// included. Returns store.ErrNotFound when no row exists at all.
func (s *Store) GetAuthorityForUser(ctx context.Context, userID, bookID string) (*domain.Authority, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE user_id = ? AND book_id = ?`,
		userID, bookID)

	a, err := scanAuthority(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAuthoritiesForBook returns all authority rows on the book, left rows
// included, most privileged first.
func (s *Store) ListAuthoritiesForBook(ctx context.Context, bookID string) ([]*domain.Authority, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE book_id = ? ORDER BY role, user_id`,
		bookID)
	if err != nil {
		return nil, fmt.Errorf("query authorities for book: %w", err)
	}
	defer rows.Close()

	var auths []*domain.Authority
	for rows.Next() {
		a, err := scanAuthority(rows)
		if err != nil {
			return nil, fmt.Errorf("scan authority: %w", err)
		}
		auths = append(auths, a)
	}
	return auths, rows.Err()
}

// countCreatorRows returns the number of creator rows on the book. Creator
// rows are active by definition, so this is the count that guards the
// last-creator rule.
func countCreatorRows(ctx context.Context, tx *sql.Tx, bookID string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM authorities WHERE book_id = ? AND role = ?`,
		bookID, int(domain.RoleCreator)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count creator rows: %w", err)
	}
	return n, nil
}

// UpdateAuthorityRole sets the role of an authority row. Reassigning the last
// creator row of a book to a lesser role is refused with store.ErrForbidden;
// the check runs in the same transaction as the write.
// Returns store.ErrNotFound if the row does not exist.
func (s *Store) UpdateAuthorityRole(ctx context.Context, id string, role domain.Role) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a, err := scanAuthority(tx.QueryRowContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup authority: %w", err)
	}

	creators, err := countCreatorRows(ctx, tx, a.BookID)
	if err != nil {
		return err
	}
	if !domain.CanAssignRole(a.Role, role, creators) {
		return store.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE authorities SET role = ? WHERE id = ?`, int(role), a.ID); err != nil {
		return fmt.Errorf("update authority role: %w", err)
	}

	return tx.Commit()
}

// LeaveBook demotes the user's own row on the book to left. Idempotent: a row
// already left is re-asserted without error. Returns store.ErrNotFound when
// the user has no row on the book.
func (s *Store) LeaveBook(ctx context.Context, userID, bookID string) (*domain.Authority, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a, err := scanAuthority(tx.QueryRowContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE user_id = ? AND book_id = ?`,
		userID, bookID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup authority: %w", err)
	}

	if a.Role != domain.RoleLeft {
		if _, err := tx.ExecContext(ctx,
			`UPDATE authorities SET role = ? WHERE id = ?`,
			int(domain.RoleLeft), a.ID); err != nil {
			return nil, fmt.Errorf("demote to left: %w", err)
		}
		a.Role = domain.RoleLeft
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// DemoteMember demotes another member's row to left on behalf of the actor.
// The rank comparison and last-creator check run inside the transaction, so
// the verdict cannot race a concurrent role change on either row.
// Returns store.ErrNotFound when the target row does not exist and
// store.ErrForbidden when the rules deny the removal.
func (s *Store) DemoteMember(ctx context.Context, actorUserID, authorityID string) (*domain.Authority, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	target, err := scanAuthority(tx.QueryRowContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE id = ?`, authorityID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup target authority: %w", err)
	}

	me, err := scanAuthority(tx.QueryRowContext(ctx,
		`SELECT `+authorityColumns+` FROM authorities WHERE user_id = ? AND book_id = ?`,
		actorUserID, target.BookID))
	if errors.Is(err, sql.ErrNoRows) {
		// No row on the book means the book is invisible to the actor.
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup actor authority: %w", err)
	}

	// Left rows never count toward the last-creator rule; only live creator
	// rows keep the book administrable.
	creators, err := countCreatorRows(ctx, tx, target.BookID)
	if err != nil {
		return nil, err
	}

	if !domain.CanRemoveMember(me, target, creators) {
		return nil, store.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE authorities SET role = ? WHERE id = ?`,
		int(domain.RoleLeft), target.ID); err != nil {
		return nil, fmt.Errorf("demote to left: %w", err)
	}
	target.Role = domain.RoleLeft

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return target, nil
}
