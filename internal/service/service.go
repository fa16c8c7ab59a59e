// Package service provides the business logic layer orchestrating
// authorization verdicts with ledger store transactions. Every operation
// takes the acting user as an explicit argument; nothing below the API layer
// reads ambient request state.
package service

import (
	"context"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/errors"
	"github.com/tallyapp/tally-server/internal/store"
)

// requireMember returns the actor's active authority row on the book.
// A missing row and a left row are both reported as NotFound so callers
// cannot distinguish "no such book" from "a book you cannot see".
func requireMember(ctx context.Context, st store.Store, actorID, bookID string) (*domain.Authority, error) {
	me, err := st.GetAuthorityForUser(ctx, actorID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, err
	}
	if !domain.CanSeeBook(me) {
		return nil, errors.NotFound("book not found")
	}
	return me, nil
}
