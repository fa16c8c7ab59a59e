// Package identity defines the authentication boundary. Token issuance and
// account management belong to an external identity provider; the server
// only verifies bearer tokens into user identities.
package identity

import (
	"context"

	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/errors"
)

// Verifier resolves a bearer token to the user it was issued to.
type Verifier interface {
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// StaticVerifier verifies tokens against a fixed token-to-user table.
// Used in development and tests; production deployments plug in a real
// provider behind the same interface.
type StaticVerifier struct {
	users map[string]domain.User
}

// NewStaticVerifier creates a verifier over a fixed token table.
func NewStaticVerifier(users map[string]domain.User) *StaticVerifier {
	return &StaticVerifier{users: users}
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(_ context.Context, token string) (*domain.User, error) {
	u, ok := v.users[token]
	if !ok {
		return nil, errors.Unauthorized("invalid token")
	}
	return &u, nil
}
