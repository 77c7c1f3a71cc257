package application

import (
	"fmt"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

// Guard checks bearer tokens against per-operation role allow-lists.
type Guard struct {
	tokens driven.TokenService
}

// NewGuard creates a Guard that verifies tokens with tokens.
func NewGuard(tokens driven.TokenService) *Guard {
	return &Guard{tokens: tokens}
}

// Require verifies token and returns its identity when the embedded role is
// one of allowed. It returns ErrUnauthorized for a missing or unverifiable
// token and ErrForbidden for a valid token with the wrong role.
func (g *Guard) Require(token string, allowed ...model.Role) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	identity, err := g.tokens.Verify(token)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if !identity.Role.In(allowed...) {
		return identity, fmt.Errorf("%w: role %q may not perform this operation", ErrForbidden, identity.Role)
	}

	return identity, nil
}
