package driven

import (
	"errors"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
)

// ErrInvalidToken is returned by TokenService.Verify for any token that is
// malformed, badly signed, carries unknown claims, or has expired.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies stateless bearer tokens. Tokens cannot be
// revoked; they stay valid until they expire.
type TokenService interface {
	Issue(subject string, role model.Role) (model.IssuedToken, error)
	Verify(token string) (model.Identity, error)
}
