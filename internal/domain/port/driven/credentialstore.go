package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
)

// ErrUserNotFound is returned by CredentialStore lookups for unknown usernames.
var ErrUserNotFound = errors.New("user not found")

// CredentialStore defines the driven port for login accounts. Password hashing
// happens above this interface; the store only persists hashes.
type CredentialStore interface {
	// GetUser returns the account for username, or ErrUserNotFound.
	GetUser(ctx context.Context, username string) (*model.User, error)

	// SetUser creates the account or replaces its hash and role.
	SetUser(ctx context.Context, user model.User) error

	// ListUsers returns all accounts ordered by username.
	ListUsers(ctx context.Context) ([]model.User, error)

	// DeleteUser removes the account, or returns ErrUserNotFound.
	DeleteUser(ctx context.Context, username string) error
}
