package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

// dummyHash is compared against when the username is unknown so that a miss
// costs the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("phonebook-dummy-password"), bcrypt.DefaultCost)

// AuthService exchanges username/password credentials for bearer tokens and
// provisions accounts.
type AuthService struct {
	users  driven.CredentialStore
	tokens driven.TokenService
	audit  driven.AuditSink
}

// NewAuthService creates an AuthService with the required dependencies.
func NewAuthService(users driven.CredentialStore, tokens driven.TokenService, audit driven.AuditSink) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		audit:  audit,
	}
}

// Login checks the password for username and issues a token carrying the
// account's role. Any mismatch, including an unknown user, is ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.IssuedToken, error) {
	if username == "" || password == "" {
		s.audit.Record(ctx, "login rejected", "username", username, "reason", "missing credentials")
		return model.IssuedToken{}, fmt.Errorf("%w: missing credentials", ErrUnauthorized)
	}

	user, err := s.users.GetUser(ctx, username)
	switch {
	case errors.Is(err, driven.ErrUserNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.audit.Record(ctx, "login rejected", "username", username, "reason", "bad credentials")
		return model.IssuedToken{}, fmt.Errorf("%w: bad username or password", ErrUnauthorized)
	case err != nil:
		s.audit.Failure(ctx, "login failed", err, "username", username)
		return model.IssuedToken{}, fmt.Errorf("%w: look up user: %w", ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.audit.Record(ctx, "login rejected", "username", username, "reason", "bad credentials")
		return model.IssuedToken{}, fmt.Errorf("%w: bad username or password", ErrUnauthorized)
	}

	issued, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		s.audit.Failure(ctx, "login failed", err, "username", username)
		return model.IssuedToken{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	s.audit.Record(ctx, "login succeeded", "username", username, "role", string(user.Role))
	return issued, nil
}

// SetUser creates or replaces an account, hashing password with bcrypt.
func (s *AuthService) SetUser(ctx context.Context, username, password string, role model.Role) error {
	if username == "" {
		return errors.New("username is required")
	}
	if password == "" {
		return errors.New("password is required")
	}
	role, err := model.ParseRole(string(role))
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.SetUser(ctx, model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}); err != nil {
		return err
	}

	s.audit.Record(ctx, "user set", "username", username, "role", string(role))
	return nil
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}

// DeleteUser removes an account. Tokens already issued to it stay valid until
// they expire.
func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	if err := s.users.DeleteUser(ctx, username); err != nil {
		return err
	}
	s.audit.Record(ctx, "user deleted", "username", username)
	return nil
}
