// Package token implements the bearer token port with HMAC-signed JWTs.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

// Compile-time interface satisfaction check.
var _ driven.TokenService = (*Service)(nil)

// claims is the JWT payload. Subject carries the username.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 tokens signed with a shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a token Service. A non-positive ttl selects DefaultTTL.
func NewService(secret []byte, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for subject carrying role, expiring after the
// configured TTL.
func (s *Service) Issue(subject string, role model.Role) (model.IssuedToken, error) {
	if subject == "" {
		return model.IssuedToken{}, errors.New("issue token: empty subject")
	}

	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return model.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature and expiry of raw and returns its identity.
// Every failure wraps driven.ErrInvalidToken.
func (s *Service) Verify(raw string) (model.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", driven.ErrInvalidToken, err)
	}

	if c.Subject == "" {
		return model.Identity{}, fmt.Errorf("%w: missing subject", driven.ErrInvalidToken)
	}

	role, err := model.ParseRole(c.Role)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %w", driven.ErrInvalidToken, err)
	}

	return model.Identity{Subject: c.Subject, Role: role}, nil
}

func (s *Service) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}
