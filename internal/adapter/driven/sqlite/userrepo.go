package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the CredentialStore port interface.
// It stores bcrypt hashes produced by the caller and never sees plaintext.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser returns the account for username, or driven.ErrUserNotFound.
func (r *UserRepo) GetUser(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT username, password_hash, role, created_at, updated_at FROM users WHERE username = ?`

	row := r.db.Reader.QueryRowContext(ctx, query, username)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %q: %w", username, driven.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}

	return user, nil
}

// SetUser creates the account or replaces its password hash and role.
func (r *UserRepo) SetUser(ctx context.Context, user model.User) error {
	const query = `INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_hash = excluded.password_hash,
			role = excluded.role,
			updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.Writer.ExecContext(ctx, query, user.Username, user.PasswordHash, string(user.Role))
	if err != nil {
		return fmt.Errorf("set user %q: %w", user.Username, err)
	}
	return nil
}

// ListUsers returns all accounts ordered by username.
func (r *UserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	const query = `SELECT username, password_hash, role, created_at, updated_at FROM users ORDER BY username`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// DeleteUser removes the account, or returns driven.ErrUserNotFound.
func (r *UserRepo) DeleteUser(ctx context.Context, username string) error {
	const query = `DELETE FROM users WHERE username = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete user %q: %w", username, driven.ErrUserNotFound)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	var user model.User
	var role, createdAt, updatedAt string

	if err := s.Scan(&user.Username, &user.PasswordHash, &role, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	user.Role, err = model.ParseRole(role)
	if err != nil {
		return nil, err
	}

	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	user.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &user, nil
}
