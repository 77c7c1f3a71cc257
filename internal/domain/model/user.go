package model

import "time"

// User is a login account. PasswordHash is a bcrypt hash, never the plaintext.
type User struct {
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
