package model

import (
	"fmt"
	"slices"
)

// Role is the access level embedded in a bearer token.
type Role string

const (
	// RoleRead may list records.
	RoleRead Role = "read"
	// RoleReadWrite may list, add, and delete records.
	RoleReadWrite Role = "read-write"
)

// legacyRoleReadWrite is the spelling used by tokens and user tables created
// before roles were normalised.
const legacyRoleReadWrite = "read/write"

// ParseRole converts a string into a known Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case string(RoleRead):
		return RoleRead, nil
	case string(RoleReadWrite), legacyRoleReadWrite:
		return RoleReadWrite, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// In reports whether r is one of allowed.
func (r Role) In(allowed ...Role) bool {
	return slices.Contains(allowed, r)
}

// Identity is the verified set of claims carried by a bearer token.
type Identity struct {
	Subject string
	Role    Role
}
