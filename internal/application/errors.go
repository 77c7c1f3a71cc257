package application

import "errors"

// Errors returned by the application services. Callers map them to transport
// status codes; details from lower layers are wrapped and never exposed.
var (
	// ErrUnauthorized means no usable credentials were presented.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but lacks the role.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidFormat means an input field failed validation.
	ErrInvalidFormat = errors.New("invalid name or phone number format")

	// ErrConflict means the name or phone number is already stored.
	ErrConflict = errors.New("record already exists")

	// ErrNotFound means no record matched the requested key.
	ErrNotFound = errors.New("record not found")

	// ErrInternal means the storage backend failed unexpectedly.
	ErrInternal = errors.New("internal error")
)
