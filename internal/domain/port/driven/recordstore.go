// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
)

// Sentinel errors returned by RecordStore implementations.
var (
	// ErrRecordExists indicates the name or phone number is already taken.
	ErrRecordExists = errors.New("record already exists")

	// ErrRecordNotFound indicates no record matched the requested key.
	ErrRecordNotFound = errors.New("record not found")
)

// RecordStore defines the driven port for phone book persistence.
// Uniqueness of FullName and PhoneNumber is enforced by the store itself at
// commit time; Add returns ErrRecordExists when either is already present.
// The delete methods return ErrRecordNotFound when nothing matches,
// including when a concurrent delete removed the row first.
type RecordStore interface {
	List(ctx context.Context) ([]model.Record, error)
	Add(ctx context.Context, record model.Record) error
	DeleteByName(ctx context.Context, fullName string) error
	DeleteByPhone(ctx context.Context, phoneNumber string) error
}
