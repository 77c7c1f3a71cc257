package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
	"github.com/ericfisherdev/phonebook/internal/domain/validation"
)

// Role sets allowed per operation.
var (
	readRoles  = []model.Role{model.RoleRead, model.RoleReadWrite}
	writeRoles = []model.Role{model.RoleReadWrite}
)

// PhoneBookService is the entry point for every phone book operation. Each
// method authorizes the token first, validates input for mutations, calls the
// store, and writes the audit trail. Successful reads are not audited.
type PhoneBookService struct {
	guard *Guard
	store driven.RecordStore
	audit driven.AuditSink
}

// NewPhoneBookService creates a PhoneBookService with the required dependencies.
func NewPhoneBookService(guard *Guard, store driven.RecordStore, audit driven.AuditSink) *PhoneBookService {
	return &PhoneBookService{
		guard: guard,
		store: store,
		audit: audit,
	}
}

// List returns all records. Allowed for read and read-write tokens.
func (s *PhoneBookService) List(ctx context.Context, token string) ([]model.Record, error) {
	identity, err := s.guard.Require(token, readRoles...)
	if err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx)
	if err != nil {
		s.audit.Failure(ctx, "list records failed", err, "subject", identity.Subject)
		return nil, fmt.Errorf("%w: list records: %w", ErrInternal, err)
	}

	return records, nil
}

// Add stores a new record after validating both fields. Allowed for
// read-write tokens only.
func (s *PhoneBookService) Add(ctx context.Context, token string, record model.Record) error {
	identity, err := s.authorizeWrite(ctx, token, "add")
	if err != nil {
		return err
	}

	attrs := []any{"subject", identity.Subject, "full_name", record.FullName, "phone_number", record.PhoneNumber}

	if !validation.ValidName(record.FullName) || !validation.ValidPhone(record.PhoneNumber) {
		s.audit.Record(ctx, "add record rejected", append(attrs, "reason", "invalid format")...)
		return ErrInvalidFormat
	}

	err = s.store.Add(ctx, record)
	switch {
	case err == nil:
		s.audit.Record(ctx, "record added", attrs...)
		return nil
	case errors.Is(err, driven.ErrRecordExists):
		s.audit.Record(ctx, "add record rejected", append(attrs, "reason", "duplicate")...)
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		s.audit.Failure(ctx, "add record failed", err, attrs...)
		return fmt.Errorf("%w: add record: %w", ErrInternal, err)
	}
}

// DeleteByName removes the record with exactly this name. Allowed for
// read-write tokens only.
func (s *PhoneBookService) DeleteByName(ctx context.Context, token, fullName string) error {
	identity, err := s.authorizeWrite(ctx, token, "delete by name")
	if err != nil {
		return err
	}

	return s.finishDelete(ctx, s.store.DeleteByName(ctx, fullName),
		"subject", identity.Subject, "full_name", fullName)
}

// DeleteByPhone removes the record with exactly this phone number. Allowed
// for read-write tokens only.
func (s *PhoneBookService) DeleteByPhone(ctx context.Context, token, phoneNumber string) error {
	identity, err := s.authorizeWrite(ctx, token, "delete by phone")
	if err != nil {
		return err
	}

	return s.finishDelete(ctx, s.store.DeleteByPhone(ctx, phoneNumber),
		"subject", identity.Subject, "phone_number", phoneNumber)
}

// authorizeWrite runs the guard for a mutating operation and audits
// rejections.
func (s *PhoneBookService) authorizeWrite(ctx context.Context, token, op string) (model.Identity, error) {
	identity, err := s.guard.Require(token, writeRoles...)
	if err != nil {
		reason := "unauthorized"
		if errors.Is(err, ErrForbidden) {
			reason = "forbidden"
		}
		s.audit.Record(ctx, op+" rejected", "subject", identity.Subject, "reason", reason)
		return model.Identity{}, err
	}
	return identity, nil
}

// finishDelete translates and audits the outcome of a store delete.
func (s *PhoneBookService) finishDelete(ctx context.Context, err error, attrs ...any) error {
	switch {
	case err == nil:
		s.audit.Record(ctx, "record deleted", attrs...)
		return nil
	case errors.Is(err, driven.ErrRecordNotFound):
		s.audit.Record(ctx, "record not found for deletion", attrs...)
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		s.audit.Failure(ctx, "delete record failed", err, attrs...)
		return fmt.Errorf("%w: delete record: %w", ErrInternal, err)
	}
}
