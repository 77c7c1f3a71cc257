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
var _ driven.RecordStore = (*RecordRepo)(nil)

// RecordRepo is the SQLite implementation of the RecordStore port interface.
// Uniqueness of names and phone numbers is enforced by UNIQUE constraints on
// the phonebook table, never by a lookup before insert.
type RecordRepo struct {
	db *DB
}

// NewRecordRepo creates a new RecordRepo backed by the given DB.
func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// List returns every record in insertion order.
func (r *RecordRepo) List(ctx context.Context) ([]model.Record, error) {
	const query = `SELECT id, full_name, phone_number, created_at FROM phonebook ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var createdAt string

		if err := rows.Scan(&rec.ID, &rec.FullName, &rec.PhoneNumber, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		rec.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for record %d: %w", rec.ID, err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Add inserts a record in its own transaction. Returns driven.ErrRecordExists
// when the name or phone number is already stored.
func (r *RecordRepo) Add(ctx context.Context, record model.Record) error {
	const query = `INSERT INTO phonebook (full_name, phone_number) VALUES (?, ?)`

	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add record: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, query, record.FullName, record.PhoneNumber); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add record %q: %w", record.FullName, driven.ErrRecordExists)
		}
		return fmt.Errorf("add record %q: %w", record.FullName, err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("commit record %q: %w", record.FullName, driven.ErrRecordExists)
		}
		return fmt.Errorf("commit record %q: %w", record.FullName, err)
	}

	return nil
}

// DeleteByName removes the record whose full name matches exactly.
func (r *RecordRepo) DeleteByName(ctx context.Context, fullName string) error {
	const lookup = `SELECT id FROM phonebook WHERE full_name = ?`
	if err := r.deleteOne(ctx, lookup, fullName); err != nil {
		return fmt.Errorf("delete record by name %q: %w", fullName, err)
	}
	return nil
}

// DeleteByPhone removes the record whose phone number matches exactly.
func (r *RecordRepo) DeleteByPhone(ctx context.Context, phoneNumber string) error {
	const lookup = `SELECT id FROM phonebook WHERE phone_number = ?`
	if err := r.deleteOne(ctx, lookup, phoneNumber); err != nil {
		return fmt.Errorf("delete record by phone %q: %w", phoneNumber, err)
	}
	return nil
}

// deleteOne resolves a record id with lookup and deletes it, both inside one
// transaction. A row that vanishes between the two statements counts as not
// found.
func (r *RecordRepo) deleteOne(ctx context.Context, lookup, key string) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer rollback(tx)

	var id int64
	err = tx.QueryRowContext(ctx, lookup, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return driven.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM phonebook WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return driven.ErrRecordNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
