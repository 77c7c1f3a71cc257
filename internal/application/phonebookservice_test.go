package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
)

func newTestPhoneBook() (*PhoneBookService, *fakeRecordStore, *fakeAuditSink) {
	store := &fakeRecordStore{}
	audit := &fakeAuditSink{}
	svc := NewPhoneBookService(NewGuard(newFakeTokenService()), store, audit)
	return svc, store, audit
}

func TestPhoneBookService_AddThenList(t *testing.T) {
	svc, _, audit := newTestPhoneBook()
	ctx := context.Background()

	err := svc.Add(ctx, "write-token", model.Record{FullName: "John Doe", PhoneNumber: "12345"})
	require.NoError(t, err)

	records, err := svc.List(ctx, "write-token")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "John Doe", records[0].FullName)
	assert.Equal(t, "12345", records[0].PhoneNumber)

	// Successful reads are not audited.
	assert.Equal(t, []string{"record added"}, audit.events())
}

func TestPhoneBookService_AddInvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		record model.Record
	}{
		{name: "bad phone", record: model.Record{FullName: "Jane Doe", PhoneNumber: "abcde"}},
		{name: "bad name", record: model.Record{FullName: "1234", PhoneNumber: "12345"}},
		{name: "empty name", record: model.Record{FullName: "", PhoneNumber: "12345"}},
		{name: "empty phone", record: model.Record{FullName: "Jane Doe", PhoneNumber: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, audit := newTestPhoneBook()

			err := svc.Add(context.Background(), "write-token", tt.record)
			require.ErrorIs(t, err, ErrInvalidFormat)
			assert.Empty(t, store.records)
			assert.Equal(t, []string{"add record rejected"}, audit.events())
		})
	}
}

func TestPhoneBookService_AddDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		second model.Record
	}{
		{name: "same pair", second: model.Record{FullName: "Alice Smith", PhoneNumber: "54321"}},
		{name: "same name", second: model.Record{FullName: "Alice Smith", PhoneNumber: "98765"}},
		{name: "same phone", second: model.Record{FullName: "Bob Jones", PhoneNumber: "54321"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, audit := newTestPhoneBook()
			ctx := context.Background()

			require.NoError(t, svc.Add(ctx, "write-token", model.Record{FullName: "Alice Smith", PhoneNumber: "54321"}))

			err := svc.Add(ctx, "write-token", tt.second)
			require.ErrorIs(t, err, ErrConflict)

			records, err := svc.List(ctx, "read-token")
			require.NoError(t, err)
			assert.Len(t, records, 1)
			assert.Equal(t, []string{"record added", "add record rejected"}, audit.events())
		})
	}
}

func TestPhoneBookService_ConcurrentAddSamePhone(t *testing.T) {
	svc, store, _ := newTestPhoneBook()
	ctx := context.Background()

	names := []string{"Alice Smith", "Bob Jones"}
	results := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Add(ctx, "write-token", model.Record{FullName: name, PhoneNumber: "555-1234"})
		}()
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)
	assert.Len(t, store.records, 1)
}

func TestPhoneBookService_Delete(t *testing.T) {
	svc, _, audit := newTestPhoneBook()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "write-token", model.Record{FullName: "John Doe", PhoneNumber: "12345"}))
	require.NoError(t, svc.Add(ctx, "write-token", model.Record{FullName: "Alice Smith", PhoneNumber: "54321"}))

	require.NoError(t, svc.DeleteByName(ctx, "write-token", "John Doe"))
	require.NoError(t, svc.DeleteByPhone(ctx, "write-token", "54321"))

	records, err := svc.List(ctx, "read-token")
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Equal(t, []string{"record added", "record added", "record deleted", "record deleted"}, audit.events())
}

func TestPhoneBookService_DeleteNotFound(t *testing.T) {
	svc, _, audit := newTestPhoneBook()
	ctx := context.Background()

	err := svc.DeleteByName(ctx, "write-token", "Nobody Here")
	require.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteByPhone(ctx, "write-token", "99999")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"record not found for deletion", "record not found for deletion"}, audit.events())
}

func TestPhoneBookService_ConcurrentDelete(t *testing.T) {
	svc, store, audit := newTestPhoneBook()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "write-token", model.Record{FullName: "John Doe", PhoneNumber: "12345"}))

	const deleters = 8
	results := make([]error, deleters)

	var wg sync.WaitGroup
	for i := range deleters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.DeleteByPhone(ctx, "write-token", "12345")
		}()
	}
	wg.Wait()

	var ok, notFound int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrNotFound):
			notFound++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, deleters-1, notFound)
	assert.Empty(t, store.records)

	events := audit.events()
	assert.Equal(t, 1, countEvent(events, "record deleted"))
	assert.Equal(t, deleters-1, countEvent(events, "record not found for deletion"))
}

func countEvent(events []string, name string) int {
	n := 0
	for _, e := range events {
		if e == name {
			n++
		}
	}
	return n
}

func TestPhoneBookService_RoleEnforcement(t *testing.T) {
	ops := map[string]func(svc *PhoneBookService, token string) error{
		"list": func(svc *PhoneBookService, token string) error {
			_, err := svc.List(context.Background(), token)
			return err
		},
		"add": func(svc *PhoneBookService, token string) error {
			return svc.Add(context.Background(), token, model.Record{FullName: "John Doe", PhoneNumber: "12345"})
		},
		"delete by name": func(svc *PhoneBookService, token string) error {
			return svc.DeleteByName(context.Background(), token, "John Doe")
		},
		"delete by phone": func(svc *PhoneBookService, token string) error {
			return svc.DeleteByPhone(context.Background(), token, "12345")
		},
	}

	tests := []struct {
		token string
		want  map[string]error
	}{
		{
			token: "read-token",
			want: map[string]error{
				"list":            nil,
				"add":             ErrForbidden,
				"delete by name":  ErrForbidden,
				"delete by phone": ErrForbidden,
			},
		},
		{
			token: "write-token",
			want: map[string]error{
				"list":            nil,
				"add":             nil,
				"delete by name":  nil,
				"delete by phone": nil,
			},
		},
		{
			token: "expired-or-malformed",
			want: map[string]error{
				"list":            ErrUnauthorized,
				"add":             ErrUnauthorized,
				"delete by name":  ErrUnauthorized,
				"delete by phone": ErrUnauthorized,
			},
		},
		{
			token: "",
			want: map[string]error{
				"list":            ErrUnauthorized,
				"add":             ErrUnauthorized,
				"delete by name":  ErrUnauthorized,
				"delete by phone": ErrUnauthorized,
			},
		},
	}

	for _, tt := range tests {
		for op, wantErr := range tt.want {
			t.Run(tt.token+"/"+op, func(t *testing.T) {
				svc, store, _ := newTestPhoneBook()
				store.records = []model.Record{{ID: 1, FullName: "John Doe", PhoneNumber: "12345"}}
				if op == "add" {
					store.records = nil
				}

				err := ops[op](svc, tt.token)
				if wantErr == nil {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, wantErr)
			})
		}
	}
}

func TestPhoneBookService_RejectedWriteIsAudited(t *testing.T) {
	svc, _, audit := newTestPhoneBook()

	err := svc.Add(context.Background(), "read-token", model.Record{FullName: "John Doe", PhoneNumber: "12345"})
	require.ErrorIs(t, err, ErrForbidden)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "add rejected", audit.entries[0].Event)
	assert.Contains(t, audit.entries[0].Attrs, "forbidden")
	assert.Contains(t, audit.entries[0].Attrs, "user")
}

func TestPhoneBookService_StoreFailures(t *testing.T) {
	dbErr := errors.New("disk I/O error")

	tests := []struct {
		name      string
		call      func(svc *PhoneBookService) error
		wantEvent string
	}{
		{
			name: "list",
			call: func(svc *PhoneBookService) error {
				_, err := svc.List(context.Background(), "read-token")
				return err
			},
			wantEvent: "list records failed",
		},
		{
			name: "add",
			call: func(svc *PhoneBookService) error {
				return svc.Add(context.Background(), "write-token", model.Record{FullName: "John Doe", PhoneNumber: "12345"})
			},
			wantEvent: "add record failed",
		},
		{
			name: "delete by name",
			call: func(svc *PhoneBookService) error {
				return svc.DeleteByName(context.Background(), "write-token", "John Doe")
			},
			wantEvent: "delete record failed",
		},
		{
			name: "delete by phone",
			call: func(svc *PhoneBookService) error {
				return svc.DeleteByPhone(context.Background(), "write-token", "12345")
			},
			wantEvent: "delete record failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, audit := newTestPhoneBook()
			store.err = dbErr

			err := tt.call(svc)
			require.ErrorIs(t, err, ErrInternal)
			assert.ErrorIs(t, err, dbErr)

			require.Len(t, audit.entries, 1)
			assert.Equal(t, tt.wantEvent, audit.entries[0].Event)
			assert.True(t, audit.entries[0].Failure)
		})
	}
}
