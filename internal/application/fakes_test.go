package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/ericfisherdev/phonebook/internal/domain/model"
	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

// --- Fake implementations ---

// fakeRecordStore is an in-memory RecordStore enforcing both uniqueness rules.
type fakeRecordStore struct {
	mu      sync.Mutex
	records []model.Record
	err     error // returned by every call when set
}

func (f *fakeRecordStore) List(_ context.Context) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Record(nil), f.records...), nil
}

func (f *fakeRecordStore) Add(_ context.Context, record model.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, r := range f.records {
		if r.FullName == record.FullName || r.PhoneNumber == record.PhoneNumber {
			return fmt.Errorf("add %q: %w", record.FullName, driven.ErrRecordExists)
		}
	}
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRecordStore) DeleteByName(_ context.Context, fullName string) error {
	return f.deleteWhere(func(r model.Record) bool { return r.FullName == fullName })
}

func (f *fakeRecordStore) DeleteByPhone(_ context.Context, phoneNumber string) error {
	return f.deleteWhere(func(r model.Record) bool { return r.PhoneNumber == phoneNumber })
}

func (f *fakeRecordStore) deleteWhere(match func(model.Record) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, r := range f.records {
		if match(r) {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return driven.ErrRecordNotFound
}

// fakeCredentialStore is an in-memory CredentialStore.
type fakeCredentialStore struct {
	users map[string]model.User
	err   error
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{users: make(map[string]model.User)}
}

func (f *fakeCredentialStore) GetUser(_ context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, driven.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeCredentialStore) SetUser(_ context.Context, user model.User) error {
	if f.err != nil {
		return f.err
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeCredentialStore) ListUsers(_ context.Context) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeCredentialStore) DeleteUser(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return driven.ErrUserNotFound
	}
	delete(f.users, username)
	return nil
}

// fakeTokenService maps opaque token strings to identities.
type fakeTokenService struct {
	tokens   map[string]model.Identity
	issueErr error
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{tokens: map[string]model.Identity{
		"read-token":  {Subject: "user", Role: model.RoleRead},
		"write-token": {Subject: "admin", Role: model.RoleReadWrite},
	}}
}

func (f *fakeTokenService) Issue(subject string, role model.Role) (model.IssuedToken, error) {
	if f.issueErr != nil {
		return model.IssuedToken{}, f.issueErr
	}
	value := "issued:" + subject
	f.tokens[value] = model.Identity{Subject: subject, Role: role}
	return model.IssuedToken{Value: value}, nil
}

func (f *fakeTokenService) Verify(token string) (model.Identity, error) {
	id, ok := f.tokens[token]
	if !ok {
		return model.Identity{}, fmt.Errorf("%w: unknown token", driven.ErrInvalidToken)
	}
	return id, nil
}

// auditEntry is one captured call to a fakeAuditSink.
type auditEntry struct {
	Event   string
	Failure bool
	Attrs   []any
}

// fakeAuditSink captures entries in memory.
type fakeAuditSink struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (f *fakeAuditSink) Record(_ context.Context, event string, attrs ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{Event: event, Attrs: attrs})
}

func (f *fakeAuditSink) Failure(_ context.Context, event string, err error, attrs ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{Event: event, Failure: true, Attrs: append(attrs, "error", err.Error())})
}

func (f *fakeAuditSink) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Event)
	}
	return out
}
