package refreshrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/bizgate/go-tenant-auth/token/refresh"
)

var _ refresh.Store = (*FakeRefreshStore)(nil)

// FakeRefreshStore is an in-memory refresh credential store for tests and
// local dev. Revoke carries the same compare-and-set semantics as the
// Postgres implementation so rotation races behave identically under test.
type FakeRefreshStore struct {
	tokens map[string]*refresh.Credential
	lock   sync.Mutex
}

func NewFakeRefreshStore() *FakeRefreshStore {
	return &FakeRefreshStore{
		tokens: make(map[string]*refresh.Credential),
	}
}

func (fs *FakeRefreshStore) Create(_ context.Context, tenantID, token string, expiresAt time.Time) (*refresh.Credential, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	cred := &refresh.Credential{
		Token:     token,
		TenantID:  tenantID,
		ExpiresAt: expiresAt,
		IssuedAt:  time.Now(),
	}
	fs.tokens[token] = cred
	return cred, nil
}

func (fs *FakeRefreshStore) Get(_ context.Context, token string) (*refresh.Credential, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	cred, ok := fs.tokens[token]
	if !ok {
		return nil, refresh.ErrNotFound
	}
	copied := *cred
	return &copied, nil
}

func (fs *FakeRefreshStore) Revoke(_ context.Context, token string) (bool, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	cred, ok := fs.tokens[token]
	if !ok || cred.Revoked {
		return false, nil
	}
	cred.Revoked = true
	return true, nil
}

func (fs *FakeRefreshStore) RevokeAllForTenant(_ context.Context, tenantID string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	for _, cred := range fs.tokens {
		if cred.TenantID == tenantID {
			cred.Revoked = true
		}
	}
	return nil
}

func (fs *FakeRefreshStore) SweepExpired(_ context.Context, now time.Time) (int, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	removed := 0
	for token, cred := range fs.tokens {
		if cred.ExpiresAt.Before(now) {
			delete(fs.tokens, token)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored credentials. Test helper.
func (fs *FakeRefreshStore) Len() int {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return len(fs.tokens)
}
