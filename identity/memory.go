package identity

import (
	"context"
	"sync"
)

var _ Repo = (*MemoryRepo)(nil)

// MemoryRepo keeps the identifiers in process memory, mirroring the
// tab-scoped storage of a single client instance. Cleared when the process
// exits.
type MemoryRepo struct {
	mu     sync.RWMutex
	userID string
	tenant string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) SetUserID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = id
	return nil
}

func (r *MemoryRepo) UserID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userID, nil
}

func (r *MemoryRepo) ClearUserID(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = ""
	return nil
}

func (r *MemoryRepo) SetTenant(_ context.Context, tenant string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenant = tenant
	return nil
}

func (r *MemoryRepo) Tenant(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tenant, nil
}

func (r *MemoryRepo) ClearTenant(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenant = ""
	return nil
}
