package memory

import (
	"context"
	"sync"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
)

// Registry is an in-memory implementation of ports.CallRegistry, suitable
// for single-instance deployments and tests.
type Registry struct {
	mu    sync.RWMutex
	calls map[string]domain.CallInfo
}

// NewRegistry creates an empty in-memory call registry.
func NewRegistry() *Registry {
	return &Registry{calls: make(map[string]domain.CallInfo)}
}

// Put inserts or replaces a call entry.
func (r *Registry) Put(ctx context.Context, info domain.CallInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[info.SessionID] = info
	return nil
}

// Get returns a call entry or domain.ErrCallNotFound.
func (r *Registry) Get(ctx context.Context, sessionID string) (domain.CallInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.calls[sessionID]
	if !ok {
		return domain.CallInfo{}, domain.ErrCallNotFound
	}
	return info, nil
}

// Delete removes a call entry. Deleting a missing entry is not an error.
func (r *Registry) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.calls, sessionID)
	return nil
}

// List returns all live call entries in unspecified order.
func (r *Registry) List(ctx context.Context) ([]domain.CallInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CallInfo, 0, len(r.calls))
	for _, info := range r.calls {
		out = append(out, info)
	}
	return out, nil
}
