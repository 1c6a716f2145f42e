package ports

import (
	"context"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
)

// CallRegistry tracks live calls for the serving layer. It holds routing and
// observability data only; conversation state never enters the registry, and
// entries are deleted when their call ends.
type CallRegistry interface {
	// Put registers or updates a call.
	Put(ctx context.Context, info domain.CallInfo) error

	// Get retrieves a call by session ID.
	// Returns domain.ErrCallNotFound if the call is not registered.
	Get(ctx context.Context, sessionID string) (domain.CallInfo, error)

	// Delete removes a call from the registry.
	Delete(ctx context.Context, sessionID string) error

	// List returns all registered calls.
	List(ctx context.Context) ([]domain.CallInfo, error)
}
