package ports

import (
	"context"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
)

// OrderBackend is the driven port for the external ordering API.
//
// Implementations own their transport concerns (timeouts, encoding); callers
// treat any returned error as "backend unavailable" and degrade per the
// conversation's error policy. Each method performs at most one network call.
type OrderBackend interface {
	// FetchMenu retrieves the restaurant menu.
	FetchMenu(ctx context.Context) (domain.Menu, error)

	// SubmitOrder submits a finished order. A decoded failure verdict from the
	// backend is returned as a result with Success=false, not as an error;
	// errors mean the backend could not be reached or understood.
	SubmitOrder(ctx context.Context, order domain.VoiceOrder) (domain.OrderResult, error)

	// SubmitCallRecord posts the end-of-call summary for observability.
	// Failures are logged by the caller, never retried.
	SubmitCallRecord(ctx context.Context, record domain.CallRecord) error
}
