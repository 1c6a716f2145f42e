package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
)

// CallRegistryContractTest is a reusable test suite that verifies an adapter
// complies with ports.CallRegistry.
func CallRegistryContractTest(t *testing.T, registry ports.CallRegistry) {
	t.Helper()
	ctx := context.Background()

	info := domain.CallInfo{
		SessionID:  "contract-call",
		FromNumber: "+14165550001",
		ToNumber:   "+14165550002",
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		Status:     domain.CallStatusActive,
	}

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := registry.Get(ctx, "no-such-call")
		if !errors.Is(err, domain.ErrCallNotFound) {
			t.Errorf("expected ErrCallNotFound, got %v", err)
		}
	})

	t.Run("Put_Get", func(t *testing.T) {
		if err := registry.Put(ctx, info); err != nil {
			t.Fatalf("unexpected error putting call: %v", err)
		}

		got, err := registry.Get(ctx, info.SessionID)
		if err != nil {
			t.Fatalf("unexpected error getting call: %v", err)
		}
		if got.SessionID != info.SessionID || got.Status != info.Status {
			t.Errorf("call mismatch: got %+v, want %+v", got, info)
		}
	})

	t.Run("Put_Update", func(t *testing.T) {
		updated := info
		updated.Status = domain.CallStatusEnding
		if err := registry.Put(ctx, updated); err != nil {
			t.Fatalf("unexpected error updating call: %v", err)
		}

		got, err := registry.Get(ctx, info.SessionID)
		if err != nil {
			t.Fatalf("unexpected error getting call: %v", err)
		}
		if got.Status != domain.CallStatusEnding {
			t.Errorf("expected status %q, got %q", domain.CallStatusEnding, got.Status)
		}
	})

	t.Run("List", func(t *testing.T) {
		second := info
		second.SessionID = "contract-call-2"
		if err := registry.Put(ctx, second); err != nil {
			t.Fatalf("unexpected error putting second call: %v", err)
		}

		calls, err := registry.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing calls: %v", err)
		}

		lookup := make(map[string]bool, len(calls))
		for _, c := range calls {
			lookup[c.SessionID] = true
		}
		if !lookup["contract-call"] || !lookup["contract-call-2"] {
			t.Errorf("expected both calls in list, got %v", calls)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := registry.Delete(ctx, info.SessionID); err != nil {
			t.Fatalf("unexpected error deleting call: %v", err)
		}

		_, err := registry.Get(ctx, info.SessionID)
		if !errors.Is(err, domain.ErrCallNotFound) {
			t.Errorf("expected ErrCallNotFound after delete, got %v", err)
		}

		// Deleting a missing call is not an error.
		if err := registry.Delete(ctx, info.SessionID); err != nil {
			t.Errorf("expected idempotent delete, got %v", err)
		}
	})
}
