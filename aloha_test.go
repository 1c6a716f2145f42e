package aloha_test

import (
	"context"
	"testing"
	"time"

	aloha "github.com/hamchowderr/ncr-aloha"
	"github.com/hamchowderr/ncr-aloha/pkg/adapters/memory"
	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/flow"
	"github.com/hamchowderr/ncr-aloha/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRequiresBackend(t *testing.T) {
	_, err := aloha.New(nil, nil)
	require.Error(t, err)
}

func TestServiceAnswerAndDisconnect(t *testing.T) {
	backend := &tests.FakeOrderBackend{}
	registry := memory.NewRegistry()
	svc, err := aloha.New(nil, backend, aloha.WithRegistry(registry))
	require.NoError(t, err)

	ctx := context.Background()
	_, reply, err := svc.Answer(ctx, "call-1", "+14165550001", "+14165550002")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeGreeting, reply.Node)
	assert.Equal(t, 1, svc.Live())

	// Duplicate session IDs are refused.
	_, _, err = svc.Answer(ctx, "call-1", "", "")
	require.Error(t, err)

	require.True(t, svc.Disconnect(ctx, "call-1"))
	assert.Equal(t, 0, svc.Live())
	assert.Equal(t, 1, backend.RecordCount())

	// Disconnecting an unknown session reports false.
	assert.False(t, svc.Disconnect(ctx, "call-1"))
}

func TestServiceFullOrder(t *testing.T) {
	backend := &tests.FakeOrderBackend{}
	cfg := flow.DefaultConfig()
	cfg.HangupDelay = flow.Duration(5 * time.Millisecond)
	svc, err := aloha.New(cfg, backend)
	require.NoError(t, err)

	ctx := context.Background()
	c, _, err := svc.Answer(ctx, "call-2", "", "")
	require.NoError(t, err)

	intents := []domain.Intent{
		{Name: domain.IntentSetReadyToOrder},
		{Name: domain.IntentAddItem, Args: map[string]any{"item_name": "Wings", "size": "2 lb", "modifiers": []any{"BBQ"}}},
		{Name: domain.IntentCompleteOrder},
		{Name: domain.IntentConfirmOrder},
		{Name: domain.IntentSetCustomerInfo, Args: map[string]any{"name": "Dana", "phone": "+14165550123"}},
		{Name: domain.IntentEndCall},
	}
	for _, intent := range intents {
		_, err := c.HandleIntent(ctx, intent)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, backend.SubmitCount())
	assert.Equal(t, "Wings", backend.LastOrder().Items[0].ItemName)

	// The hangup timer flushes the record and frees the session slot.
	require.Eventually(t, func() bool {
		return backend.RecordCount() == 1 && svc.Live() == 0
	}, time.Second, 5*time.Millisecond)
	assert.True(t, backend.LastRecord().OrderSubmitted)
}

func TestServiceShutdownFlushesAll(t *testing.T) {
	backend := &tests.FakeOrderBackend{}
	svc, err := aloha.New(nil, backend)
	require.NoError(t, err)

	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, _, err := svc.Answer(ctx, id, "", "")
		require.NoError(t, err)
	}

	svc.Shutdown(ctx)
	assert.Equal(t, 3, backend.RecordCount())
	assert.Equal(t, 0, svc.Live())
}
