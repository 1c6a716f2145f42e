package middleware

import (
	"context"
	"testing"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddlewareMasksTranscript(t *testing.T) {
	backend := &tests.FakeOrderBackend{}
	wrapped := NewPIIMiddleware([]string{PhonePattern})(backend)
	ctx := context.Background()

	record := domain.CallRecord{
		SessionID:     "call-pii",
		CustomerPhone: "+14165550123",
		Transcript: []domain.TranscriptEntry{
			{Role: domain.RoleUser, Content: "my number is 416-555-0123"},
			{Role: domain.RoleAssistant, Content: "Got it, thanks!"},
		},
	}
	require.NoError(t, wrapped.SubmitCallRecord(ctx, record))

	sent := backend.LastRecord()
	assert.Equal(t, "my number is ***", sent.Transcript[0].Content)
	assert.Equal(t, "Got it, thanks!", sent.Transcript[1].Content)

	// The in-memory record must not be mutated.
	assert.Equal(t, "my number is 416-555-0123", record.Transcript[0].Content)
}

func TestPIIMiddlewarePassesOrdersThrough(t *testing.T) {
	backend := &tests.FakeOrderBackend{}
	wrapped := NewPIIMiddleware([]string{PhonePattern})(backend)
	ctx := context.Background()

	result, err := wrapped.SubmitOrder(ctx, domain.VoiceOrder{
		OrderType: domain.OrderTypePickup,
		Items:     []domain.OrderItem{{ItemName: "Wings", Quantity: 1}},
		Customer:  domain.Customer{Name: "Dana", Phone: "+14165550123"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	// The phone number reaches the ordering API untouched.
	assert.Equal(t, "+14165550123", backend.LastOrder().Customer.Phone)
}

func TestPIIMiddlewareCustomPatterns(t *testing.T) {
	backend := &tests.FakeOrderBackend{}
	wrapped := NewPIIMiddleware([]string{`\b\d{16}\b`})(backend)

	record := domain.CallRecord{
		Transcript: []domain.TranscriptEntry{
			{Role: domain.RoleUser, Content: "card 4111111111111111 please"},
		},
	}
	require.NoError(t, wrapped.SubmitCallRecord(context.Background(), record))
	assert.Equal(t, "card *** please", backend.LastRecord().Transcript[0].Content)
}
