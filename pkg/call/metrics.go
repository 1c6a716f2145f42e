package call

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
)

// Metrics accumulates the record of one call: timing, transcript, and order
// outcome. It is safe for concurrent use; the transport and the conversation
// loop write to it from different goroutines.
type Metrics struct {
	mu sync.Mutex

	sessionID  string
	fromNumber string
	toNumber   string
	startTime  time.Time
	endTime    time.Time

	turnCount      int
	orderSubmitted bool
	orderID        string
	customer       *domain.Customer
	transcript     []domain.TranscriptEntry

	submitted bool
}

// NewMetrics starts the record for a call beginning now.
func NewMetrics(sessionID, fromNumber, toNumber string) *Metrics {
	return &Metrics{
		sessionID:  sessionID,
		fromNumber: fromNumber,
		toNumber:   toNumber,
		startTime:  time.Now().UTC(),
	}
}

// AddTranscript appends one utterance. Caller turns advance the turn count;
// assistant utterances do not.
func (m *Metrics) AddTranscript(role, content string) {
	if content == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transcript = append(m.transcript, domain.TranscriptEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if role == domain.RoleUser {
		m.turnCount++
	}
}

// RecordOrder stores the submission outcome.
func (m *Metrics) RecordOrder(result domain.OrderResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderSubmitted = result.Success
	m.orderID = result.OrderID
}

// RecordCustomer stores the caller identity.
func (m *Metrics) RecordCustomer(c domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customer = &c
}

// Finish stamps the call end time. Later calls keep the first stamp.
func (m *Metrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.endTime.IsZero() {
		m.endTime = time.Now().UTC()
	}
}

// Record renders the call as a submittable record.
func (m *Metrics) Record() domain.CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record()
}

// record assumes m.mu is held.
func (m *Metrics) record() domain.CallRecord {
	end := m.endTime
	if end.IsZero() {
		end = time.Now().UTC()
	}

	rec := domain.CallRecord{
		SessionID:       m.sessionID,
		FromNumber:      m.fromNumber,
		ToNumber:        m.toNumber,
		StartTime:       m.startTime,
		EndTime:         end,
		DurationSeconds: end.Sub(m.startTime).Seconds(),
		TurnCount:       m.turnCount,
		OrderSubmitted:  m.orderSubmitted,
		OrderID:         m.orderID,
		Transcript:      append([]domain.TranscriptEntry(nil), m.transcript...),
	}
	if m.customer != nil {
		rec.CustomerName = m.customer.Name
		rec.CustomerPhone = m.customer.Phone
	}
	return rec
}

// SubmitToAPI sends the call record to the backend at most once. Repeat
// calls are no-ops even when the first attempt failed.
func (m *Metrics) SubmitToAPI(ctx context.Context, backend ports.OrderBackend) error {
	m.mu.Lock()
	if m.submitted {
		m.mu.Unlock()
		return nil
	}
	m.submitted = true
	rec := m.record()
	m.mu.Unlock()

	if err := backend.SubmitCallRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to submit call record: %w", err)
	}
	return nil
}

// LogSummary emits a one-line call summary.
func (m *Metrics) LogSummary(logger *slog.Logger) {
	rec := m.Record()
	logger.Info("call ended",
		"session_id", rec.SessionID,
		"duration_s", rec.DurationSeconds,
		"turns", rec.TurnCount,
		"order_submitted", rec.OrderSubmitted,
		"order_id", rec.OrderID,
	)
}
