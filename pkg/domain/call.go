package domain

import "time"

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Call statuses tracked in the registry.
const (
	CallStatusActive = "active"
	CallStatusEnding = "ending"
)

// TranscriptEntry is one finalized utterance of the call, either direction.
type TranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CallInfo is the lightweight registry view of a live call. It exists for
// routing and observability only and is deleted when the call ends; no
// conversation state outlives the call.
type CallInfo struct {
	SessionID  string    `json:"session_id"`
	FromNumber string    `json:"from_number,omitempty"`
	ToNumber   string    `json:"to_number,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	Status     string    `json:"status"`
}

// CallRecord is the call summary submitted to the backend at call end.
type CallRecord struct {
	SessionID       string            `json:"sessionId"`
	FromNumber      string            `json:"fromNumber,omitempty"`
	ToNumber        string            `json:"toNumber,omitempty"`
	StartTime       time.Time         `json:"startTime"`
	EndTime         time.Time         `json:"endTime"`
	DurationSeconds float64           `json:"durationSeconds"`
	TurnCount       int               `json:"turnCount"`
	OrderSubmitted  bool              `json:"orderSubmitted"`
	OrderID         string            `json:"orderId,omitempty"`
	CustomerName    string            `json:"customerName,omitempty"`
	CustomerPhone   string            `json:"customerPhone,omitempty"`
	Transcript      []TranscriptEntry `json:"transcript"`
}
