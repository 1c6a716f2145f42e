package middleware

import (
	"context"
	"regexp"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/ports"
)

// Middleware allows wrapping an OrderBackend to add behavior.
type Middleware func(ports.OrderBackend) ports.OrderBackend

// PhonePattern matches North American phone numbers in free text.
const PhonePattern = `\+?1?[-. ]?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}`

type piiMiddleware struct {
	next     ports.OrderBackend
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of the given
// patterns in outgoing call records. The order the caller placed is not
// touched; the ordering API needs the real phone number to reach the
// customer, but archived transcripts do not.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.OrderBackend) ports.OrderBackend {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) FetchMenu(ctx context.Context) (domain.Menu, error) {
	return m.next.FetchMenu(ctx)
}

func (m *piiMiddleware) SubmitOrder(ctx context.Context, order domain.VoiceOrder) (domain.OrderResult, error) {
	return m.next.SubmitOrder(ctx, order)
}

func (m *piiMiddleware) SubmitCallRecord(ctx context.Context, record domain.CallRecord) error {
	// Clone the transcript to avoid side effects on the in-memory record.
	masked := append([]domain.TranscriptEntry(nil), record.Transcript...)
	for i := range masked {
		masked[i].Content = m.mask(masked[i].Content)
	}
	record.Transcript = masked

	return m.next.SubmitCallRecord(ctx, record)
}

func (m *piiMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, "***")
	}
	return s
}
