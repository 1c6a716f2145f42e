package tests

import (
	"context"
	"sync"

	"github.com/hamchowderr/ncr-aloha/pkg/domain"
)

// FakeOrderBackend is a configurable in-memory ports.OrderBackend for tests.
// The zero value serves an empty menu and accepts every order.
type FakeOrderBackend struct {
	mu sync.Mutex

	Menu      domain.Menu
	MenuErr   error
	Result    domain.OrderResult
	SubmitErr error
	RecordErr error

	submitCount int
	recordCount int
	lastOrder   domain.VoiceOrder
	lastRecord  domain.CallRecord
}

func (f *FakeOrderBackend) FetchMenu(ctx context.Context) (domain.Menu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MenuErr != nil {
		return domain.Menu{}, f.MenuErr
	}
	return f.Menu, nil
}

func (f *FakeOrderBackend) SubmitOrder(ctx context.Context, order domain.VoiceOrder) (domain.OrderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCount++
	f.lastOrder = order
	if f.SubmitErr != nil {
		return domain.OrderResult{}, f.SubmitErr
	}
	if f.Result.OrderID == "" && f.Result.Errors == nil {
		return domain.OrderResult{Success: true, OrderID: "ORD-FAKE-1"}, nil
	}
	return f.Result, nil
}

func (f *FakeOrderBackend) SubmitCallRecord(ctx context.Context, record domain.CallRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordCount++
	f.lastRecord = record
	return f.RecordErr
}

// SubmitCount reports how many orders reached the backend.
func (f *FakeOrderBackend) SubmitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCount
}

// RecordCount reports how many call records reached the backend.
func (f *FakeOrderBackend) RecordCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recordCount
}

// LastOrder returns the most recently submitted order.
func (f *FakeOrderBackend) LastOrder() domain.VoiceOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastOrder
}

// LastRecord returns the most recently submitted call record.
func (f *FakeOrderBackend) LastRecord() domain.CallRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastRecord
}
