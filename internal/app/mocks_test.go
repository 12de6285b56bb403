package app

import (
	"context"
	"sync"

	"soltracker/clients/helius"
	"soltracker/clients/notifier"
)

// MockNotifier records every alert and status message it receives.
type MockNotifier struct {
	mu       sync.Mutex
	alerts   []notifier.SwapAlert
	statuses []string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendSwapAlert(alert notifier.SwapAlert) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alert)
}

func (m *MockNotifier) SendStatus(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, message)
}

func (m *MockNotifier) Close() error {
	return nil
}

func (m *MockNotifier) Alerts() []notifier.SwapAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifier.SwapAlert(nil), m.alerts...)
}

func (m *MockNotifier) Statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.statuses...)
}

// mockSourceStep is one Next result: a record, an error, or neither
// (which signals the source is drained and cancels the test context).
type mockSourceStep struct {
	record *TxRecord
	err    error
}

// MockSource replays a scripted sequence of records and errors. When the
// script runs out it cancels the supplied cancel func so Monitor.Run
// returns instead of blocking.
type MockSource struct {
	mu     sync.Mutex
	steps  []mockSourceStep
	cancel context.CancelFunc
	closed bool
}

func NewMockSource(cancel context.CancelFunc) *MockSource {
	return &MockSource{cancel: cancel}
}

func (m *MockSource) AddRecord(record *TxRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockSourceStep{record: record})
}

func (m *MockSource) AddError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockSourceStep{err: err})
}

func (m *MockSource) Next(ctx context.Context) (*TxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.steps) == 0 {
		if m.cancel != nil {
			m.cancel()
		}
		return nil, ctx.Err()
	}
	step := m.steps[0]
	m.steps = m.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	return step.record, nil
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// MockPrice returns a fixed SOL/USD quote or a scripted error.
type MockPrice struct {
	price float64
	err   error
	calls int
}

func (m *MockPrice) SolPriceUSD(ctx context.Context) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.price, nil
}

// MockHistory serves scripted history pages keyed by the before cursor.
type MockHistory struct {
	mu    sync.Mutex
	pages map[string][]helius.Transaction
	err   error
	calls int
}

func NewMockHistory() *MockHistory {
	return &MockHistory{pages: make(map[string][]helius.Transaction)}
}

func (m *MockHistory) SetPage(before string, txs []helius.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[before] = txs
}

func (m *MockHistory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockHistory) GetTransactions(ctx context.Context, wallet, before string, limit int) ([]helius.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[before], nil
}
