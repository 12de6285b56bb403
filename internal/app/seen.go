package app

import (
	"sync"
)

// SeenLedger tracks transaction signatures already consumed so a signature
// is never notified twice within a run. Process-local only; a restart
// re-evaluates recent history.
type SeenLedger struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	order    []string // insertion order for oldest-first eviction
	capacity int      // 0 means unbounded
}

// NewSeenLedger creates a ledger. A positive capacity bounds memory for
// long-running processes by evicting the oldest signatures.
func NewSeenLedger(capacity int) *SeenLedger {
	return &SeenLedger{
		seen:     make(map[string]struct{}),
		capacity: capacity,
	}
}

// Has reports whether the signature has been marked.
func (l *SeenLedger) Has(signature string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[signature]
	return ok
}

// Mark records the signature. Idempotent.
func (l *SeenLedger) Mark(signature string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[signature]; ok {
		return
	}
	l.seen[signature] = struct{}{}
	l.order = append(l.order, signature)

	if l.capacity > 0 && len(l.order) > l.capacity {
		evicted := l.order[0]
		l.order = l.order[1:]
		delete(l.seen, evicted)
	}
}

// Len returns the number of tracked signatures.
func (l *SeenLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
