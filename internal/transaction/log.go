package transaction

import (
	"context"
	"sync"
)

// Log is the append-only transaction journal. List and ByProduct return the
// newest entries first; a limit of zero or less means no limit.
type Log interface {
	NextID(ctx context.Context) (string, error)
	Append(ctx context.Context, t Transaction) error
	List(ctx context.Context, limit int) ([]Transaction, error)
	ByProduct(ctx context.Context, productID string) ([]Transaction, error)
	ByDate(ctx context.Context, date string) ([]Transaction, error)
}

// MemoryLog keeps the journal in process memory behind a single writer lock.
type MemoryLog struct {
	mu      sync.RWMutex
	seq     int64
	entries []Transaction
}

// Verify interface compliance
var _ Log = (*MemoryLog)(nil)

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{seq: FirstSequence}
}

func (l *MemoryLog) NextID(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := FormatID(l.seq)
	l.seq++
	return id, nil
}

func (l *MemoryLog) Append(ctx context.Context, t Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, t)
	return nil
}

func (l *MemoryLog) List(ctx context.Context, limit int) ([]Transaction, error) {
	return l.collect(limit, func(Transaction) bool { return true }), nil
}

func (l *MemoryLog) ByProduct(ctx context.Context, productID string) ([]Transaction, error) {
	return l.collect(0, func(t Transaction) bool { return t.ProductID == productID }), nil
}

func (l *MemoryLog) ByDate(ctx context.Context, date string) ([]Transaction, error) {
	return l.collect(0, func(t Transaction) bool { return t.Date == date }), nil
}

// collect walks entries newest first.
func (l *MemoryLog) collect(limit int, keep func(Transaction) bool) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Transaction, 0)
	for i := len(l.entries) - 1; i >= 0; i-- {
		if !keep(l.entries[i]) {
			continue
		}
		out = append(out, l.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
