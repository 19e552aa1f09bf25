package webhook

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity is how many records a MemorySink keeps
const DefaultMemoryCapacity = 100

// MemorySink keeps the most recent records in a fixed size ring
type MemorySink struct {
	mu       sync.RWMutex
	records  []Record
	next     int
	full     bool
	capacity int
}

// NewMemorySink creates a sink holding up to capacity records
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemorySink{
		records:  make([]Record, capacity),
		capacity: capacity,
	}
}

// Emit stores rec, evicting the oldest record when full
func (m *MemorySink) Emit(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[m.next] = rec
	m.next = (m.next + 1) % m.capacity
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent returns up to limit records, oldest first. A limit <= 0 returns all.
func (m *MemorySink) Recent(_ context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ordered []Record
	if m.full {
		ordered = append(ordered, m.records[m.next:]...)
	}
	ordered = append(ordered, m.records[:m.next]...)

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered, nil
}

// Len returns the number of stored records
func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.full {
		return m.capacity
	}
	return m.next
}
