package collector

import "sync"

// RingBuffer is a thread-safe, bounded buffer that keeps the most recent records.
type RingBuffer[T any] struct {
	records []T
	next    int
	full    bool
	mu      sync.RWMutex
}

// NewRingBuffer creates a buffer holding up to capacity records.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		panic("capacity must be greater than 0")
	}

	return &RingBuffer[T]{
		records: make([]T, capacity),
	}
}

// Add appends a record, evicting the oldest one when the buffer is full.
func (rb *RingBuffer[T]) Add(record T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.records[rb.next] = record

	rb.next++
	if rb.next == len(rb.records) {
		rb.next = 0
		rb.full = true
	}
}

// Last returns up to n of the most recent records, oldest first.
func (rb *RingBuffer[T]) Last(n int) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	count := min(max(n, 0), rb.lenLocked())
	result := make([]T, count)

	capacity := len(rb.records)
	start := rb.next - count + capacity
	for i := range count {
		result[i] = rb.records[(start+i)%capacity]
	}

	return result
}

// All returns every buffered record, oldest first.
func (rb *RingBuffer[T]) All() []T {
	return rb.Last(rb.Cap())
}

// Len returns the number of buffered records.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.lenLocked()
}

func (rb *RingBuffer[T]) lenLocked() int {
	if rb.full {
		return len(rb.records)
	}
	return rb.next
}

// Cap returns the maximum number of records.
func (rb *RingBuffer[T]) Cap() int {
	return len(rb.records)
}
