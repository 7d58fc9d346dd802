// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"fmt"

	"golang.org/x/sys/cpu"
)

// Queue is a bounded single-producer single-consumer ring queue.
//
// Based on Lamport's ring buffer with cached index optimization.
// The producer caches the consumer's read cursor, and vice versa, so the
// remote cursor is only loaded when the cached snapshot is insufficient to
// make progress. Each cursor and each cached snapshot lives on its own
// cache line.
//
// Exactly one goroutine may call the producer methods (Enqueue,
// MustEnqueue, MustEnqueueAll) and exactly one goroutine may call the
// consumer methods (Dequeue, Peek, ContainsFunc and their Must variants).
// Len, Empty and Cap are safe from any goroutine.
//
// A Queue must not be copied after first use.
//
// Memory: O(capacity) with no per-slot overhead
type Queue[T any] struct {
	_          cpu.CacheLinePad
	head       cursor       // Read cursor, advanced by the consumer
	cachedTail cachedCursor // Consumer's cached view of tail
	tail       cursor       // Write cursor, advanced by the producer
	cachedHead cachedCursor // Producer's cached view of head
	buffer     []T
	mask       uint64
	uncached   bool // Refresh the remote cursor on every call
}

// New creates a new queue holding up to capacity elements.
//
// Capacity must be a power of 2 so that slot indexing reduces to a mask.
// Panics if capacity < 1 or capacity is not a power of 2. Use
// [NewBuilder] with [Builder.RoundUp] to accept arbitrary capacities.
func New[T any](capacity int) *Queue[T] {
	if err := checkCapacity(capacity); err != nil {
		panic(err)
	}
	return newQueue[T](capacity, false)
}

func newQueue[T any](capacity int, uncached bool) *Queue[T] {
	n := uint64(capacity)
	return &Queue[T]{
		buffer:   make([]T, n),
		mask:     n - 1,
		uncached: uncached,
	}
}

func checkCapacity(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("%w: %d is less than 1", ErrCapacity, capacity)
	}
	if capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w: %d is not a power of 2", ErrCapacity, capacity)
	}
	return nil
}

// Enqueue copies *elem into the queue (producer only).
// Returns ErrWouldBlock if the queue is full.
func (q *Queue[T]) Enqueue(elem *T) error {
	tail := q.tail.LoadRelaxed()
	if q.uncached || tail-q.cachedHead.v > q.mask {
		q.cachedHead.v = q.head.LoadAcquire()
		if tail-q.cachedHead.v > q.mask {
			return ErrWouldBlock
		}
	}

	q.buffer[tail&q.mask] = *elem
	q.tail.StoreRelease(tail + 1)
	return nil
}

// Dequeue removes and returns the oldest element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
//
// The vacated slot is cleared so the queue does not retain references
// held by consumed elements.
func (q *Queue[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	if !q.available(head) {
		var zero T
		return zero, ErrWouldBlock
	}

	elem := q.buffer[head&q.mask]
	var zero T
	q.buffer[head&q.mask] = zero
	q.head.StoreRelease(head + 1)
	return elem, nil
}

// Peek returns the oldest element without removing it (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
//
// Occupancy is checked before the slot is read, so Peek never observes a
// slot that has not been published at the current read cursor.
func (q *Queue[T]) Peek() (T, error) {
	head := q.head.LoadRelaxed()
	if !q.available(head) {
		var zero T
		return zero, ErrWouldBlock
	}
	return q.buffer[head&q.mask], nil
}

// available reports whether the slot at head has been published.
// Refreshes the consumer's cached tail at most once.
func (q *Queue[T]) available(head uint64) bool {
	if q.uncached || head >= q.cachedTail.v {
		q.cachedTail.v = q.tail.LoadAcquire()
		if head >= q.cachedTail.v {
			return false
		}
	}
	return true
}

// Len returns the number of elements in the queue.
//
// The read cursor is loaded on both sides of the write cursor and the pair
// is retried until the read cursor is unchanged, so the result is a count
// the queue actually held at some instant during the call. It may be stale
// by the time Len returns.
func (q *Queue[T]) Len() int {
	after := q.head.LoadAcquire()
	for {
		before := after
		tail := q.tail.LoadAcquire()
		after = q.head.LoadAcquire()
		if after == before {
			return int(tail - after)
		}
	}
}

// Empty reports whether the write cursor equals the read cursor.
// Like Len, the result may be stale by the time Empty returns.
func (q *Queue[T]) Empty() bool {
	head := q.head.LoadAcquire()
	return q.tail.LoadAcquire() == head
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return int(q.mask + 1)
}

// Uncached reports whether the queue reloads the remote cursor on every
// call instead of consulting its cached snapshot first.
func (q *Queue[T]) Uncached() bool {
	return q.uncached
}
