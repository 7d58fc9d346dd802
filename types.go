// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Producer is the producer half of a queue.
//
// Hand a Producer to the one goroutine that enqueues. The element is passed
// by pointer to avoid copying large structs. The queue stores a copy of
// the pointed-to value, so the original can be modified after Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// Returns nil on success, ErrWouldBlock if the queue is full.
	Enqueue(elem *T) error
	Cap() int
}

// Consumer is the consumer half of a queue.
//
// Hand a Consumer to the one goroutine that dequeues. Elements are returned
// by value, copied from the queue's internal buffer.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)

	// Peek returns the element Dequeue would return, without removing it.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Peek() (T, error)
	Cap() int
}

// Observer reads approximate occupancy. Safe from any goroutine.
type Observer interface {
	Len() int
	Empty() bool
	Cap() int
}

var (
	_ Producer[int] = (*Queue[int])(nil)
	_ Consumer[int] = (*Queue[int])(nil)
	_ Observer      = (*Queue[int])(nil)
)
