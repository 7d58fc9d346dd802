// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import "iter"

// MustEnqueue adds an element to the queue (producer only).
// Panics with an error wrapping ErrIllegalState if the queue is full.
//
// Use MustEnqueue only where a full queue is a bug; otherwise use Enqueue.
func (q *Queue[T]) MustEnqueue(elem *T) {
	if q.Enqueue(elem) != nil {
		panic(illegalState("queue is full"))
	}
}

// MustEnqueueAll enqueues elems in order (producer only).
// Panics with an error wrapping ErrIllegalState at the first element that
// does not fit. Elements before it remain enqueued.
func (q *Queue[T]) MustEnqueueAll(elems ...T) {
	for i := range elems {
		q.MustEnqueue(&elems[i])
	}
}

// MustDequeue removes and returns the oldest element (consumer only).
// Panics with an error wrapping ErrIllegalState if the queue is empty.
func (q *Queue[T]) MustDequeue() T {
	elem, err := q.Dequeue()
	if err != nil {
		panic(illegalState("queue is empty"))
	}
	return elem
}

// MustPeek returns the oldest element without removing it (consumer only).
// Panics with an error wrapping ErrIllegalState if the queue is empty.
func (q *Queue[T]) MustPeek() T {
	elem, err := q.Peek()
	if err != nil {
		panic(illegalState("queue is empty"))
	}
	return elem
}

// ContainsFunc reports whether some queued element satisfies match
// (consumer only).
//
// The scan covers the range between the read cursor and a write cursor
// snapshot taken at the start of the call. Elements enqueued during the
// scan are not visited, so the result describes the queue as it was at
// that snapshot.
func (q *Queue[T]) ContainsFunc(match func(T) bool) bool {
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadAcquire()
	for i := head; i < tail; i++ {
		if match(q.buffer[i&q.mask]) {
			return true
		}
	}
	return false
}

// Contains reports whether v is queued in q (consumer only).
// See [Queue.ContainsFunc] for the snapshot semantics.
func Contains[T comparable](q *Queue[T], v T) bool {
	return q.ContainsFunc(func(e T) bool { return e == v })
}

// ContainsAll reports whether every value in vals is queued in q
// (consumer only). An empty vals reports true.
func ContainsAll[T comparable](q *Queue[T], vals ...T) bool {
	for _, v := range vals {
		if !Contains(q, v) {
			return false
		}
	}
	return true
}

// The methods below are not provided by a ring queue. Removing from the
// middle, clearing, or iterating would require a snapshot copy or
// coordination between producer and consumer. Each panics with an error
// wrapping ErrUnsupported.

// Remove panics with ErrUnsupported.
func (q *Queue[T]) Remove(T) bool {
	panic(unsupported("Remove"))
}

// RemoveAll panics with ErrUnsupported.
func (q *Queue[T]) RemoveAll(...T) bool {
	panic(unsupported("RemoveAll"))
}

// RetainFunc panics with ErrUnsupported.
func (q *Queue[T]) RetainFunc(func(T) bool) bool {
	panic(unsupported("RetainFunc"))
}

// Clear panics with ErrUnsupported.
func (q *Queue[T]) Clear() {
	panic(unsupported("Clear"))
}

// All panics with ErrUnsupported.
func (q *Queue[T]) All() iter.Seq[T] {
	panic(unsupported("All"))
}

// ToSlice panics with ErrUnsupported.
func (q *Queue[T]) ToSlice() []T {
	panic(unsupported("ToSlice"))
}
