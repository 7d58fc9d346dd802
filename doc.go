// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package spsc provides a bounded single-producer single-consumer queue.
//
// The queue is a fixed-capacity ring buffer shared by exactly one producer
// goroutine and exactly one consumer goroutine. No operation blocks, takes a
// lock or performs a compare-and-swap: each side owns one cursor and
// publishes it with a release store, and reads the other side's cursor with
// an acquire load.
//
// # Quick Start
//
//	q := spsc.New[Event](1024)
//
//	// Producer goroutine
//	ev := Event{...}
//	if err := q.Enqueue(&ev); spsc.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Consumer goroutine
//	ev, err := q.Dequeue()
//	if spsc.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// Builder API:
//
//	q := spsc.Build[Event](spsc.NewBuilder(1000).RoundUp())    // capacity 1024
//	q := spsc.Build[Event](spsc.NewBuilder(1024).Uncached())   // no cursor cache
//
// # Pipeline Stage
//
//	// Stage 1 → Queue → Stage 2
//	q := spsc.New[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.Enqueue(&data) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// Pass the queue as a [Producer] to the producing stage and as a [Consumer]
// to the consuming stage to keep each goroutine on its own half.
//
// # Cursor Protocol
//
// The write cursor (tail) counts every element ever enqueued; the read
// cursor (head) counts every element ever dequeued. Both only grow. Slot
// index is cursor & (capacity-1), so capacity must be a power of 2, and
// 0 <= tail-head <= capacity always holds.
//
// Each side keeps a plain snapshot of the other side's cursor. Enqueue
// compares tail against its cached head and only loads the real head when
// the snapshot says the queue is full. Dequeue and Peek do the same with
// a cached tail. The remote cursor is loaded at most once per call.
//
// Enqueue stores the slot, then publishes tail+1 with a release store.
// Dequeue reads and clears the slot, then publishes head+1 with a release
// store. The acquire load on the other side makes the slot write visible
// before the cursor that announces it.
//
// [Builder.Uncached] builds the same queue with the snapshots disabled:
// every call loads the remote cursor. It exists as a baseline for
// measuring the cache's effect.
//
// # Cache Line Layout
//
// head, the consumer's cached tail, tail and the producer's cached head
// each occupy a dedicated cache line, sized by [cpu.CacheLinePad]. The
// producer's stores to tail never invalidate the line the consumer reads
// its own cursor from, and vice versa.
//
// # Error Handling
//
// Full and empty are not failures. Enqueue, Dequeue and Peek return
// [ErrWouldBlock], sourced from [code.hybscloud.com/iox]:
//
//	spsc.IsWouldBlock(err)  // true if queue full/empty
//	spsc.IsSemantic(err)    // true if control flow signal
//	spsc.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Because emptiness is reported through the error, the zero value of T
// (including a nil pointer) is an ordinary element.
//
// Programming errors panic:
//
//   - MustEnqueue, MustEnqueueAll, MustDequeue and MustPeek panic with an
//     error wrapping [ErrIllegalState] when the queue is full or empty.
//   - Remove, RemoveAll, RetainFunc, Clear, All and ToSlice are not
//     supported by a ring queue and panic with an error wrapping
//     [ErrUnsupported].
//   - Constructors panic with an error wrapping [ErrCapacity].
//
// # Length
//
// Len loads head, tail, head and retries until both head loads agree, so
// it returns a count the queue held at some instant during the call. Empty
// compares the two cursors once. Both may be stale on return.
//
// # Thread Safety
//
//   - Producer methods: Enqueue, MustEnqueue, MustEnqueueAll
//   - Consumer methods: Dequeue, Peek, ContainsFunc, Contains, ContainsAll,
//     MustDequeue, MustPeek
//   - Any goroutine: Len, Empty, Cap
//
// Violating these constraints (e.g., two producers) causes undefined
// behavior including lost and duplicated elements.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channels, WaitGroup) but cannot observe happens-before relationships
// established through atomix acquire-release operations on a separate
// variable. Concurrent tests are skipped when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [golang.org/x/sys/cpu] for the cache line size.
package spsc
