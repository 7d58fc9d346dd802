// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"golang.org/x/sys/cpu"
)

// Options configures queue creation.
type Options struct {
	// Capacity handling
	roundUp bool // Round up to next power of 2 instead of rejecting

	// Cursor protocol
	uncached bool // Reload the remote cursor on every call

	capacity int
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Default: cached cursors, capacity must be a power of 2
//	q := spsc.Build[Event](spsc.NewBuilder(1024))
//
//	// Accept any capacity, round it up
//	q := spsc.Build[Event](spsc.NewBuilder(1000).RoundUp())
//
//	// Reload the remote cursor on every call
//	q := spsc.Build[Event](spsc.NewBuilder(1024).Uncached())
type Builder struct {
	opts Options
}

// NewBuilder creates a queue builder with the given capacity.
//
// Panics if capacity < 1.
func NewBuilder(capacity int) *Builder {
	if capacity < 1 {
		panic(checkCapacity(capacity))
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// RoundUp accepts a capacity that is not a power of 2 and rounds it up.
// For example, capacity=1000 results in actual capacity=1024.
func (b *Builder) RoundUp() *Builder {
	b.opts.roundUp = true
	return b
}

// Uncached disables the cached cursor snapshots.
//
// Every Enqueue loads the consumer's read cursor and every Dequeue or Peek
// loads the producer's write cursor. Semantics are unchanged; only
// cross-core cache line traffic grows. Useful as a baseline.
func (b *Builder) Uncached() *Builder {
	b.opts.uncached = true
	return b
}

// Capacity returns the capacity the built queue will have.
func (b *Builder) Capacity() int {
	if b.opts.roundUp {
		return roundToPow2(b.opts.capacity)
	}
	return b.opts.capacity
}

// Build creates a Queue[T] from the builder's configuration.
//
// Panics if the capacity is not a power of 2 and RoundUp was not set.
func Build[T any](b *Builder) *Queue[T] {
	capacity := b.Capacity()
	if err := checkCapacity(capacity); err != nil {
		panic(err)
	}
	return newQueue[T](capacity, b.opts.uncached)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// cacheLineSize is the padding unit, 64 on amd64 and 128 on arm64.
const cacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// cursor is a monotonically increasing counter on a dedicated cache line.
// Exactly one goroutine stores to it; the other side only loads it.
type cursor struct {
	atomix.Uint64
	_ [cacheLineSize - unsafe.Sizeof(atomix.Uint64{})]byte
}

// cachedCursor is a plain snapshot of the remote cursor on a dedicated
// cache line. Only the owning side reads or writes it.
type cachedCursor struct {
	v uint64
	_ [cacheLineSize - 8]byte
}
