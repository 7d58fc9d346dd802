// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/spsc"
)

// TestBuilderDefault tests that the default builder yields a cached queue.
func TestBuilderDefault(t *testing.T) {
	q := spsc.Build[int](spsc.NewBuilder(8))

	if q.Cap() != 8 {
		t.Fatalf("Cap: got %d, want 8", q.Cap())
	}
	if q.Uncached() {
		t.Fatal("Uncached: got true, want false")
	}
	if spsc.New[int](8).Uncached() {
		t.Fatal("New: Uncached got true, want false")
	}
}

// TestBuilderUncached tests the uncached cursor configuration.
func TestBuilderUncached(t *testing.T) {
	q := spsc.Build[int](spsc.NewBuilder(4).Uncached())

	if !q.Uncached() {
		t.Fatal("Uncached: got false, want true")
	}

	x := 42
	if err := q.Enqueue(&x); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	val, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if val != 42 {
		t.Fatalf("got %d, want 42", val)
	}
}

// TestBuilderRoundUp tests capacity rounding.
func TestBuilderRoundUp(t *testing.T) {
	tests := []struct {
		capacity int
		want     int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{7, 8},
		{1000, 1024},
		{1024, 1024},
		{1025, 2048},
	}

	for _, tt := range tests {
		b := spsc.NewBuilder(tt.capacity).RoundUp()
		if got := b.Capacity(); got != tt.want {
			t.Errorf("Capacity(%d): got %d, want %d", tt.capacity, got, tt.want)
		}
		if got := spsc.Build[int](b).Cap(); got != tt.want {
			t.Errorf("Build(%d).Cap: got %d, want %d", tt.capacity, got, tt.want)
		}
	}
}

// TestBuilderRejectsNonPowerOfTwo tests that Build without RoundUp panics
// on a capacity that is not a power of 2.
func TestBuilderRejectsNonPowerOfTwo(t *testing.T) {
	b := spsc.NewBuilder(1000)
	if b.Capacity() != 1000 {
		t.Fatalf("Capacity: got %d, want 1000", b.Capacity())
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, spsc.ErrCapacity) {
			t.Fatalf("panic value: got %v, want ErrCapacity", r)
		}
	}()
	spsc.Build[int](b)
}

// TestNewBuilderPanicOnSmallCapacity tests that NewBuilder rejects
// capacity < 1.
func TestNewBuilderPanicOnSmallCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -1024} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Fatalf("expected panic for capacity %d", capacity)
				}
			}()
			spsc.NewBuilder(capacity)
		}()
	}
}

// TestBuilderChaining tests that options compose in either order.
func TestBuilderChaining(t *testing.T) {
	a := spsc.Build[string](spsc.NewBuilder(6).RoundUp().Uncached())
	b := spsc.Build[string](spsc.NewBuilder(6).Uncached().RoundUp())

	for _, q := range []*spsc.Queue[string]{a, b} {
		if q.Cap() != 8 || !q.Uncached() {
			t.Fatalf("got Cap=%d Uncached=%v, want 8 true", q.Cap(), q.Uncached())
		}
	}
}

// TestProducerConsumerInterfaces tests handing each half to its own stage.
func TestProducerConsumerInterfaces(t *testing.T) {
	q := spsc.New[int](4)

	var p spsc.Producer[int] = q
	var c spsc.Consumer[int] = q
	var o spsc.Observer = q

	x := 5
	if err := p.Enqueue(&x); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if o.Len() != 1 || o.Empty() {
		t.Fatalf("Len=%d Empty=%v, want 1 false", o.Len(), o.Empty())
	}
	if v, err := c.Peek(); err != nil || v != 5 {
		t.Fatalf("Peek: got (%d, %v)", v, err)
	}
	if v, err := c.Dequeue(); err != nil || v != 5 {
		t.Fatalf("Dequeue: got (%d, %v)", v, err)
	}
	if p.Cap() != 4 || c.Cap() != 4 || o.Cap() != 4 {
		t.Fatal("Cap mismatch across interfaces")
	}
}
