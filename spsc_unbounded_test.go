// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq_test

import (
	"errors"
	"testing"

	"github.com/l-lyr/ringq"
)

// TestUnboundedSPSCBasic verifies push never blocks and pop follows FIFO
// order, returning ErrWouldBlock once drained.
func TestUnboundedSPSCBasic(t *testing.T) {
	q := ringq.NewUnboundedSPSC[int]()
	if _, err := q.Pop(); !errors.Is(err, ringq.ErrWouldBlock) {
		t.Fatalf("Pop on empty: got %v, want ErrWouldBlock", err)
	}
	for i := range 100 {
		if err := q.Push(i); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
	}
	if got := q.ApproximateSize(); got != 100 {
		t.Fatalf("ApproximateSize: got %d, want 100", got)
	}
	for i := range 100 {
		v, err := q.Pop()
		if err != nil {
			t.Fatalf("Pop(%d): %v", i, err)
		}
		if v != i {
			t.Fatalf("Pop(%d): got %d, want %d", i, v, i)
		}
	}
	if _, err := q.Pop(); !errors.Is(err, ringq.ErrWouldBlock) {
		t.Fatalf("Pop after drain: got %v, want ErrWouldBlock", err)
	}
}

// TestUnboundedSPSCRecyclesNodes interleaves pushes and pops well past the
// freelist's initial size, so node reuse is exercised rather than
// unconditional allocation.
func TestUnboundedSPSCRecyclesNodes(t *testing.T) {
	q := ringq.NewUnboundedSPSC[int]()
	const rounds = 10000
	for round := range rounds {
		if err := q.Push(round); err != nil {
			t.Fatalf("Push(%d): %v", round, err)
		}
		if round > 0 {
			v, err := q.Pop()
			if err != nil {
				t.Fatalf("Pop(%d): %v", round, err)
			}
			if v != round-1 {
				t.Fatalf("Pop(%d): got %d, want %d", round, v, round-1)
			}
		}
	}
}

// TestUnboundedSPSCDescriptorLimit verifies the default producer limit of
// one live handle, matching BoundedSPSC's behaviour.
func TestUnboundedSPSCDescriptorLimit(t *testing.T) {
	q := ringq.NewUnboundedSPSC[int]()
	p, err := q.Producer()
	if err != nil {
		t.Fatalf("Producer: %v", err)
	}
	if _, err := q.Producer(); !errors.Is(err, ringq.ErrTooManyProducers) {
		t.Fatalf("second Producer: got %v, want ErrTooManyProducers", err)
	}
	_ = p.Close()
	q.Close()
}

// TestUnboundedSPSCDestructorBalance verifies that popped elements stay
// referenced until the producer's freelist actually recycles their node,
// and that every reference is dropped once the queue is closed. Pushing
// 10 values brings live count to 10; popping 2 leaves it at 10, because
// Pop does not clear a drained node's payload — only acquireNode does,
// when recycling the node for a later push — so the two consumed values
// remain referenced from the nodes between unused and the current head. Close
// drops every reference, and live count returns to 0.
func TestUnboundedSPSCDestructorBalance(t *testing.T) {
	resetLiveCount()
	q := ringq.NewUnboundedSPSC[*dtorCounter]()
	for range 10 {
		if err := q.Push(newDtorCounter()); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if got := waitLiveCount(10); got != 10 {
		t.Fatalf("live count after 10 pushes: got %d, want 10", got)
	}
	for range 2 {
		if _, err := q.Pop(); err != nil {
			t.Fatalf("Pop: %v", err)
		}
	}
	if got := waitLiveCount(10); got != 10 {
		t.Fatalf("live count after 2 pops: got %d, want 10 (drained nodes linger)", got)
	}
	q.Close()
	if got := waitLiveCount(0); got != 0 {
		t.Fatalf("live count after Close: got %d, want 0", got)
	}
}
