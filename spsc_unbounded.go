// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// unboundedNode is one link in the queue's chain. A node always exists
// as a drained sentinel until the producer publishes a value into it via
// the next node's data field — see UnboundedSPSC.Push.
//
// next is a genuine atomic pointer (sync/atomic.Pointer), not one of this
// package's atomix integer types: atomix has no pointer-typed atomic in
// this codebase's dependency surface, and hiding a live *unboundedNode[T]
// inside a plain integer atomic would be invisible to the garbage
// collector. Node pointers (this field and UnboundedSPSC.head) are the one
// place the package reaches for sync/atomic instead of atomix.
type unboundedNode[T any] struct {
	next atomic.Pointer[unboundedNode[T]]
	data T
}

// UnboundedSPSC is a single-producer single-consumer unbounded linked
// queue with a private per-queue node freelist.
//
// At least one sentinel node always exists: head points at the
// most-recently-consumed node, whose next field (if set) holds the next
// deliverable value. The producer recycles drained nodes strictly between
// unused and the cached headCopy before allocating a new one, bounding
// allocator traffic when producer and consumer run at similar rates.
type UnboundedSPSC[T any] struct {
	_        pad
	head     atomic.Pointer[unboundedNode[T]] // consumer-owned
	_        pad
	tail     *unboundedNode[T] // producer-owned, not atomic
	unused   *unboundedNode[T] // producer-owned lagging recycle pointer
	headCopy *unboundedNode[T] // producer's cached view of head
	size     atomix.Int32      // racy diagnostic counter
	counter  *descriptorCounter
}

// NewUnboundedSPSC creates an empty unbounded SPSC queue.
func NewUnboundedSPSC[T any]() *UnboundedSPSC[T] {
	sentinel := &unboundedNode[T]{}
	q := &UnboundedSPSC[T]{
		tail:     sentinel,
		unused:   sentinel,
		headCopy: sentinel,
		counter:  newDescriptorCounter(1, 1),
	}
	q.head.Store(sentinel)
	return q
}

// Producer returns a scoped producer handle. Fails with
// ErrTooManyProducers if one is already live.
func (q *UnboundedSPSC[T]) Producer() (*Producer[T], error) {
	return newProducer[T](q, q.counter)
}

// Consumer returns a scoped consumer handle. Fails with
// ErrTooManyConsumers if one is already live.
func (q *UnboundedSPSC[T]) Consumer() (*Consumer[T], error) {
	return newConsumer[T](q, q.counter)
}

// Push appends v to the tail of the chain (producer only). Always
// succeeds: the queue is unbounded.
func (q *UnboundedSPSC[T]) Push(v T) error {
	n := q.acquireNode()
	n.data = v
	q.tail.next.Store(n)
	q.tail = n
	q.size.Add(1)
	return nil
}

// Pop removes and returns the value at the head of the chain (consumer
// only). Returns (zero, ErrWouldBlock) if empty.
func (q *UnboundedSPSC[T]) Pop() (T, error) {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		var zero T
		return zero, ErrWouldBlock
	}
	v := next.data
	q.head.Store(next)
	q.size.Add(-1)
	return v, nil
}

// acquireNode returns a node ready to hold the next pushed value, preferring
// a recycled drained node over a fresh allocation.
func (q *UnboundedSPSC[T]) acquireNode() *unboundedNode[T] {
	if q.unused != q.headCopy {
		n := q.unused
		q.unused = n.next.Load()
		var zero T
		n.data = zero
		n.next.Store(nil)
		return n
	}
	q.headCopy = q.head.Load()
	if q.unused != q.headCopy {
		n := q.unused
		q.unused = n.next.Load()
		var zero T
		n.data = zero
		n.next.Store(nil)
		return n
	}
	return &unboundedNode[T]{}
}

// ApproximateSize returns a racy diagnostic element count. The counter is
// a 32-bit atomic and may wrap after 2^32 operations; callers should treat
// it as diagnostic only, per the package's design notes.
func (q *UnboundedSPSC[T]) ApproximateSize() int {
	return int(q.size.Load())
}

// Close drops the chain from unused onward so the garbage collector can
// reclaim it. Panics if a Producer or Consumer handle is still live.
func (q *UnboundedSPSC[T]) Close() {
	if !q.counter.idle() {
		panic("ringq: Close called with live producer/consumer handles")
	}
	q.unused = nil
	q.headCopy = nil
	q.tail = nil
	q.head.Store(nil)
}
