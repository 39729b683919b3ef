// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// BoundedSPSC is a single-producer single-consumer bounded ring queue.
//
// It is the dedicated SPSC ring described in the package overview: a plain
// Lamport ring with a one-slot "empty" sentinel so that tail==head means
// empty without a separate counter. Producer and consumer cursors live on
// distinct cache lines to avoid false sharing.
type BoundedSPSC[T any] struct {
	_        pad
	head     atomix.Uint64 // consumer cursor
	_        pad
	tail     atomix.Uint64 // producer cursor
	_        pad
	buffer   []T
	size     uint64 // capacity+1 physical slots
	capacity uint64 // nominal, requested capacity
	counter  *descriptorCounter
}

// NewBoundedSPSC creates a bounded SPSC queue of the given nominal capacity.
// Panics if capacity < 1.
func NewBoundedSPSC[T any](capacity int) *BoundedSPSC[T] {
	if capacity < 1 {
		panic("ringq: capacity must be >= 1")
	}
	size := uint64(capacity) + 1
	return &BoundedSPSC[T]{
		buffer:   make([]T, size),
		size:     size,
		capacity: uint64(capacity),
		counter:  newDescriptorCounter(1, 1),
	}
}

// Producer returns a scoped producer handle. Fails with
// ErrTooManyProducers if one is already live.
func (q *BoundedSPSC[T]) Producer() (*Producer[T], error) {
	return newProducer[T](q, q.counter)
}

// Consumer returns a scoped consumer handle. Fails with
// ErrTooManyConsumers if one is already live.
func (q *BoundedSPSC[T]) Consumer() (*Consumer[T], error) {
	return newConsumer[T](q, q.counter)
}

// Push enqueues v (producer only). Returns ErrWouldBlock if full.
func (q *BoundedSPSC[T]) Push(v T) error {
	tail := q.tail.LoadRelaxed()
	next := tail + 1
	if next == q.size {
		next = 0
	}
	if next == q.head.LoadAcquire() {
		return ErrWouldBlock
	}
	q.buffer[tail] = v
	q.tail.StoreRelease(next)
	return nil
}

// Pop dequeues and returns the head element (consumer only). Returns
// (zero, ErrWouldBlock) if empty.
func (q *BoundedSPSC[T]) Pop() (T, error) {
	head := q.head.LoadRelaxed()
	if head == q.tail.LoadAcquire() {
		var zero T
		return zero, ErrWouldBlock
	}
	next := head + 1
	if next == q.size {
		next = 0
	}
	v := q.buffer[head]
	var zero T
	q.buffer[head] = zero
	q.head.StoreRelease(next)
	return v, nil
}

// Front returns the head element in place without consuming it, or false
// if the queue is empty. The returned pointer is valid until the next Pop
// on this queue; only the consumer goroutine may call it.
func (q *BoundedSPSC[T]) Front() (*T, bool) {
	head := q.head.LoadRelaxed()
	if head == q.tail.LoadAcquire() {
		return nil, false
	}
	return &q.buffer[head], true
}

// PopFront removes the head element, returning it. Panics if the queue is
// empty — unlike Pop, this is a precondition violation, not backpressure.
func (q *BoundedSPSC[T]) PopFront() T {
	v, err := q.Pop()
	if err != nil {
		panic("ringq: PopFront on empty queue")
	}
	return v
}

// IsEmpty reports whether the queue currently holds no elements.
func (q *BoundedSPSC[T]) IsEmpty() bool {
	return q.head.LoadAcquire() == q.tail.LoadAcquire()
}

// IsFull reports whether the queue currently holds capacity elements.
func (q *BoundedSPSC[T]) IsFull() bool {
	next := q.tail.LoadAcquire() + 1
	if next == q.size {
		next = 0
	}
	return next == q.head.LoadAcquire()
}

// ApproximateSize returns a racy snapshot of the element count, always
// within [0, capacity].
func (q *BoundedSPSC[T]) ApproximateSize() int {
	n := int64(q.tail.LoadAcquire()) - int64(q.head.LoadAcquire())
	if n < 0 {
		n += int64(q.size)
	}
	return int(n)
}

// Cap returns the nominal capacity.
func (q *BoundedSPSC[T]) Cap() int {
	return int(q.capacity)
}

// Capacity is an alias for Cap, matching the spec's named accessor.
func (q *BoundedSPSC[T]) Capacity() int {
	return int(q.capacity)
}

// Close zeroes any live slots so the garbage collector can reclaim
// referenced values. Panics if a Producer or Consumer handle is still
// live, ruling out the drop/in-flight-handle race the original design
// flags as requiring single-threaded access.
func (q *BoundedSPSC[T]) Close() {
	if !q.counter.idle() {
		panic("ringq: Close called with live producer/consumer handles")
	}
	head := q.head.LoadRelaxed()
	tail := q.tail.LoadRelaxed()
	var zero T
	for idx := head; idx != tail; {
		q.buffer[idx] = zero
		idx++
		if idx == q.size {
			idx = 0
		}
	}
}
