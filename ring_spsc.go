// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// RingSPSC is the generic ring's SPSC mode: a plain relaxed load/store
// reservation (no CAS, no peer wait) with a release-store commit, on the
// two-phase head/tail skeleton shared by every generic ring mode. Unlike
// BoundedSPSC it has no "empty sentinel slot": capacity free-slot
// accounting uses consumer.tail and producer.head directly, matching the
// DPDK-style ring's head/tail cursor pair rather than Lamport's ring.
type RingSPSC[T any] struct {
	_         pad
	prodHead  atomix.Uint64
	_         pad
	prodTail  atomix.Uint64
	_         pad
	consHead  atomix.Uint64
	_         pad
	consTail  atomix.Uint64
	_         pad
	buffer    []T
	size      uint64
	mask      uint64
	capacity  uint64
	counter   *descriptorCounter
}

// NewRingSPSC creates a generic ring in SPSC mode. The slot count rounds up
// to the next power of two while Cap stays the requested capacity; panics
// if capacity < 1.
func NewRingSPSC[T any](capacity int) *RingSPSC[T] {
	if capacity < 1 {
		panic("ringq: capacity must be >= 1")
	}
	n := uint64(roundToPow2(capacity))
	maxP, maxC := descriptorDefaults(SPSC)
	return &RingSPSC[T]{
		buffer:   make([]T, n),
		size:     n,
		mask:     n - 1,
		capacity: uint64(capacity),
		counter:  newDescriptorCounter(maxP, maxC),
	}
}

// Producer returns a scoped producer handle.
func (q *RingSPSC[T]) Producer() (*Producer[T], error) {
	return newProducer[T](q, q.counter)
}

// Consumer returns a scoped consumer handle.
func (q *RingSPSC[T]) Consumer() (*Consumer[T], error) {
	return newConsumer[T](q, q.counter)
}

// Push reserves, constructs, and commits one slot (producer only).
func (q *RingSPSC[T]) Push(v T) error {
	head := q.prodHead.LoadRelaxed()
	nFree := q.capacity + q.consTail.LoadAcquire() - head
	if nFree < 1 {
		return ErrWouldBlock
	}
	newHead := head + 1
	q.prodHead.StoreRelaxed(newHead)

	q.buffer[head&q.mask] = v

	q.prodTail.StoreRelease(newHead)
	return nil
}

// Pop reserves, moves out, and commits one slot (consumer only).
func (q *RingSPSC[T]) Pop() (T, error) {
	head := q.consHead.LoadRelaxed()
	nRemain := q.prodTail.LoadAcquire() - head
	if nRemain < 1 {
		var zero T
		return zero, ErrWouldBlock
	}
	newHead := head + 1
	q.consHead.StoreRelaxed(newHead)

	idx := head & q.mask
	v := q.buffer[idx]
	var zero T
	q.buffer[idx] = zero

	q.consTail.StoreRelease(newHead)
	return v, nil
}

// Cap returns the nominal (requested) capacity.
func (q *RingSPSC[T]) Cap() int {
	return int(q.capacity)
}

// Close zeroes every live slot in [consumer.head, producer.head). Panics
// if a Producer or Consumer handle is still live.
func (q *RingSPSC[T]) Close() {
	if !q.counter.idle() {
		panic("ringq: Close called with live producer/consumer handles")
	}
	var zero T
	for i := q.consHead.LoadRelaxed(); i != q.prodHead.LoadRelaxed(); i++ {
		q.buffer[i&q.mask] = zero
	}
}
