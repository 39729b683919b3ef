// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingMPMC is the generic ring's classic MPMC mode (DPDK "rts-off",
// independent tail commits): reservation is a CAS loop on head; commit
// requires each reserving producer (or consumer) to wait its turn — spin
// until the shared tail equals the head value it reserved from — before
// storing its own new head into tail. This keeps tail values published in
// exactly reservation order even though multiple callers may be
// constructing their elements concurrently.
type RingMPMC[T any] struct {
	_        pad
	prodHead atomix.Uint64
	_        pad
	prodTail atomix.Uint64
	_        pad
	consHead atomix.Uint64
	_        pad
	consTail atomix.Uint64
	_        pad
	buffer   []T
	size     uint64
	mask     uint64
	capacity uint64
	counter  *descriptorCounter
}

// NewRingMPMC creates a generic ring in MPMC mode. The slot count rounds up
// to the next power of two while Cap stays the requested capacity; panics
// if capacity < 1.
func NewRingMPMC[T any](capacity int) *RingMPMC[T] {
	if capacity < 1 {
		panic("ringq: capacity must be >= 1")
	}
	n := uint64(roundToPow2(capacity))
	maxP, maxC := descriptorDefaults(MPMC)
	return &RingMPMC[T]{
		buffer:   make([]T, n),
		size:     n,
		mask:     n - 1,
		capacity: uint64(capacity),
		counter:  newDescriptorCounter(maxP, maxC),
	}
}

// Producer returns a scoped producer handle.
func (q *RingMPMC[T]) Producer() (*Producer[T], error) {
	return newProducer[T](q, q.counter)
}

// Consumer returns a scoped consumer handle.
func (q *RingMPMC[T]) Consumer() (*Consumer[T], error) {
	return newConsumer[T](q, q.counter)
}

// Push reserves a slot via CAS-loop on the producer head, constructs the
// element, then waits its turn to commit the producer tail.
func (q *RingMPMC[T]) Push(v T) error {
	var oldHead, newHead uint64
	sw := spin.Wait{}
	for {
		oldHead = q.prodHead.LoadAcquire()
		nFree := q.capacity + q.consTail.LoadAcquire() - oldHead
		if nFree < 1 {
			return ErrWouldBlock
		}
		newHead = oldHead + 1
		if q.prodHead.CompareAndSwapRelaxed(oldHead, newHead) {
			break
		}
		sw.Once()
	}

	q.buffer[oldHead&q.mask] = v

	sw = spin.Wait{}
	for q.prodTail.LoadRelaxed() != oldHead {
		sw.Once()
	}
	q.prodTail.StoreRelease(newHead)
	return nil
}

// Pop reserves a slot via CAS-loop on the consumer head, moves the
// element out, then waits its turn to commit the consumer tail.
func (q *RingMPMC[T]) Pop() (T, error) {
	var oldHead, newHead uint64
	sw := spin.Wait{}
	for {
		oldHead = q.consHead.LoadAcquire()
		nRemain := q.prodTail.LoadAcquire() - oldHead
		if nRemain < 1 {
			var zero T
			return zero, ErrWouldBlock
		}
		newHead = oldHead + 1
		if q.consHead.CompareAndSwapRelaxed(oldHead, newHead) {
			break
		}
		sw.Once()
	}

	idx := oldHead & q.mask
	v := q.buffer[idx]
	var zero T
	q.buffer[idx] = zero

	sw = spin.Wait{}
	for q.consTail.LoadRelaxed() != oldHead {
		sw.Once()
	}
	q.consTail.StoreRelease(newHead)
	return v, nil
}

// Cap returns the nominal (requested) capacity.
func (q *RingMPMC[T]) Cap() int {
	return int(q.capacity)
}

// Close zeroes every live slot in [consumer.head, producer.head). Panics
// if a Producer or Consumer handle is still live; this is the only case
// in which inspecting both head cursors without further synchronisation
// is safe, ruling out the reserved-but-uncommitted-slot race.
func (q *RingMPMC[T]) Close() {
	if !q.counter.idle() {
		panic("ringq: Close called with live producer/consumer handles")
	}
	var zero T
	for i := q.consHead.LoadRelaxed(); i != q.prodHead.LoadRelaxed(); i++ {
		q.buffer[i&q.mask] = zero
	}
}
