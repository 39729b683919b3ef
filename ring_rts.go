// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingMPMCRTS is the generic ring's relaxed-tail-sync MPMC mode.
//
// Each cursor is a (position, generation) pair packed into a single
// atomix.Uint64 word (high 32 bits = position, low 32 bits = generation),
// reusing the same packedWord helper as MPMC_HTS. Reservation is a CAS
// loop on head that first bounds the in-flight window: if head.pos is
// more than disMax ahead of tail.pos, it spins until the tail catches up.
// Commit is a separate CAS loop on tail: each attempt bumps the tail's
// generation by one and, if that generation now matches head's, also
// snaps tail's position up to head's position — closing any gap left by
// reservations that committed out of order. This keeps publication FIFO
// while allowing multiple reservations in flight, amortising the
// wait-for-peer cost across committer CAS attempts instead of a hard
// spin-wait-your-turn as in plain MPMC mode.
type RingMPMCRTS[T any] struct {
	_        pad
	prodHead atomix.Uint64 // packed (pos, ref)
	_        pad
	prodTail atomix.Uint64 // packed (pos, ref)
	_        pad
	consHead atomix.Uint64 // packed (pos, ref)
	_        pad
	consTail atomix.Uint64 // packed (pos, ref)
	_        pad
	buffer   []T
	size     uint64
	mask     uint64
	capacity uint64
	disMax   uint64
	counter  *descriptorCounter
}

// NewRingMPMCRTS creates a generic ring in MPMC_RTS mode. The slot count
// rounds up to the next power of two while Cap stays the requested
// capacity; panics if capacity < 1. The in-flight
// reservation window is bounded to size/8 slots (minimum 1).
func NewRingMPMCRTS[T any](capacity int) *RingMPMCRTS[T] {
	if capacity < 1 {
		panic("ringq: capacity must be >= 1")
	}
	n := uint64(roundToPow2(capacity))
	disMax := n / 8
	if disMax < 1 {
		disMax = 1
	}
	maxP, maxC := descriptorDefaults(MPMCRTS)
	return &RingMPMCRTS[T]{
		buffer:   make([]T, n),
		size:     n,
		mask:     n - 1,
		capacity: uint64(capacity),
		disMax:   disMax,
		counter:  newDescriptorCounter(maxP, maxC),
	}
}

// Producer returns a scoped producer handle.
func (q *RingMPMCRTS[T]) Producer() (*Producer[T], error) {
	return newProducer[T](q, q.counter)
}

// Consumer returns a scoped consumer handle.
func (q *RingMPMCRTS[T]) Consumer() (*Consumer[T], error) {
	return newConsumer[T](q, q.counter)
}

// Push reserves a slot via CAS-loop on the producer head (bounded by
// disMax against the producer tail), constructs the element, then
// commits via a separate CAS loop on the producer tail.
func (q *RingMPMCRTS[T]) Push(v T) error {
	sw := spin.Wait{}
	ch := packedWord(q.prodHead.LoadAcquire())
	var nh packedWord
	for {
		// 32-bit modular arithmetic: positions wrap at 2^32, so both the
		// in-flight window check and the free-slot count use uint32 space.
		for ch.hi()-packedWord(q.prodTail.LoadRelaxed()).hi() > uint32(q.disMax) {
			sw.Once()
			ch = packedWord(q.prodHead.LoadAcquire())
		}
		nFree := uint32(q.capacity) + packedWord(q.consTail.LoadRelaxed()).hi() - ch.hi()
		if nFree < 1 {
			return ErrWouldBlock
		}
		nh = packWord(ch.hi()+1, ch.lo()+1)
		if q.prodHead.CompareAndSwapAcqRel(uint64(ch), uint64(nh)) {
			break
		}
		ch = packedWord(q.prodHead.LoadAcquire())
	}

	q.buffer[uint64(ch.hi())&q.mask] = v

	ct := packedWord(q.prodTail.LoadAcquire())
	for {
		h := packedWord(q.prodHead.LoadRelaxed())
		nt := packWord(ct.hi(), ct.lo()+1)
		if nt.lo() == h.lo() {
			nt = packWord(h.hi(), nt.lo())
		}
		if q.prodTail.CompareAndSwapAcqRel(uint64(ct), uint64(nt)) {
			break
		}
		ct = packedWord(q.prodTail.LoadAcquire())
	}
	return nil
}

// Pop reserves a slot via CAS-loop on the consumer head (bounded by
// disMax against the consumer tail), moves the element out, then commits
// via a separate CAS loop on the consumer tail.
func (q *RingMPMCRTS[T]) Pop() (T, error) {
	sw := spin.Wait{}
	ch := packedWord(q.consHead.LoadAcquire())
	var nh packedWord
	for {
		for ch.hi()-packedWord(q.consTail.LoadRelaxed()).hi() > uint32(q.disMax) {
			sw.Once()
			ch = packedWord(q.consHead.LoadAcquire())
		}
		nRemain := packedWord(q.prodTail.LoadRelaxed()).hi() - ch.hi()
		if nRemain < 1 {
			var zero T
			return zero, ErrWouldBlock
		}
		nh = packWord(ch.hi()+1, ch.lo()+1)
		if q.consHead.CompareAndSwapAcqRel(uint64(ch), uint64(nh)) {
			break
		}
		ch = packedWord(q.consHead.LoadAcquire())
	}

	idx := uint64(ch.hi()) & q.mask
	v := q.buffer[idx]
	var zero T
	q.buffer[idx] = zero

	ct := packedWord(q.consTail.LoadAcquire())
	for {
		h := packedWord(q.consHead.LoadRelaxed())
		nt := packWord(ct.hi(), ct.lo()+1)
		if nt.lo() == h.lo() {
			nt = packWord(h.hi(), nt.lo())
		}
		if q.consTail.CompareAndSwapAcqRel(uint64(ct), uint64(nt)) {
			break
		}
		ct = packedWord(q.consTail.LoadAcquire())
	}
	return v, nil
}

// Cap returns the nominal (requested) capacity.
func (q *RingMPMCRTS[T]) Cap() int {
	return int(q.capacity)
}

// Close zeroes every live slot in [consumer.head, producer.head). Panics
// if a Producer or Consumer handle is still live.
func (q *RingMPMCRTS[T]) Close() {
	if !q.counter.idle() {
		panic("ringq: Close called with live producer/consumer handles")
	}
	consHead := packedWord(q.consHead.LoadRelaxed()).hi()
	prodHead := packedWord(q.prodHead.LoadRelaxed()).hi()
	var zero T
	for i := consHead; i != prodHead; i++ {
		q.buffer[uint64(i)&q.mask] = zero
	}
}
