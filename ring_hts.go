// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingMPMCHTS is the generic ring's head-tail-synchronised MPMC mode.
//
// Each side's (head, tail) pair is packed into a single atomix.Uint64 word
// (high 32 bits = head, low 32 bits = tail). Reservation first spins until
// the word is synchronised (head == tail, meaning no reservation is
// currently outstanding), then claims the slot with one CAS that keeps
// tail fixed and bumps head by one. Commit is then a single plain release
// store of the whole word with both halves set to the new head, which
// both publishes the reservation and re-synchronises the cursor for the
// next reserver — no wait-your-turn spin is needed at commit time,
// trading some reservation throughput for a simpler, more FIFO-friendly
// commit.
type RingMPMCHTS[T any] struct {
	_        pad
	prodCur  atomix.Uint64 // packed (head, tail)
	_        pad
	consCur  atomix.Uint64 // packed (head, tail)
	_        pad
	buffer   []T
	size     uint64
	mask     uint64
	capacity uint64
	counter  *descriptorCounter
}

// NewRingMPMCHTS creates a generic ring in MPMC_HTS mode. The slot count
// rounds up to the next power of two while Cap stays the requested
// capacity; panics if capacity < 1.
func NewRingMPMCHTS[T any](capacity int) *RingMPMCHTS[T] {
	if capacity < 1 {
		panic("ringq: capacity must be >= 1")
	}
	n := uint64(roundToPow2(capacity))
	maxP, maxC := descriptorDefaults(MPMCHTS)
	return &RingMPMCHTS[T]{
		buffer:   make([]T, n),
		size:     n,
		mask:     n - 1,
		capacity: uint64(capacity),
		counter:  newDescriptorCounter(maxP, maxC),
	}
}

// Producer returns a scoped producer handle.
func (q *RingMPMCHTS[T]) Producer() (*Producer[T], error) {
	return newProducer[T](q, q.counter)
}

// Consumer returns a scoped consumer handle.
func (q *RingMPMCHTS[T]) Consumer() (*Consumer[T], error) {
	return newConsumer[T](q, q.counter)
}

// Push waits for the producer cursor to synchronise, reserves one slot
// with a single CAS on the packed word, constructs the element, then
// commits with a plain release store that re-synchronises the cursor.
func (q *RingMPMCHTS[T]) Push(v T) error {
	sw := spin.Wait{}
	cur := packedWord(q.prodCur.LoadAcquire())
	for {
		for cur.hi() != cur.lo() {
			sw.Once()
			cur = packedWord(q.prodCur.LoadAcquire())
		}
		// 32-bit modular arithmetic: the packed halves wrap at 2^32, so
		// the free-slot count must be computed in uint32 space.
		nFree := uint32(q.capacity) + packedWord(q.consCur.LoadRelaxed()).lo() - cur.hi()
		if nFree < 1 {
			return ErrWouldBlock
		}
		newHead := cur.hi() + 1
		next := packWord(newHead, cur.lo())
		if q.prodCur.CompareAndSwapAcqRel(uint64(cur), uint64(next)) {
			q.buffer[uint64(cur.hi())&q.mask] = v
			q.prodCur.StoreRelease(uint64(packWord(newHead, newHead)))
			return nil
		}
		cur = packedWord(q.prodCur.LoadAcquire())
	}
}

// Pop waits for the consumer cursor to synchronise, reserves one slot
// with a single CAS on the packed word, moves the element out, then
// commits with a plain release store that re-synchronises the cursor.
func (q *RingMPMCHTS[T]) Pop() (T, error) {
	sw := spin.Wait{}
	cur := packedWord(q.consCur.LoadAcquire())
	for {
		for cur.hi() != cur.lo() {
			sw.Once()
			cur = packedWord(q.consCur.LoadAcquire())
		}
		nRemain := packedWord(q.prodCur.LoadRelaxed()).lo() - cur.hi()
		if nRemain < 1 {
			var zero T
			return zero, ErrWouldBlock
		}
		newHead := cur.hi() + 1
		next := packWord(newHead, cur.lo())
		if q.consCur.CompareAndSwapAcqRel(uint64(cur), uint64(next)) {
			idx := uint64(cur.hi()) & q.mask
			out := q.buffer[idx]
			var zero T
			q.buffer[idx] = zero
			q.consCur.StoreRelease(uint64(packWord(newHead, newHead)))
			return out, nil
		}
		cur = packedWord(q.consCur.LoadAcquire())
	}
}

// Cap returns the nominal (requested) capacity.
func (q *RingMPMCHTS[T]) Cap() int {
	return int(q.capacity)
}

// Close zeroes every live slot in [consumer.head, producer.head). Panics
// if a Producer or Consumer handle is still live.
func (q *RingMPMCHTS[T]) Close() {
	if !q.counter.idle() {
		panic("ringq: Close called with live producer/consumer handles")
	}
	consHead := packedWord(q.consCur.LoadRelaxed()).hi()
	prodHead := packedWord(q.prodCur.LoadRelaxed()).hi()
	var zero T
	for i := consHead; i != prodHead; i++ {
		q.buffer[uint64(i)&q.mask] = zero
	}
}
