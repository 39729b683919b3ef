// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

// Queue is the combined producer-consumer interface shared by every
// generic ring mode (and, incidentally, by BoundedSPSC; UnboundedSPSC has
// no Cap method and does not satisfy it).
type Queue[T any] interface {
	Push(v T) error
	Pop() (T, error)
	Cap() int
}

// Mode selects the concurrency discipline of a generic ring created via
// NewRing. The mode is fixed at construction time — no ring ever branches
// on mode in its hot Push/Pop path.
type Mode int

const (
	// SPSC is single-producer single-consumer: relaxed load/store
	// reservation, release-store commit, no peer waiting.
	SPSC Mode = iota
	// MPMC is multi-producer multi-consumer with independent tail
	// commits: CAS-loop reservation, each committer waits its turn on
	// the shared tail before storing, so tails publish in reservation
	// order (DPDK "rts-off" mode).
	MPMC
	// MPMCHTS is multi-producer multi-consumer with head-tail
	// synchronised commits: reservation requires the combined
	// (head, tail) word to already be synchronised (head == tail),
	// then a single CAS claims the reservation and bumps tail with a
	// plain release store — no wait-your-turn spin.
	MPMCHTS
	// MPMCRTS is multi-producer multi-consumer with relaxed tail sync:
	// reservation and commit are each a CAS loop over a packed
	// (position, generation) word, bounding the in-flight reservation
	// window to size/8 slots.
	MPMCRTS
)

// NewRing creates a generic bounded ring of the given nominal capacity
// (its slot count rounded up to a power of two) and concurrency mode. The mode switch
// happens once, here, at construction — the returned Queue[T]'s Push/Pop
// never re-examine which mode they are.
func NewRing[T any](capacity int, mode Mode) Queue[T] {
	switch mode {
	case SPSC:
		return NewRingSPSC[T](capacity)
	case MPMC:
		return NewRingMPMC[T](capacity)
	case MPMCHTS:
		return NewRingMPMCHTS[T](capacity)
	case MPMCRTS:
		return NewRingMPMCRTS[T](capacity)
	default:
		panic("ringq: unknown mode")
	}
}

// descriptorDefaults returns the (maxProducers, maxConsumers) defaults for
// a generic ring of the given mode: SPSC defaults to exactly one producer
// and one consumer, all MPMC-flavoured modes default to unlimited.
func descriptorDefaults(mode Mode) (int64, int64) {
	if mode == SPSC {
		return 1, 1
	}
	return unlimited, unlimited
}
