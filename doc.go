// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringq provides lock-free FIFO queue implementations built around
// a DPDK-style two-phase reserve/commit protocol.
//
// Three queue families are offered:
//
//   - [BoundedSPSC]: fixed-capacity single-producer single-consumer ring,
//     Lamport's design with a one-slot sentinel gap.
//   - [UnboundedSPSC]: unbounded single-producer single-consumer queue,
//     a singly-linked list backed by a private per-queue node freelist.
//   - Generic ring ([NewRing]): fixed-capacity ring selectable at
//     construction time between four concurrency disciplines ([Mode]).
//
// # Quick Start
//
//	q := ringq.NewBoundedSPSC[Event](1024)
//	prod, _ := q.Producer()
//	defer prod.Close()
//	cons, _ := q.Consumer()
//	defer cons.Close()
//
//	_ = prod.Push(Event{})
//	ev, err := cons.Pop()
//
// The generic ring picks its concurrency discipline at construction:
//
//	q := ringq.NewRing[Request](4096, ringq.MPMC)
//	q := ringq.NewRing[Request](4096, ringq.MPMCHTS)
//	q := ringq.NewRing[Request](4096, ringq.MPMCRTS)
//
// or via the concrete per-mode constructors directly, when the concrete
// type (rather than the [Queue] interface) is useful to callers:
//
//	q := ringq.NewRingMPMC[Request](4096)
//
// # Basic Usage
//
// Every queue family exposes Push/Pop directly, and additionally issues
// scoped Producer/Consumer handles that enforce the descriptor limits
// appropriate to the family (BoundedSPSC and the generic ring's SPSC mode
// default to exactly one producer and one consumer; every MPMC-flavoured
// mode defaults to unlimited):
//
//	prod, err := q.Producer()
//	if err != nil {
//	    // too many live producer handles already
//	}
//	defer prod.Close()
//
//	err = prod.Push(item)
//	if ringq.IsWouldBlock(err) {
//	    // queue full - apply backpressure
//	}
//
//	cons, err := q.Consumer()
//	defer cons.Close()
//	v, err := cons.Pop()
//	if ringq.IsWouldBlock(err) {
//	    // queue empty - try again later
//	}
//
// Producer and Consumer are scoped, non-copyable handles (the closest Go
// analogue of a non-copyable, non-movable RAII type): embed a pointer to
// one, or release it with defer, never assign it by value. Close is
// idempotent.
//
// # Concurrency Modes
//
// The generic ring's four [Mode] values trade off reservation/commit cost
// against how strictly FIFO the result is under contention:
//
//	SPSC    - relaxed reserve, release commit, no peer wait
//	MPMC    - CAS-loop reserve, wait-your-turn tail commit
//	MPMCHTS - CAS-loop reserve gated on head==tail sync, release commit
//	MPMCRTS - CAS-loop reserve bounded by a size/8 in-flight window,
//	          CAS-loop commit that closes gaps via a generation counter
//
// Every mode publishes in reservation order. MPMC lets any number of
// reservations be in flight and pays for it with a hard wait-your-turn
// spin at commit time. MPMCHTS drops that spin by admitting only one
// outstanding reservation per side at a time. MPMCRTS admits up to size/8
// reservations in flight and commits through a CAS loop instead of a spin.
//
// # Pipeline Stage (BoundedSPSC)
//
//	q := ringq.NewBoundedSPSC[Data](1024)
//	prod, _ := q.Producer()
//	cons, _ := q.Consumer()
//
//	go func() { // Stage 1
//	    defer prod.Close()
//	    for data := range input {
//	        for prod.Push(data) != nil {
//	            runtime.Gosched()
//	        }
//	    }
//	}()
//
//	go func() { // Stage 2
//	    defer cons.Close()
//	    for {
//	        data, err := cons.Pop()
//	        if err != nil {
//	            continue
//	        }
//	        process(data)
//	    }
//	}()
//
// # Worker Pool (generic ring, MPMC)
//
//	q := ringq.NewRingMPMC[Job](4096)
//
//	for range numWorkers {
//	    cons, _ := q.Consumer()
//	    go func() {
//	        defer cons.Close()
//	        for {
//	            job, err := cons.Pop()
//	            if err == nil {
//	                job.Run()
//	            }
//	        }
//	    }()
//	}
//
//	prod, _ := q.Producer()
//	func Submit(j Job) error {
//	    return prod.Push(j)
//	}
//
// # Unbounded Queues
//
// [UnboundedSPSC] never reports ErrWouldBlock on Push: it grows a linked
// list of nodes drawn from a private per-queue freelist, recycling
// consumed nodes instead of returning them to the allocator. Pop still
// reports ErrWouldBlock when the queue is empty.
//
//	q := ringq.NewUnboundedSPSC[Event]()
//	prod, _ := q.Producer()
//	cons, _ := q.Consumer()
//	_ = prod.Push(Event{}) // never blocks
//
// # Capacity
//
// The generic ring rounds its slot count up to the next power of 2 so the
// slot index is a mask operation, but Cap always reports the requested
// nominal capacity and Push fails once that many elements are in flight:
//
//	q := ringq.NewRing[int](1000, ringq.MPMC)  // 1024 slots, capacity 1000
//
// BoundedSPSC does not round: it allocates capacity+1 slots (one sentinel
// gap) and holds exactly the requested number of elements.
//
// Panics if capacity < 1.
//
// Approximate size accessors ([BoundedSPSC.ApproximateSize]) are
// best-effort: under concurrent access the true size may have already
// changed by the time the caller observes the result.
//
// # Error Handling
//
// Queues return [ErrWouldBlock] when an operation cannot proceed, sourced
// from [code.hybscloud.com/iox] for ecosystem consistency. Exceeding a
// queue's configured producer/consumer handle limit returns
// [ErrTooManyProducers] or [ErrTooManyConsumers] from Producer/Consumer.
//
//	err := prod.Push(item)
//	if ringq.IsWouldBlock(err) {
//	    // full — retry later
//	}
//
// For semantic error classification (delegates to iox):
//
//	ringq.IsWouldBlock(err)  // true if queue full/empty
//	ringq.IsSemantic(err)    // true if control flow signal
//	ringq.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Thread Safety
//
// SPSC-flavoured queues (BoundedSPSC, UnboundedSPSC, the generic ring's
// SPSC mode) require exactly one producer goroutine and one consumer
// goroutine at a time; this is enforced by their default descriptor
// limits of (1, 1). MPMC-flavoured ring modes accept any number of
// concurrent producers and consumers.
//
// # Closing a Queue
//
// Close panics if any Producer or Consumer handle obtained from the queue
// is still live. This rules out the race of destroying a queue while a
// reservation is in flight: a live handle means a goroutine may be
// between reserving and committing a slot, and zeroing slots underneath
// it would corrupt that in-flight operation.
//
//	prod.Close()
//	cons.Close()
//	q.Close() // safe: no live handles remain
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channel, WaitGroup) but cannot observe happens-before relationships
// established purely through atomic acquire-release orderings. The
// reserve/commit protocols in this package are correct under the Go
// memory model, but the race detector may report false positives on
// code paths it cannot see synchronization in. Tests sensitive to this
// are gated by [RaceEnabled] and //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for CPU pause instructions in
// spin-wait loops.
package ringq
