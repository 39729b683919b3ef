// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/iox"

	"github.com/l-lyr/ringq"
)

// TestConservationBoundedSPSC exercises universal property 1: after a
// producer pushes a known sequence and a concurrent consumer drains it,
// the multiset of popped values equals the multiset of pushed values
// (and, for SPSC, in the same order — property 2).
func TestConservationBoundedSPSC(t *testing.T) {
	if ringq.RaceEnabled {
		t.Skip("skip: concurrent access not observable under the race detector")
	}

	q := ringq.NewBoundedSPSC[uint64](1024)
	const n = 1 << 20

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := uint64(0); i < n; i++ {
			for q.Push(i) != nil {
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	popped := make([]uint64, 0, n)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for len(popped) < n {
			v, err := q.Pop()
			if err != nil {
				backoff.Wait()
				continue
			}
			popped = append(popped, v)
			backoff.Reset()
		}
	}()

	wg.Wait()

	if len(popped) != n {
		t.Fatalf("popped count: got %d, want %d", len(popped), n)
	}
	for i, v := range popped {
		if v != uint64(i) {
			t.Fatalf("FIFO violation at index %d: got %d, want %d", i, v, i)
		}
	}
}

// TestConservationRingSPSC runs the same producer/consumer drain over the
// generic ring's SPSC mode, which shares the FIFO guarantee with the
// dedicated bounded queue but uses the DPDK-style head/tail cursor pair
// instead of Lamport's sentinel-gap ring.
func TestConservationRingSPSC(t *testing.T) {
	if ringq.RaceEnabled {
		t.Skip("skip: concurrent access not observable under the race detector")
	}

	q := ringq.NewRingSPSC[uint64](1024)
	const n = 1 << 20

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := uint64(0); i < n; i++ {
			for q.Push(i) != nil {
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	var mismatch int64 = -1
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for want := uint64(0); want < n; {
			v, err := q.Pop()
			if err != nil {
				backoff.Wait()
				continue
			}
			if v != want && mismatch < 0 {
				mismatch = int64(want)
			}
			want++
			backoff.Reset()
		}
	}()

	wg.Wait()
	if mismatch >= 0 {
		t.Fatalf("FIFO violation at index %d", mismatch)
	}
}

// TestConservationUnboundedSPSC drains a concurrent producer through the
// unbounded queue and checks FIFO order; Push never fails, so only the
// consumer side retries.
func TestConservationUnboundedSPSC(t *testing.T) {
	if ringq.RaceEnabled {
		t.Skip("skip: concurrent access not observable under the race detector")
	}

	q := ringq.NewUnboundedSPSC[uint64]()
	const n = 1 << 20

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := uint64(0); i < n; i++ {
			_ = q.Push(i)
		}
	}()

	var mismatch int64 = -1
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for want := uint64(0); want < n; {
			v, err := q.Pop()
			if err != nil {
				backoff.Wait()
				continue
			}
			if v != want && mismatch < 0 {
				mismatch = int64(want)
			}
			want++
			backoff.Reset()
		}
	}()

	wg.Wait()
	if mismatch >= 0 {
		t.Fatalf("FIFO violation at index %d", mismatch)
	}
}

// TestCapacityBound exercises universal property 4: approximate_size never
// exceeds capacity, on BoundedSPSC (the ring that exposes ApproximateSize),
// under concurrent push/pop.
func TestCapacityBound(t *testing.T) {
	if ringq.RaceEnabled {
		t.Skip("skip: concurrent access not observable under the race detector")
	}

	const capacity = 256
	q := ringq.NewBoundedSPSC[int](capacity)

	var wg sync.WaitGroup
	wg.Add(2)
	stop := time.Now().Add(200 * time.Millisecond)

	go func() {
		defer wg.Done()
		for time.Now().Before(stop) {
			_ = q.Push(1)
		}
	}()
	go func() {
		defer wg.Done()
		for time.Now().Before(stop) {
			if size := q.ApproximateSize(); size < 0 || size > capacity {
				t.Errorf("ApproximateSize out of bounds: got %d, want [0, %d]", size, capacity)
				return
			}
			_, _ = q.Pop()
		}
	}()
	wg.Wait()
}
