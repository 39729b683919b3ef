// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq_test

import (
	"runtime"
	"sync/atomic"
	"time"
)

// dtorCounter is an instance-counting value type used to verify live
// element accounting: a runtime.SetFinalizer callback decrements the
// package-level live count when the garbage collector reclaims an
// instance, standing in for a destructor since Go has none. Tests call
// waitLiveCount, which forces GC passes until the count settles so
// finalizers queued by a preceding Close/zeroing have had a chance to run.
type dtorCounter struct {
	_ int // give the finalizer something to key off that isn't shared
}

var live atomic.Int64

func resetLiveCount() {
	runtime.GC()
	runtime.GC()
	live.Store(0)
}

func newDtorCounter() *dtorCounter {
	d := &dtorCounter{}
	live.Add(1)
	runtime.SetFinalizer(d, func(*dtorCounter) {
		live.Add(-1)
	})
	return d
}

// waitLiveCount forces garbage collection until the finalizer-maintained
// count reaches want or a deadline passes, returning the count it settled
// on. Finalizers run on their own goroutine, so a single GC pass may
// observe them queued but not yet executed.
func waitLiveCount(want int64) int64 {
	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		runtime.GC()
		cur := live.Load()
		if cur == want || time.Now().After(deadline) {
			return cur
		}
		time.Sleep(time.Millisecond)
	}
}
