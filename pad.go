// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

// pad is cache-line padding placed between hot atomic fields to prevent
// false sharing between producer-side and consumer-side cursors.
type pad [64]byte

// roundToPow2 rounds n up to the next power of 2, with a minimum of 2 (so
// n = 1 yields 2). n must be >= 1.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
