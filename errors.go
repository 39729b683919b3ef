// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Push: the queue is full (backpressure).
// For Pop: the queue is empty (no data available).
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry later (with backoff) rather than propagating the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrTooManyProducers is returned by Producer() when the queue's descriptor
// counter already holds the configured maximum number of live producer
// handles.
var ErrTooManyProducers = errors.New("ringq: too many producers")

// ErrTooManyConsumers is returned by Consumer() when the queue's descriptor
// counter already holds the configured maximum number of live consumer
// handles.
var ErrTooManyConsumers = errors.New("ringq: too many consumers")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
