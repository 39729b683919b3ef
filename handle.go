// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// noCopy is embedded in handle types purely so `go vet -copylocks` flags a
// copy of the handle by value. It has no runtime behavior.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// enqueuer is satisfied by every queue family's producer side.
type enqueuer[T any] interface {
	Push(v T) error
}

// dequeuer is satisfied by every queue family's consumer side.
type dequeuer[T any] interface {
	Pop() (T, error)
}

// Producer is a scoped, non-copyable borrow of a queue's producer side.
//
// Construction registers one slot in the queue's descriptor counter; Close
// releases it. Close is idempotent. A Producer must not be copied — embed
// a pointer to it, or call Close via defer, never assign it by value.
type Producer[T any] struct {
	_        noCopy
	q        enqueuer[T]
	release  func()
	released atomix.Uint64
}

func newProducer[T any](q enqueuer[T], c *descriptorCounter) (*Producer[T], error) {
	if !c.acquireProducer() {
		return nil, ErrTooManyProducers
	}
	return &Producer[T]{q: q, release: c.releaseProducer}, nil
}

// Push forwards to the underlying queue's Push.
func (p *Producer[T]) Push(v T) error {
	return p.q.Push(v)
}

// Close releases this handle's slot in the descriptor counter. Safe to call
// more than once; only the first call has effect.
func (p *Producer[T]) Close() error {
	if p.released.CompareAndSwapAcqRel(0, 1) {
		p.release()
	}
	return nil
}

// Consumer is a scoped, non-copyable borrow of a queue's consumer side.
//
// Construction registers one slot in the queue's descriptor counter; Close
// releases it. Close is idempotent.
type Consumer[T any] struct {
	_        noCopy
	q        dequeuer[T]
	release  func()
	released atomix.Uint64
}

func newConsumer[T any](q dequeuer[T], c *descriptorCounter) (*Consumer[T], error) {
	if !c.acquireConsumer() {
		return nil, ErrTooManyConsumers
	}
	return &Consumer[T]{q: q, release: c.releaseConsumer}, nil
}

// Pop forwards to the underlying queue's Pop.
func (c *Consumer[T]) Pop() (T, error) {
	return c.q.Pop()
}

// Close releases this handle's slot in the descriptor counter. Safe to call
// more than once; only the first call has effect.
func (c *Consumer[T]) Close() error {
	if c.released.CompareAndSwapAcqRel(0, 1) {
		c.release()
	}
	return nil
}
