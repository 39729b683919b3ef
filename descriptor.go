// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringq

import "code.hybscloud.com/atomix"

// unlimited is the sentinel maximum meaning "no cap on live handles".
const unlimited = -1

// descriptorCounter caps the number of live Producer/Consumer handles on a
// queue. maxProducers/maxConsumers of unlimited disables the corresponding
// check. Mutated only at handle birth (acquire) and death (release).
type descriptorCounter struct {
	nProducers   atomix.Int64
	nConsumers   atomix.Int64
	maxProducers int64
	maxConsumers int64
}

func newDescriptorCounter(maxProducers, maxConsumers int64) *descriptorCounter {
	return &descriptorCounter{maxProducers: maxProducers, maxConsumers: maxConsumers}
}

// acquireProducer registers one producer handle, failing if the configured
// maximum would be exceeded.
func (c *descriptorCounter) acquireProducer() bool {
	if c.maxProducers == unlimited {
		c.nProducers.AddAcqRel(1)
		return true
	}
	if c.nProducers.AddAcqRel(1) > c.maxProducers {
		c.nProducers.AddAcqRel(-1)
		return false
	}
	return true
}

func (c *descriptorCounter) releaseProducer() {
	c.nProducers.AddAcqRel(-1)
}

// acquireConsumer registers one consumer handle, failing if the configured
// maximum would be exceeded.
func (c *descriptorCounter) acquireConsumer() bool {
	if c.maxConsumers == unlimited {
		c.nConsumers.AddAcqRel(1)
		return true
	}
	if c.nConsumers.AddAcqRel(1) > c.maxConsumers {
		c.nConsumers.AddAcqRel(-1)
		return false
	}
	return true
}

func (c *descriptorCounter) releaseConsumer() {
	c.nConsumers.AddAcqRel(-1)
}

// idle reports whether no producer or consumer handles remain live. Used to
// assert the precondition that Close requires on a ring.
func (c *descriptorCounter) idle() bool {
	return c.nProducers.LoadRelaxed() == 0 && c.nConsumers.LoadRelaxed() == 0
}
