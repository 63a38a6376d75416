// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"sync/atomic"
)

// Cursor counts the sample slots delivered to an output device.
//
// Next is called only from the render callback; Load and Reset only from the
// control side. The counter saturates at math.MaxUint64 instead of wrapping.
type Cursor struct {
	pos atomic.Uint64
}

// Next returns the current position and advances it by one. Once the
// position reaches math.MaxUint64 it stays there.
func (c *Cursor) Next() uint64 {
	for {
		i := c.pos.Load()
		if i == math.MaxUint64 {
			return i
		}
		if c.pos.CompareAndSwap(i, i+1) {
			return i
		}
	}
}

func (c *Cursor) Load() uint64 { return c.pos.Load() }

func (c *Cursor) Reset() { c.pos.Store(0) }
