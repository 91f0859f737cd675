// This file is part of GopherFC.
//
// GopherFC is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherFC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherFC.  If not, see <https://www.gnu.org/licenses/>.

package mapper

import (
	"github.com/jetsetilly/gopherfc/savestate"
)

// VRCIRQ is the IRQ counter found in the VRC4, VRC6 and VRC7. The counter is
// clocked either every CPU cycle or, in scanline mode, by a prescaler that
// approximates one clock per scanline by counting 341 PPU dots in steps of
// three.
//
// The board calls Clock() from SyncCycle() and sets the IRQ line when it
// returns true.
type VRCIRQ struct {
	Latch     uint8
	Counter   uint8
	Prescaler int
	Enabled   bool
	AfterAck  bool
	CycleMode bool
}

// WriteLatch sets the low or high nibble of the latch. Used by VRC4, which
// writes the latch four bits at a time.
func (irq *VRCIRQ) WriteLatch(high bool, data uint8) {
	if high {
		irq.Latch = irq.Latch&0x0f | data<<4
	} else {
		irq.Latch = irq.Latch&0xf0 | data&0x0f
	}
}

// WriteControl handles a write to the control register. The counter and
// prescaler are reloaded if the IRQ is enabled.
func (irq *VRCIRQ) WriteControl(data uint8) {
	irq.AfterAck = data&0x01 == 0x01
	irq.Enabled = data&0x02 == 0x02
	irq.CycleMode = data&0x04 == 0x04
	if irq.Enabled {
		irq.Counter = irq.Latch
		irq.Prescaler = 341
	}
}

// Acknowledge handles a write to the acknowledge register.
func (irq *VRCIRQ) Acknowledge() {
	irq.Enabled = irq.AfterAck
}

// Clock is called once per CPU cycle. Returns true if the counter overflowed
// and the IRQ should be asserted.
func (irq *VRCIRQ) Clock() bool {
	if !irq.Enabled {
		return false
	}

	if !irq.CycleMode {
		irq.Prescaler -= 3
		if irq.Prescaler > 0 {
			return false
		}
		irq.Prescaler += 341
	}

	if irq.Counter == 0xff {
		irq.Counter = irq.Latch
		return true
	}
	irq.Counter++
	return false
}

// SaveState writes the state of the counter.
func (irq *VRCIRQ) SaveState(w *savestate.Writer) {
	w.Uint8(irq.Latch)
	w.Uint8(irq.Counter)
	w.Int(irq.Prescaler)
	w.Bools(irq.Enabled, irq.AfterAck, irq.CycleMode)
}

// LoadState restores the state written by SaveState().
func (irq *VRCIRQ) LoadState(r *savestate.Reader) {
	irq.Latch = r.Uint8()
	irq.Counter = r.Uint8()
	irq.Prescaler = r.Int()
	r.Bools(&irq.Enabled, &irq.AfterAck, &irq.CycleMode)
}
