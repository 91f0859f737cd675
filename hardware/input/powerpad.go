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

package input

import (
	"github.com/jetsetilly/gopherfc/savestate"
)

// PowerPadState is the state of the twelve buttons of the Power Pad. Button
// one is at index zero.
type PowerPadState [12]bool

// the order in which buttons are shifted out on each of the two data lines.
// the second line has only four buttons
var (
	powerPadLow  = [8]int{2, 1, 5, 9, 6, 10, 11, 7}
	powerPadHigh = [4]int{4, 3, 12, 8}
)

// PowerPad is the floor mat controller. It is plugged into port two and uses
// data lines 3 and 4.
type PowerPad struct {
	poll  func() PowerPadState
	state PowerPadState

	low    uint8
	high   uint8
	index  int
	strobe bool
}

// NewPowerPad is the preferred method of initialisation for the PowerPad
// type.
func NewPowerPad(poll func() PowerPadState) *PowerPad {
	return &PowerPad{poll: poll}
}

// ID implements the Device interface.
func (pp *PowerPad) ID() PeripheralID {
	return PeriphPowerPad
}

// Reset implements the Device interface.
func (pp *PowerPad) Reset() {
	pp.state = PowerPadState{}
	pp.low = 0
	pp.high = 0
	pp.index = 0
	pp.strobe = false
}

// Poll implements the Device interface.
func (pp *PowerPad) Poll() {
	if pp.poll != nil {
		pp.state = pp.poll()
	}
}

func (pp *PowerPad) latch() {
	pp.low = 0
	for i, b := range powerPadLow {
		if pp.state[b-1] {
			pp.low |= 1 << i
		}
	}

	// the unused bits of the second shift register read as pressed
	pp.high = 0xf0
	for i, b := range powerPadHigh {
		if pp.state[b-1] {
			pp.high |= 1 << i
		}
	}
	pp.index = 0
}

// Write implements the Device interface.
func (pp *PowerPad) Write(data uint8) {
	pp.strobe = data&0x01 == 0x01
	if pp.strobe {
		pp.latch()
	}
}

// Read implements the Device interface.
func (pp *PowerPad) Read(register int) uint8 {
	if pp.strobe {
		pp.latch()
	}
	if pp.index >= 8 {
		return 0x18
	}
	v := (pp.low>>pp.index&0x01)<<3 | (pp.high>>pp.index&0x01)<<4
	if !pp.strobe {
		pp.index++
	}
	return v
}

// SaveState implements the Device interface.
func (pp *PowerPad) SaveState(w *savestate.Writer) {
	w.Uint8(pp.low)
	w.Uint8(pp.high)
	w.Uint8(uint8(pp.index))
	w.Bool(pp.strobe)
}

// LoadState implements the Device interface.
func (pp *PowerPad) LoadState(r *savestate.Reader) {
	pp.low = r.Uint8()
	pp.high = r.Uint8()
	pp.index = int(r.Uint8())
	if pp.index > 8 {
		pp.index = 8
	}
	pp.strobe = r.Bool()
}
