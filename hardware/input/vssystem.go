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

// VSState is returned by the Poll function of the VSSystem.
type VSState struct {
	Coin1   bool
	Coin2   bool
	Service bool

	// the eight DIP switches. switch 1 is bit 0
	DIP uint8
}

// VSSystem is the cabinet hardware of the VS System arcade boards. Coin slots
// and DIP switches are read through the controller registers. The coin
// counter is driven by writes to $4020. It is plugged into the expansion
// port.
type VSSystem struct {
	poll  func() VSState
	state VSState

	// number of coins counted by the coin counter
	Coins int

	counter bool
}

// NewVSSystem is the preferred method of initialisation for the VSSystem type.
func NewVSSystem(poll func() VSState) *VSSystem {
	return &VSSystem{poll: poll}
}

// ID implements the Device interface.
func (vs *VSSystem) ID() PeripheralID {
	return PeriphVSSystem
}

// Reset implements the Device interface. The coin count is not reset.
func (vs *VSSystem) Reset() {
	vs.counter = false
}

// Poll implements the Device interface.
func (vs *VSSystem) Poll() {
	if vs.poll != nil {
		vs.state = vs.poll()
	}
}

// Write implements the Device interface.
func (vs *VSSystem) Write(data uint8) {
}

// Read implements the Device interface. Bit 2 of $4016 is the service button,
// bits 3 and 4 are the first two DIP switches and bits 5 and 6 are the coin
// slots. Bits 2 to 7 of $4017 are the other six DIP switches.
func (vs *VSSystem) Read(register int) uint8 {
	if register == 1 {
		return vs.state.DIP & 0xfc
	}

	var v uint8
	if vs.state.Service {
		v |= 0x04
	}
	v |= (vs.state.DIP & 0x03) << 3
	if vs.state.Coin1 {
		v |= 0x20
	}
	if vs.state.Coin2 {
		v |= 0x40
	}
	return v
}

// the counter counts on the rising edge of bit 0
func (vs *VSSystem) writeCounter(address uint16, data uint8) {
	c := data&0x01 == 0x01
	if c && !vs.counter {
		vs.Coins++
	}
	vs.counter = c
}

// SaveState implements the Device interface.
func (vs *VSSystem) SaveState(w *savestate.Writer) {
	w.Bool(vs.counter)
	w.Uint32(uint32(vs.Coins))
}

// LoadState implements the Device interface.
func (vs *VSSystem) LoadState(r *savestate.Reader) {
	vs.counter = r.Bool()
	vs.Coins = int(r.Uint32())
}
