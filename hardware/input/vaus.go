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

// VausState is returned by the Poll function of the Vaus controller.
type VausState struct {
	// position of the knob. games expect values between about $54 and $f4
	Position uint8
	Button   bool
}

// Vaus is the paddle controller that came with Arkanoid. The NES version is
// plugged into port two. The Famicom version is plugged into the expansion
// port and uses different data lines.
type Vaus struct {
	famicom bool
	poll    func() VausState
	state   VausState

	// the position is latched by the strobe and shifted out most significant
	// bit first. the bits are inverted
	shift  uint8
	strobe bool
}

// NewVaus is the preferred method of initialisation for the Vaus type.
func NewVaus(famicom bool, poll func() VausState) *Vaus {
	return &Vaus{
		famicom: famicom,
		poll:    poll,
	}
}

// ID implements the Device interface.
func (v *Vaus) ID() PeripheralID {
	return PeriphVaus
}

// Reset implements the Device interface.
func (v *Vaus) Reset() {
	v.state = VausState{Position: 0x54}
	v.shift = 0
	v.strobe = false
}

// Poll implements the Device interface.
func (v *Vaus) Poll() {
	if v.poll != nil {
		v.state = v.poll()
	}
}

// Write implements the Device interface.
func (v *Vaus) Write(data uint8) {
	strobe := data&0x01 == 0x01
	if v.strobe && !strobe {
		v.shift = ^v.state.Position
	}
	v.strobe = strobe
}

func (v *Vaus) next() uint8 {
	b := v.shift >> 7
	v.shift <<= 1
	return b
}

// Read implements the Device interface.
func (v *Vaus) Read(register int) uint8 {
	var button uint8
	if v.state.Button {
		button = 0x01
	}

	if v.famicom {
		if register == 0 {
			return button << 1
		}
		return v.next() << 1
	}
	return button<<3 | v.next()<<4
}

// SaveState implements the Device interface.
func (v *Vaus) SaveState(w *savestate.Writer) {
	w.Uint8(v.shift)
	w.Bool(v.strobe)
}

// LoadState implements the Device interface.
func (v *Vaus) LoadState(r *savestate.Reader) {
	v.shift = r.Uint8()
	v.strobe = r.Bool()
}
