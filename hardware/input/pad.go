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
	"strings"

	"github.com/jetsetilly/gopherfc/savestate"
)

// Buttons of the standard pad. The order of the bits is the order in which
// the buttons are reported.
type Buttons uint8

// List of valid Buttons values.
const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = [8]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Buttons) String() string {
	s := strings.Builder{}
	for i, n := range buttonNames {
		if b&(1<<i) != 0 {
			if s.Len() > 0 {
				s.WriteString("+")
			}
			s.WriteString(n)
		}
	}
	if s.Len() == 0 {
		return "none"
	}
	return s.String()
}

// Pad is the standard controller. The buttons are latched into a shift
// register while the strobe is high and shifted out one bit per read.
type Pad struct {
	poll func() Buttons

	buttons Buttons
	latched Buttons
	index   int
	strobe  bool
}

// NewPad is the preferred method of initialisation for the Pad type. The
// poll function can be nil.
func NewPad(poll func() Buttons) *Pad {
	return &Pad{poll: poll}
}

// ID implements the Device interface.
func (pd *Pad) ID() PeripheralID {
	return PeriphPad
}

// Reset implements the Device interface.
func (pd *Pad) Reset() {
	pd.buttons = 0
	pd.latched = 0
	pd.index = 0
	pd.strobe = false
}

// Poll implements the Device interface.
func (pd *Pad) Poll() {
	if pd.poll == nil {
		return
	}
	b := pd.poll()

	// the cross on a pad can't press opposite directions at the same time.
	// some games crash if it happens
	if b&(ButtonUp|ButtonDown) == ButtonUp|ButtonDown {
		b &^= ButtonUp | ButtonDown
	}
	if b&(ButtonLeft|ButtonRight) == ButtonLeft|ButtonRight {
		b &^= ButtonLeft | ButtonRight
	}
	pd.buttons = b
}

// Write implements the Device interface.
func (pd *Pad) Write(data uint8) {
	pd.strobe = data&0x01 == 0x01
	if pd.strobe {
		pd.latched = pd.buttons
		pd.index = 0
	}
}

// Read implements the Device interface. After the eight buttons have been
// read the pad returns 1 for every read.
func (pd *Pad) Read(register int) uint8 {
	if pd.strobe {
		return uint8(pd.buttons & ButtonA)
	}
	if pd.index >= 8 {
		return 0x01
	}
	v := uint8(pd.latched>>pd.index) & 0x01
	pd.index++
	return v
}

// SaveState implements the Device interface.
func (pd *Pad) SaveState(w *savestate.Writer) {
	w.Uint8(uint8(pd.buttons))
	w.Uint8(uint8(pd.latched))
	w.Uint8(uint8(pd.index))
	w.Bool(pd.strobe)
}

// LoadState implements the Device interface.
func (pd *Pad) LoadState(r *savestate.Reader) {
	pd.buttons = Buttons(r.Uint8())
	pd.latched = Buttons(r.Uint8())
	pd.index = int(r.Uint8())
	if pd.index > 8 {
		pd.index = 8
	}
	pd.strobe = r.Bool()
}
