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

// KeyboardRows is the number of rows in the key matrix of the Family
// Keyboard. Each row has two columns of four keys.
const KeyboardRows = 9

// KeyboardState is the state of every key of the Family Keyboard, indexed by
// row and by column*4+key.
type KeyboardState [KeyboardRows][8]bool

// Tape is the data recorder interface of the Family Keyboard.
type Tape interface {
	// the level of the tape being played
	Read() bool

	// the level being recorded
	Write(bool)
}

// FamilyKeyboard is the keyboard of Family BASIC. It is plugged into the
// expansion port. A data recorder can be connected to the keyboard.
type FamilyKeyboard struct {
	poll  func() KeyboardState
	state KeyboardState

	// the data recorder. can be nil
	Tape Tape

	row     int
	column  int
	enabled bool
}

// NewFamilyKeyboard is the preferred method of initialisation for the
// FamilyKeyboard type. The tape can be nil.
func NewFamilyKeyboard(poll func() KeyboardState, tape Tape) *FamilyKeyboard {
	return &FamilyKeyboard{
		poll: poll,
		Tape: tape,
	}
}

// ID implements the Device interface.
func (kb *FamilyKeyboard) ID() PeripheralID {
	return PeriphFamilyKeyboard
}

// Reset implements the Device interface.
func (kb *FamilyKeyboard) Reset() {
	kb.state = KeyboardState{}
	kb.row = 0
	kb.column = 0
	kb.enabled = false
}

// Poll implements the Device interface.
func (kb *FamilyKeyboard) Poll() {
	if kb.poll != nil {
		kb.state = kb.poll()
	}
}

// Write implements the Device interface. Bit 0 resets the row, bit 1 selects
// the column and bit 2 enables the keyboard. The row advances when the column
// changes from 1 to 0. Bit 2 is also the output to the data recorder.
func (kb *FamilyKeyboard) Write(data uint8) {
	kb.enabled = data&0x04 == 0x04
	if kb.Tape != nil {
		kb.Tape.Write(kb.enabled)
	}

	column := int(data>>1) & 0x01
	if kb.column == 1 && column == 0 {
		kb.row++
		if kb.row > KeyboardRows {
			kb.row = 0
		}
	}
	kb.column = column

	if data&0x01 == 0x01 {
		kb.row = 0
	}
}

// Read implements the Device interface. The data recorder is read on bit 1 of
// $4016. The keys of the selected row and column are read on bits 1 to 4 of
// $4017 and are low when pressed.
func (kb *FamilyKeyboard) Read(register int) uint8 {
	if register == 0 {
		if kb.Tape != nil && kb.Tape.Read() {
			return 0x02
		}
		return 0x00
	}

	if !kb.enabled {
		return 0x00
	}
	if kb.row >= KeyboardRows {
		return 0x1e
	}

	var v uint8
	for k := 0; k < 4; k++ {
		if !kb.state[kb.row][kb.column*4+k] {
			v |= 0x02 << k
		}
	}
	return v
}

// SaveState implements the Device interface.
func (kb *FamilyKeyboard) SaveState(w *savestate.Writer) {
	w.Uint8(uint8(kb.row))
	w.Uint8(uint8(kb.column))
	w.Bool(kb.enabled)
}

// LoadState implements the Device interface.
func (kb *FamilyKeyboard) LoadState(r *savestate.Reader) {
	kb.row = int(r.Uint8())
	if kb.row > KeyboardRows {
		kb.row = 0
	}
	kb.column = int(r.Uint8() & 0x01)
	kb.enabled = r.Bool()
}
