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

package apu

import (
	"fmt"

	"github.com/jetsetilly/gopherfc/savestate"
)

// Triangle is the triangle wave channel. It has no volume control. The
// linear counter provides a finer grained duration than the length counter.
type Triangle struct {
	length lengthCounter

	control       bool
	linearReload  uint8
	linearCounter uint8
	reloadFlag    bool

	period   uint16
	timer    uint16
	sequence uint8
}

func (ch *Triangle) String() string {
	return fmt.Sprintf("period=%03x length=%d linear=%d", ch.period, ch.length.value, ch.linearCounter)
}

func (ch *Triangle) reset() {
	*ch = Triangle{}
}

func (ch *Triangle) write(reg uint16, data uint8) {
	switch reg & 0x03 {
	case 0:
		ch.control = data&0x80 == 0x80
		ch.length.halt = ch.control
		ch.linearReload = data & 0x7f
	case 2:
		ch.period = ch.period&0x0700 | uint16(data)
	case 3:
		ch.period = ch.period&0x00ff | uint16(data&0x07)<<8
		ch.length.reload(data >> 3)
		ch.reloadFlag = true
	}
}

// clock is called every CPU cycle.
func (ch *Triangle) clock() {
	if ch.timer == 0 {
		ch.timer = ch.period
		// the sequencer only advances if both counters are non-zero
		if ch.length.active() && ch.linearCounter > 0 {
			ch.sequence = (ch.sequence + 1) & 0x1f
		}
	} else {
		ch.timer--
	}
}

func (ch *Triangle) clockLinear() {
	if ch.reloadFlag {
		ch.linearCounter = ch.linearReload
	} else if ch.linearCounter > 0 {
		ch.linearCounter--
	}
	if !ch.control {
		ch.reloadFlag = false
	}
}

// Level returns the current output of the channel in the range 0 to 15. The
// channel is not silenced when the counters reach zero. The output remains
// at the level of the halted sequencer.
func (ch *Triangle) Level() uint8 {
	// ultrasonic frequencies are silenced to avoid popping
	if ch.period < 2 {
		return 7
	}
	return triangleTable[ch.sequence]
}

// Period returns the value of the timer period register.
func (ch *Triangle) Period() uint16 {
	return ch.period
}

// LengthCounter returns the current value of the length counter.
func (ch *Triangle) LengthCounter() uint8 {
	return ch.length.value
}

func (ch *Triangle) saveState(w *savestate.Writer) {
	ch.length.saveState(w)
	w.Bools(ch.control, ch.reloadFlag)
	w.Uint8(ch.linearReload)
	w.Uint8(ch.linearCounter)
	w.Uint16(ch.period)
	w.Uint16(ch.timer)
	w.Uint8(ch.sequence)
}

func (ch *Triangle) loadState(r *savestate.Reader) {
	ch.length.loadState(r)
	r.Bools(&ch.control, &ch.reloadFlag)
	ch.linearReload = r.Uint8() & 0x7f
	ch.linearCounter = r.Uint8() & 0x7f
	ch.period = r.Uint16() & 0x07ff
	ch.timer = r.Uint16() & 0x07ff
	ch.sequence = r.Uint8() & 0x1f
}
