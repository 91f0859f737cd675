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

	"github.com/jetsetilly/gopherfc/curated"
	"github.com/jetsetilly/gopherfc/savestate"
)

// Noise is the pseudo-random noise channel. The output is taken from a 15
// bit linear feedback shift register.
type Noise struct {
	periods *[16]uint16

	env    envelope
	length lengthCounter

	mode   bool
	period uint16
	timer  uint16
	shift  uint16
}

func (ch *Noise) String() string {
	return fmt.Sprintf("mode=%v period=%d length=%d vol=%d", ch.mode, ch.period, ch.length.value, ch.Level())
}

func (ch *Noise) reset() {
	p := ch.periods
	*ch = Noise{periods: p, shift: 1, period: p[0]}
}

func (ch *Noise) write(reg uint16, data uint8) {
	switch reg & 0x03 {
	case 0:
		ch.length.halt = data&0x20 == 0x20
		ch.env.write(data)
	case 2:
		ch.mode = data&0x80 == 0x80
		ch.period = ch.periods[data&0x0f]
	case 3:
		ch.length.reload(data >> 3)
		ch.env.start = true
	}
}

// clock is called every CPU cycle. the periods in the table are measured in
// CPU cycles.
func (ch *Noise) clock() {
	if ch.timer > 0 {
		ch.timer--
		return
	}
	ch.timer = ch.period - 1

	tap := uint16(1)
	if ch.mode {
		tap = 6
	}
	feedback := (ch.shift ^ (ch.shift >> tap)) & 0x01
	ch.shift = ch.shift>>1 | feedback<<14
}

// Level returns the current output of the channel in the range 0 to 15.
func (ch *Noise) Level() uint8 {
	if !ch.length.active() || ch.shift&0x01 == 0x01 {
		return 0
	}
	return ch.env.output()
}

// Period returns the timer period in CPU cycles.
func (ch *Noise) Period() uint16 {
	return ch.period
}

// LengthCounter returns the current value of the length counter.
func (ch *Noise) LengthCounter() uint8 {
	return ch.length.value
}

func (ch *Noise) saveState(w *savestate.Writer) {
	w.Uint32(ch.env.pack())
	ch.length.saveState(w)
	w.Bool(ch.mode)
	w.Uint16(ch.period)
	w.Uint16(ch.timer)
	w.Uint16(ch.shift)
}

func (ch *Noise) loadState(r *savestate.Reader) {
	ch.env.unpack(r.Uint32())
	ch.length.loadState(r)
	ch.mode = r.Bool()
	ch.period = r.Uint16()
	ch.timer = r.Uint16()
	ch.shift = r.Uint16() & 0x7fff
	if ch.period == 0 {
		r.Fail(curated.Errorf(savestate.BadValue, "noise period", 0))
	}
}
