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

// Pulse is one of the two square wave channels.
type Pulse struct {
	// the sweep unit of the first pulse channel uses ones' complement
	// negation. the second channel uses two's complement
	onesComplement bool

	// cartridge pulse channels have no sweep unit and are never muted by
	// the timer period
	noSweep bool

	env    envelope
	length lengthCounter

	duty     uint8
	sequence uint8

	period uint16
	timer  uint16

	sweepEnabled bool
	sweepPeriod  uint8
	sweepNegate  bool
	sweepShift   uint8
	sweepDivider uint8
	sweepReload  bool
}

func (ch *Pulse) String() string {
	return fmt.Sprintf("duty=%d period=%03x length=%d vol=%d", ch.duty, ch.period, ch.length.value, ch.Level())
}

func (ch *Pulse) reset() {
	*ch = Pulse{onesComplement: ch.onesComplement, noSweep: ch.noSweep}
}

// write to one of the four registers of the channel.
func (ch *Pulse) write(reg uint16, data uint8) {
	switch reg & 0x03 {
	case 0:
		ch.duty = data >> 6
		ch.length.halt = data&0x20 == 0x20
		ch.env.write(data)
	case 1:
		ch.sweepEnabled = data&0x80 == 0x80
		ch.sweepPeriod = (data >> 4) & 0x07
		ch.sweepNegate = data&0x08 == 0x08
		ch.sweepShift = data & 0x07
		ch.sweepReload = true
	case 2:
		ch.period = ch.period&0x0700 | uint16(data)
	case 3:
		ch.period = ch.period&0x00ff | uint16(data&0x07)<<8
		ch.length.reload(data >> 3)
		ch.sequence = 0
		ch.env.start = true
	}
}

// clock is called every APU cycle (every other CPU cycle).
func (ch *Pulse) clock() {
	if ch.timer == 0 {
		ch.timer = ch.period
		ch.sequence = (ch.sequence + 1) & 0x07
	} else {
		ch.timer--
	}
}

func (ch *Pulse) sweepTarget() uint16 {
	delta := ch.period >> ch.sweepShift
	if !ch.sweepNegate {
		return ch.period + delta
	}
	if ch.onesComplement {
		return ch.period - delta - 1
	}
	return ch.period - delta
}

func (ch *Pulse) muted() bool {
	if ch.noSweep {
		return false
	}
	return ch.period < 8 || (!ch.sweepNegate && ch.sweepTarget() > 0x7ff)
}

func (ch *Pulse) clockSweep() {
	if ch.sweepDivider == 0 && ch.sweepEnabled && ch.sweepShift > 0 && !ch.muted() {
		ch.period = ch.sweepTarget() & 0x7ff
	}
	if ch.sweepDivider == 0 || ch.sweepReload {
		ch.sweepDivider = ch.sweepPeriod
		ch.sweepReload = false
	} else {
		ch.sweepDivider--
	}
}

// Level returns the current output of the channel in the range 0 to 15.
func (ch *Pulse) Level() uint8 {
	if !ch.length.active() || ch.muted() || dutyTable[ch.duty][ch.sequence] == 0 {
		return 0
	}
	return ch.env.output()
}

// Period returns the value of the timer period register.
func (ch *Pulse) Period() uint16 {
	return ch.period
}

// LengthCounter returns the current value of the length counter.
func (ch *Pulse) LengthCounter() uint8 {
	return ch.length.value
}

func (ch *Pulse) saveState(w *savestate.Writer) {
	w.Uint32(ch.env.pack())
	ch.length.saveState(w)
	w.Uint8(ch.duty)
	w.Uint8(ch.sequence)
	w.Uint16(ch.period)
	w.Uint16(ch.timer)
	w.Bools(ch.sweepEnabled, ch.sweepNegate, ch.sweepReload)
	w.Uint8(ch.sweepPeriod)
	w.Uint8(ch.sweepShift)
	w.Uint8(ch.sweepDivider)
}

func (ch *Pulse) loadState(r *savestate.Reader) {
	ch.env.unpack(r.Uint32())
	ch.length.loadState(r)
	ch.duty = r.Uint8() & 0x03
	ch.sequence = r.Uint8() & 0x07
	ch.period = r.Uint16() & 0x07ff
	ch.timer = r.Uint16() & 0x07ff
	r.Bools(&ch.sweepEnabled, &ch.sweepNegate, &ch.sweepReload)
	ch.sweepPeriod = r.Uint8() & 0x07
	ch.sweepShift = r.Uint8() & 0x07
	ch.sweepDivider = r.Uint8() & 0x07
}
