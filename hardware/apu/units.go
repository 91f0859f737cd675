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

import "github.com/jetsetilly/gopherfc/savestate"

// envelope is shared by the pulse and noise channels. it is clocked on every
// quarter frame.
type envelope struct {
	start    bool
	loop     bool
	constant bool
	volume   uint8
	divider  uint8
	decay    uint8
}

func (e *envelope) write(data uint8) {
	e.loop = data&0x20 == 0x20
	e.constant = data&0x10 == 0x10
	e.volume = data & 0x0f
}

func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.volume
		return
	}

	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.volume

	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *envelope) output() uint8 {
	if e.constant {
		return e.volume
	}
	return e.decay
}

var (
	envStart    = savestate.Field{Shift: 0, Width: 1}
	envLoop     = savestate.Field{Shift: 1, Width: 1}
	envConstant = savestate.Field{Shift: 2, Width: 1}
	envVolume   = savestate.Field{Shift: 3, Width: 4}
	envDivider  = savestate.Field{Shift: 7, Width: 4}
	envDecay    = savestate.Field{Shift: 11, Width: 4}
)

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (e *envelope) pack() uint32 {
	var v uint32
	v = envStart.Set(v, b2u(e.start))
	v = envLoop.Set(v, b2u(e.loop))
	v = envConstant.Set(v, b2u(e.constant))
	v = envVolume.Set(v, uint32(e.volume))
	v = envDivider.Set(v, uint32(e.divider))
	v = envDecay.Set(v, uint32(e.decay))
	return v
}

func (e *envelope) unpack(v uint32) {
	e.start = envStart.Get(v) == 1
	e.loop = envLoop.Get(v) == 1
	e.constant = envConstant.Get(v) == 1
	e.volume = uint8(envVolume.Get(v))
	e.divider = uint8(envDivider.Get(v))
	e.decay = uint8(envDecay.Get(v))
}

// lengthCounter silences a channel when it reaches zero. it is clocked on
// every half frame unless halted.
type lengthCounter struct {
	enabled bool
	halt    bool
	value   uint8
}

func (l *lengthCounter) reload(index uint8) {
	if l.enabled {
		l.value = lengthTable[index&0x1f]
	}
}

func (l *lengthCounter) setEnabled(enabled bool) {
	l.enabled = enabled
	if !enabled {
		l.value = 0
	}
}

func (l *lengthCounter) clock() {
	if !l.halt && l.value > 0 {
		l.value--
	}
}

func (l *lengthCounter) active() bool {
	return l.value > 0
}

func (l *lengthCounter) saveState(w *savestate.Writer) {
	w.Bools(l.enabled, l.halt)
	w.Uint8(l.value)
}

func (l *lengthCounter) loadState(r *savestate.Reader) {
	r.Bools(&l.enabled, &l.halt)
	l.value = r.Uint8()
}
