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

// Package vrc6 implements the sound hardware of the Konami VRC6. There are two
// pulse channels with eight step duty cycles and a sawtooth channel.
package vrc6

import (
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/savestate"
)

type pulse struct {
	volume  uint8
	duty    uint8
	mode    bool
	enabled bool
	period  uint16
	timer   uint16
	step    uint8
}

func (p *pulse) write(reg uint16, data uint8) {
	switch reg {
	case 0:
		p.mode = data&0x80 == 0x80
		p.duty = (data >> 4) & 0x07
		p.volume = data & 0x0f
	case 1:
		p.period = p.period&0x0f00 | uint16(data)
	case 2:
		p.period = p.period&0x00ff | uint16(data&0x0f)<<8
		p.enabled = data&0x80 == 0x80
		if !p.enabled {
			p.step = 15
		}
	}
}

func (p *pulse) clock(shift uint8) {
	if !p.enabled {
		return
	}
	if p.timer == 0 {
		p.timer = p.period >> shift
		if p.step == 0 {
			p.step = 15
		} else {
			p.step--
		}
	} else {
		p.timer--
	}
}

func (p *pulse) level() uint8 {
	if !p.enabled {
		return 0
	}
	if p.mode || p.step <= p.duty {
		return p.volume
	}
	return 0
}

type sawtooth struct {
	rate    uint8
	enabled bool
	period  uint16
	timer   uint16
	step    uint8
	acc     uint8
}

func (s *sawtooth) write(reg uint16, data uint8) {
	switch reg {
	case 0:
		s.rate = data & 0x3f
	case 1:
		s.period = s.period&0x0f00 | uint16(data)
	case 2:
		s.period = s.period&0x00ff | uint16(data&0x0f)<<8
		s.enabled = data&0x80 == 0x80
		if !s.enabled {
			s.acc = 0
			s.step = 0
		}
	}
}

// the accumulator is increased on every second step and cleared on the
// fourteenth.
func (s *sawtooth) clock(shift uint8) {
	if !s.enabled {
		return
	}
	if s.timer > 0 {
		s.timer--
		return
	}
	s.timer = s.period >> shift

	s.step++
	if s.step >= 14 {
		s.step = 0
		s.acc = 0
	} else if s.step&0x01 == 0x00 {
		s.acc += s.rate
	}
}

func (s *sawtooth) level() uint8 {
	return s.acc >> 3
}

// VRC6 is the sound hardware of the VRC6. It implements the apu.Channel
// interface.
type VRC6 struct {
	pulse [2]pulse
	saw   sawtooth

	// the frequency control register at $9003
	halt  bool
	shift uint8
}

// NewVRC6 is the preferred method of initialisation for the VRC6 type.
func NewVRC6() *VRC6 {
	v := &VRC6{}
	v.Reset()
	return v
}

// Reset the sound hardware.
func (v *VRC6) Reset() {
	*v = VRC6{}
}

// Write to a sound register. The address should be in the range $9000 to $B002
// with the two lowest bits already decoded by the board.
func (v *VRC6) Write(address uint16, data uint8) {
	reg := address & 0x03
	switch address & 0xf000 {
	case 0x9000:
		if reg == 3 {
			v.halt = data&0x01 == 0x01
			switch {
			case data&0x04 == 0x04:
				v.shift = 8
			case data&0x02 == 0x02:
				v.shift = 4
			default:
				v.shift = 0
			}
			return
		}
		v.pulse[0].write(reg, data)
	case 0xa000:
		v.pulse[1].write(reg, data)
	case 0xb000:
		v.saw.write(reg, data)
	}
}

// Clock implements the apu.Channel interface.
func (v *VRC6) Clock() {
	if v.halt {
		return
	}
	v.pulse[0].clock(v.shift)
	v.pulse[1].clock(v.shift)
	v.saw.clock(v.shift)
}

// Output implements the apu.Channel interface.
func (v *VRC6) Output() float32 {
	return float32(v.Levels()) * apu.ChannelScale
}

// Levels returns the sum of the channel levels. The pulse channels are in the
// range 0 to 15 and the sawtooth 0 to 31.
func (v *VRC6) Levels() int {
	return int(v.pulse[0].level()) + int(v.pulse[1].level()) + int(v.saw.level())
}

var tag = savestate.NewTag("VRC6")

// SaveState writes the sound hardware to the savestate.
func (v *VRC6) SaveState(w *savestate.Writer) {
	w.Begin(tag)
	for i := range v.pulse {
		p := &v.pulse[i]
		w.Uint8(p.volume)
		w.Uint8(p.duty)
		w.Bools(p.mode, p.enabled)
		w.Uint16(p.period)
		w.Uint16(p.timer)
		w.Uint8(p.step)
	}
	w.Uint8(v.saw.rate)
	w.Bool(v.saw.enabled)
	w.Uint16(v.saw.period)
	w.Uint16(v.saw.timer)
	w.Uint8(v.saw.step)
	w.Uint8(v.saw.acc)
	w.Bool(v.halt)
	w.Uint8(v.shift)
	w.End()
}

// LoadState restores the sound hardware from the savestate.
func (v *VRC6) LoadState(r *savestate.Reader) {
	r.Begin(tag)
	for i := range v.pulse {
		p := &v.pulse[i]
		p.volume = r.Uint8() & 0x0f
		p.duty = r.Uint8() & 0x07
		r.Bools(&p.mode, &p.enabled)
		p.period = r.Uint16() & 0x0fff
		p.timer = r.Uint16() & 0x0fff
		p.step = r.Uint8() & 0x0f
	}
	v.saw.rate = r.Uint8() & 0x3f
	v.saw.enabled = r.Bool()
	v.saw.period = r.Uint16() & 0x0fff
	v.saw.timer = r.Uint16() & 0x0fff
	v.saw.step = r.Uint8() % 14
	v.saw.acc = r.Uint8()
	v.halt = r.Bool()
	v.shift = r.Uint8() & 0x0c
	r.End()
}
