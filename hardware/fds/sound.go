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

package fds

import (
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// envelope is the gain unit shared by the volume and the modulation units.
type envelope struct {
	speed    uint8
	gain     uint8
	disabled bool
	increase bool
	freq     uint16
	timer    uint32
}

func (e *envelope) writeControl(data uint8, master uint8) {
	e.speed = data & 0x3f
	e.increase = data&0x40 == 0x40
	e.disabled = data&0x80 == 0x80
	e.resetTimer(master)
	if e.disabled {
		e.gain = e.speed
	}
}

func (e *envelope) writeFreq(high bool, data uint8) {
	if high {
		e.freq = e.freq&0x00ff | uint16(data&0x0f)<<8
	} else {
		e.freq = e.freq&0x0f00 | uint16(data)
	}
}

func (e *envelope) resetTimer(master uint8) {
	e.timer = 8 * (uint32(e.speed) + 1) * uint32(master)
}

// returns true if the gain changed
func (e *envelope) clock(master uint8) bool {
	if e.disabled || master == 0 {
		return false
	}
	if e.timer > 0 {
		e.timer--
	}
	if e.timer > 0 {
		return false
	}
	e.resetTimer(master)
	if e.increase && e.gain < 32 {
		e.gain++
	} else if !e.increase && e.gain > 0 {
		e.gain--
	}
	return true
}

// adjustment of the mod counter for each value in the mod table. the value
// four resets the counter
var modSteps = [8]int8{0, 1, 2, 4, 0, -4, -2, -1}

type modulator struct {
	envelope
	counter  int8
	halted   bool
	table    [64]uint8
	position uint8
	acc      uint16
	output   int32
}

func (m *modulator) setCounter(v int) {
	v &= 0x7f
	if v >= 64 {
		v -= 128
	}
	m.counter = int8(v)
}

// the mod table can only be written while the unit is halted. each write
// fills two entries
func (m *modulator) writeTable(data uint8) {
	if !m.halted {
		return
	}
	m.table[m.position&0x3f] = data & 0x07
	m.table[(m.position+1)&0x3f] = data & 0x07
	m.position = (m.position + 2) & 0x3f
}

func (m *modulator) clock() bool {
	if m.halted || m.freq == 0 {
		return false
	}
	prev := m.acc
	m.acc += m.freq
	if m.acc >= prev {
		return false
	}
	v := m.table[m.position]
	if v == 4 {
		m.setCounter(0)
	} else {
		m.setCounter(int(m.counter) + int(modSteps[v]))
	}
	m.position = (m.position + 1) & 0x3f
	return true
}

// the pitch adjustment from the mod counter and the mod gain. the rounding
// is what the hardware does
func (m *modulator) update(pitch uint16) {
	temp := int32(m.counter) * int32(m.gain)
	remainder := temp & 0x0f
	temp >>= 4
	if remainder > 0 && temp&0x80 == 0 {
		if m.counter < 0 {
			temp--
		} else {
			temp += 2
		}
	}

	if temp >= 192 {
		temp -= 256
	} else if temp < -64 {
		temp += 256
	}

	temp *= int32(pitch)
	remainder = temp & 0x3f
	temp >>= 6
	if remainder >= 32 {
		temp++
	}
	m.output = temp
}

// master volume divisors
var masterVolume = [4]uint32{36, 24, 17, 14}

// Sound is the wavetable channel of the RAM adapter. It implements the
// apu.Channel interface.
type Sound struct {
	volume envelope
	mod    modulator

	wave         [64]uint8
	waveWrite    bool
	wavePosition uint8
	waveAcc      uint16
	haltWave     bool
	haltEnv      bool

	master   uint8
	envSpeed uint8
	level    uint8
}

// NewSound is the preferred method of initialisation for the Sound type.
func NewSound() *Sound {
	s := &Sound{}
	s.Reset()
	return s
}

// Reset the sound hardware.
func (s *Sound) Reset() {
	*s = Sound{
		envSpeed: 0xe8,
	}
	s.mod.halted = true
}

// Read a sound register. Only the lower six bits are driven.
func (s *Sound) Read(address uint16) (uint8, bool) {
	switch {
	case address >= 0x4040 && address <= 0x407f:
		if s.waveWrite {
			return s.wave[address&0x3f], true
		}
		return s.wave[s.wavePosition], true
	case address == 0x4090:
		return s.volume.gain, true
	case address == 0x4092:
		return s.mod.gain, true
	}
	return 0, false
}

// Write a sound register in the range $4040 to $408a.
func (s *Sound) Write(address uint16, data uint8) {
	if address >= 0x4040 && address <= 0x407f {
		if s.waveWrite {
			s.wave[address&0x3f] = data & 0x3f
		}
		return
	}

	switch address {
	case 0x4080:
		s.volume.writeControl(data, s.envSpeed)
	case 0x4082:
		s.volume.writeFreq(false, data)
	case 0x4083:
		s.haltEnv = data&0x40 == 0x40
		s.haltWave = data&0x80 == 0x80
		if s.haltEnv {
			s.volume.resetTimer(s.envSpeed)
			s.mod.resetTimer(s.envSpeed)
		}
		s.volume.writeFreq(true, data)
	case 0x4084:
		s.mod.writeControl(data, s.envSpeed)
	case 0x4085:
		s.mod.setCounter(int(data))
	case 0x4086:
		s.mod.writeFreq(false, data)
	case 0x4087:
		s.mod.writeFreq(true, data)
		s.mod.halted = data&0x80 == 0x80
		if s.mod.halted {
			s.mod.acc = 0
		}
	case 0x4088:
		s.mod.writeTable(data)
	case 0x4089:
		s.master = data & 0x03
		s.waveWrite = data&0x80 == 0x80
	case 0x408a:
		s.envSpeed = data
	}
}

// Clock implements the apu.Channel interface.
func (s *Sound) Clock() {
	pitch := s.volume.freq

	if !s.haltWave && !s.haltEnv {
		s.volume.clock(s.envSpeed)
		if s.mod.envelope.clock(s.envSpeed) {
			s.mod.update(pitch)
		}
	}

	if s.mod.clock() {
		s.mod.update(pitch)
	}

	if s.haltWave {
		s.wavePosition = 0
		s.updateLevel()
		return
	}

	s.updateLevel()

	step := int32(pitch) + s.mod.output
	if step > 0 && !s.waveWrite {
		prev := s.waveAcc
		s.waveAcc += uint16(step)
		if s.waveAcc < prev {
			s.wavePosition = (s.wavePosition + 1) & 0x3f
		}
	}
}

// the output is held while the wave RAM is being written
func (s *Sound) updateLevel() {
	if s.waveWrite {
		return
	}
	gain := uint32(s.volume.gain)
	if gain > 32 {
		gain = 32
	}
	s.level = uint8(uint32(s.wave[s.wavePosition]) * gain * masterVolume[s.master] / 1152)
}

// the loudest output of the FDS is about two and a half times the loudest
// pulse channel
const outputScale = apu.ChannelScale * 15 * 2.4 / 63

// Output implements the apu.Channel interface.
func (s *Sound) Output() float32 {
	return float32(s.level) * outputScale
}

// Level returns the output level of the channel in the range 0 to 63.
func (s *Sound) Level() uint8 {
	return s.level
}

var soundTag = savestate.NewTag("FDSA")

func saveEnvelope(w *savestate.Writer, e *envelope) {
	w.Uint8(e.speed)
	w.Uint8(e.gain)
	w.Bools(e.disabled, e.increase)
	w.Uint16(e.freq)
	w.Uint32(e.timer)
}

func loadEnvelope(r *savestate.Reader, e *envelope) {
	e.speed = r.Uint8() & 0x3f
	e.gain = r.Uint8()
	if e.gain > 0x3f {
		e.gain = 0x3f
	}
	r.Bools(&e.disabled, &e.increase)
	e.freq = r.Uint16() & 0x0fff
	e.timer = r.Uint32()
}

// SaveState writes the sound hardware to the savestate.
func (s *Sound) SaveState(w *savestate.Writer) {
	w.Begin(soundTag)
	saveEnvelope(w, &s.volume)
	saveEnvelope(w, &s.mod.envelope)
	w.Uint8(uint8(s.mod.counter))
	w.Bool(s.mod.halted)
	w.Data(s.mod.table[:])
	w.Uint8(s.mod.position)
	w.Uint16(s.mod.acc)
	w.Uint32(uint32(s.mod.output))
	w.Data(s.wave[:])
	w.Bools(s.waveWrite, s.haltWave, s.haltEnv)
	w.Uint8(s.wavePosition)
	w.Uint16(s.waveAcc)
	w.Uint8(s.master)
	w.Uint8(s.envSpeed)
	w.Uint8(s.level)
	w.End()
}

// LoadState restores the sound hardware from the savestate.
func (s *Sound) LoadState(r *savestate.Reader) {
	r.Begin(soundTag)
	loadEnvelope(r, &s.volume)
	loadEnvelope(r, &s.mod.envelope)
	s.mod.setCounter(int(r.Uint8()))
	s.mod.halted = r.Bool()
	r.Data(s.mod.table[:])
	for i := range s.mod.table {
		s.mod.table[i] &= 0x07
	}
	s.mod.position = r.Uint8() & 0x3f
	s.mod.acc = r.Uint16()
	s.mod.output = int32(r.Uint32())
	r.Data(s.wave[:])
	for i := range s.wave {
		s.wave[i] &= 0x3f
	}
	r.Bools(&s.waveWrite, &s.haltWave, &s.haltEnv)
	s.wavePosition = r.Uint8() & 0x3f
	s.waveAcc = r.Uint16()
	s.master = r.Uint8() & 0x03
	s.envSpeed = r.Uint8()
	s.level = r.Uint8() & 0x3f
	r.End()
}
