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

// Package sunsoft5b implements the sound hardware of the Sunsoft 5B, a variant
// of the General Instrument AY-3-8910. There are three square wave tone
// channels, a noise generator and an envelope generator. Volume is
// logarithmic.
//
// Registers are written in two steps. The register number is written to
// $C000 and the value to $E000.
package sunsoft5b

import (
	"math"

	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// the internal clock divides the CPU clock by 16
const prescale = 16

// volume steps are 1.5dB apart. the four bit channel volume uses every
// second step
var volumeTable [32]float32

func init() {
	for i := 1; i < len(volumeTable); i++ {
		volumeTable[i] = float32(math.Pow(10, -float64(31-i)*1.5/20))
	}
}

type tone struct {
	period  uint16
	counter uint16
	output  bool
	volume  uint8
	useEnv  bool
}

type envelope struct {
	period    uint16
	counter   uint16
	shape     uint8
	step      uint8
	holding   bool
	attacking bool
}

func (e *envelope) restart() {
	e.counter = 0
	e.step = 0
	e.holding = false
	e.attacking = e.shape&0x04 == 0x04
}

func (e *envelope) clock() {
	e.counter++
	if e.counter < e.period {
		return
	}
	e.counter = 0

	if e.holding {
		return
	}

	e.step++
	if e.step < 32 {
		return
	}

	// continue bit clear always ends at zero
	if e.shape&0x08 == 0x00 {
		e.holding = true
		e.attacking = false
		e.step = 31
		return
	}
	if e.shape&0x01 == 0x01 {
		e.holding = true
		e.step = 31
		if e.shape&0x02 == 0x02 {
			e.attacking = !e.attacking
		}
		return
	}
	if e.shape&0x02 == 0x02 {
		e.attacking = !e.attacking
	}
	e.step = 0
}

// level returns the index into the volume table.
func (e *envelope) level() uint8 {
	if e.holding && e.shape&0x08 == 0x00 {
		return 0
	}
	if e.attacking {
		return e.step
	}
	return 31 - e.step
}

// Sunsoft5B is the sound hardware of the Sunsoft 5B. It implements the
// apu.Channel interface.
type Sunsoft5B struct {
	register uint8
	regs     [16]uint8

	tones [3]tone
	env   envelope

	noisePeriod  uint8
	noiseCounter uint8
	lfsr         uint32

	// bits 0 to 2 disable the tones. bits 3 to 5 disable the noise
	mixer uint8

	prescaler int
}

// NewSunsoft5B is the preferred method of initialisation for the Sunsoft5B
// type.
func NewSunsoft5B() *Sunsoft5B {
	s := &Sunsoft5B{}
	s.Reset()
	return s
}

// Reset the sound hardware.
func (s *Sunsoft5B) Reset() {
	*s = Sunsoft5B{
		lfsr:  1,
		mixer: 0xff,
	}
}

// SelectRegister handles writes to $C000.
func (s *Sunsoft5B) SelectRegister(data uint8) {
	s.register = data
}

// WriteRegister handles writes to $E000. Writes are ignored if the upper
// nibble of the selected register is not zero.
func (s *Sunsoft5B) WriteRegister(data uint8) {
	if s.register&0xf0 != 0 {
		return
	}
	reg := s.register & 0x0f
	s.regs[reg] = data

	switch reg {
	case 0, 2, 4:
		t := &s.tones[reg>>1]
		t.period = t.period&0x0f00 | uint16(data)
	case 1, 3, 5:
		t := &s.tones[reg>>1]
		t.period = t.period&0x00ff | uint16(data&0x0f)<<8
	case 6:
		s.noisePeriod = data & 0x1f
	case 7:
		s.mixer = data
	case 8, 9, 10:
		t := &s.tones[reg-8]
		t.volume = data & 0x0f
		t.useEnv = data&0x10 == 0x10
	case 11:
		s.env.period = s.env.period&0xff00 | uint16(data)
	case 12:
		s.env.period = s.env.period&0x00ff | uint16(data)<<8
	case 13:
		s.env.shape = data & 0x0f
		s.env.restart()
	}
}

// Register returns the last value written to the register.
func (s *Sunsoft5B) Register(reg uint8) uint8 {
	return s.regs[reg&0x0f]
}

// Clock implements the apu.Channel interface.
func (s *Sunsoft5B) Clock() {
	s.prescaler++
	if s.prescaler < prescale {
		return
	}
	s.prescaler = 0

	for i := range s.tones {
		t := &s.tones[i]
		t.counter++
		if t.counter >= t.period {
			t.counter = 0
			t.output = !t.output
		}
	}

	// the noise generator runs at half the rate of the tones
	s.noiseCounter++
	if s.noiseCounter >= s.noisePeriod<<1 {
		s.noiseCounter = 0
		bit := (s.lfsr ^ (s.lfsr >> 3)) & 0x01
		s.lfsr = s.lfsr>>1 | bit<<16
	}

	s.env.clock()
}

// Level returns the output of one of the tone channels as an index into the
// logarithmic volume table, in the range 0 to 31.
func (s *Sunsoft5B) Level(channel int) uint8 {
	t := &s.tones[channel]
	toneOff := s.mixer&(0x01<<channel) != 0
	noiseOff := s.mixer&(0x08<<channel) != 0

	if !(toneOff || t.output) || !(noiseOff || s.lfsr&0x01 == 0x01) {
		return 0
	}
	if t.useEnv {
		return s.env.level()
	}
	if t.volume == 0 {
		return 0
	}
	return t.volume<<1 + 1
}

// the loudest tone is roughly as loud as an APU pulse channel at full volume
const scale = apu.ChannelScale * 15

// Output implements the apu.Channel interface.
func (s *Sunsoft5B) Output() float32 {
	var v float32
	for i := range s.tones {
		v += volumeTable[s.Level(i)]
	}
	return v * scale
}

var tag = savestate.NewTag("5B  ")

// SaveState writes the sound hardware to the savestate.
func (s *Sunsoft5B) SaveState(w *savestate.Writer) {
	w.Begin(tag)
	w.Uint8(s.register)
	w.Data(s.regs[:])
	for i := range s.tones {
		w.Uint16(s.tones[i].counter)
		w.Bool(s.tones[i].output)
	}
	w.Uint16(s.env.counter)
	w.Uint8(s.env.step)
	w.Bools(s.env.holding, s.env.attacking)
	w.Uint8(s.noiseCounter)
	w.Uint32(s.lfsr)
	w.Int(s.prescaler)
	w.End()
}

// LoadState restores the sound hardware from the savestate. The register
// values are replayed and then the counters are restored.
func (s *Sunsoft5B) LoadState(r *savestate.Reader) {
	r.Begin(tag)
	register := r.Uint8()
	var regs [16]uint8
	r.Data(regs[:])
	if r.Err() != nil {
		return
	}

	for i, v := range regs {
		s.register = uint8(i)
		if i == 13 {
			s.regs[13] = v
			s.env.shape = v & 0x0f
			continue
		}
		s.WriteRegister(v)
	}
	s.register = register

	for i := range s.tones {
		s.tones[i].counter = r.Uint16() & 0x0fff
		s.tones[i].output = r.Bool()
	}
	s.env.counter = r.Uint16()
	s.env.step = r.Uint8() & 0x1f
	r.Bools(&s.env.holding, &s.env.attacking)
	s.noiseCounter = r.Uint8() & 0x3f
	s.lfsr = r.Uint32() & 0x1ffff
	if s.lfsr == 0 {
		s.lfsr = 1
	}
	s.prescaler = r.Int()
	if s.prescaler < 0 || s.prescaler >= prescale {
		s.prescaler = 0
	}
	r.End()
}
