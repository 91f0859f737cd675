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

// Package mmc5 implements the sound hardware of the Nintendo MMC5. There are
// two pulse channels, identical to the APU pulse channels but without the
// sweep unit, and an 8-bit PCM channel.
//
// The MMC5 has no frame sequencer of its own. The envelopes and length
// counters are clocked at a fixed rate of about 240Hz.
package mmc5

import (
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// number of CPU cycles between clocks of the envelopes and length counters
const framePeriod = 7457

// MMC5 is the sound hardware of the MMC5. It implements the apu.Channel
// interface.
type MMC5 struct {
	Pulse1 *apu.Pulse
	Pulse2 *apu.Pulse

	// PCM channel
	pcm        uint8
	pcmRead    bool
	pcmIRQ     bool
	pcmIRQFlag bool

	cycle uint64
	frame int
}

// NewMMC5 is the preferred method of initialisation for the MMC5 type.
func NewMMC5() *MMC5 {
	return &MMC5{
		Pulse1: apu.NewCartridgePulse(),
		Pulse2: apu.NewCartridgePulse(),
	}
}

// Reset the sound hardware.
func (m *MMC5) Reset() {
	m.Pulse1.Reset()
	m.Pulse2.Reset()
	m.pcm = 0
	m.pcmRead = false
	m.pcmIRQ = false
	m.pcmIRQFlag = false
	m.cycle = 0
	m.frame = 0
}

// Write to a register in the range $5000 to $5015.
func (m *MMC5) Write(address uint16, data uint8) {
	switch {
	case address >= 0x5000 && address <= 0x5003:
		m.Pulse1.Write(address, data)
	case address >= 0x5004 && address <= 0x5007:
		m.Pulse2.Write(address, data)
	case address == 0x5010:
		m.pcmRead = data&0x01 == 0x01
		m.pcmIRQ = data&0x80 == 0x80
	case address == 0x5011:
		if !m.pcmRead && data != 0 {
			m.pcm = data
		}
	case address == 0x5015:
		m.Pulse1.SetEnabled(data&0x01 == 0x01)
		m.Pulse2.SetEnabled(data&0x02 == 0x02)
	}
}

// Read from a register. Only $5010 and $5015 are readable. The second return
// value is false if the address is not readable.
func (m *MMC5) Read(address uint16) (uint8, bool) {
	switch address {
	case 0x5010:
		var v uint8
		if m.pcmIRQ && m.pcmIRQFlag {
			v |= 0x80
		}
		if m.pcmRead {
			v |= 0x01
		}
		m.pcmIRQFlag = false
		return v, true
	case 0x5015:
		var v uint8
		if m.Pulse1.LengthCounter() > 0 {
			v |= 0x01
		}
		if m.Pulse2.LengthCounter() > 0 {
			v |= 0x02
		}
		return v, true
	}
	return 0, false
}

// ReadPCM should be called by the board for every CPU read from $8000 to $BFFF.
// In PCM read mode the value read is sent to the PCM channel. A value of zero
// raises the IRQ flag instead.
func (m *MMC5) ReadPCM(data uint8) {
	if !m.pcmRead {
		return
	}
	if data == 0 {
		m.pcmIRQFlag = true
		return
	}
	m.pcm = data
}

// IRQ returns true if the PCM channel is asserting the IRQ line.
func (m *MMC5) IRQ() bool {
	return m.pcmIRQ && m.pcmIRQFlag
}

// Clock implements the apu.Channel interface.
func (m *MMC5) Clock() {
	m.cycle++
	if m.cycle&0x01 == 0x00 {
		m.Pulse1.Tick()
		m.Pulse2.Tick()
	}

	m.frame++
	if m.frame >= framePeriod {
		m.frame = 0
		m.Pulse1.QuarterFrame()
		m.Pulse2.QuarterFrame()
		m.Pulse1.HalfFrame()
		m.Pulse2.HalfFrame()
	}
}

// Output implements the apu.Channel interface. The PCM channel is about as loud
// as the DMC channel of the APU.
func (m *MMC5) Output() float32 {
	p := float32(m.Pulse1.Level()) + float32(m.Pulse2.Level())
	return p*apu.ChannelScale + float32(m.pcm)*pcmScale
}

const pcmScale = float32(163.67/(24329.0/127.0+100.0)) / 255.0

var tag = savestate.NewTag("MMC5")

// SaveState writes the sound hardware to the savestate.
func (m *MMC5) SaveState(w *savestate.Writer) {
	w.Begin(tag)
	m.Pulse1.SaveState(w)
	m.Pulse2.SaveState(w)
	w.Uint8(m.pcm)
	w.Bools(m.pcmRead, m.pcmIRQ, m.pcmIRQFlag)
	w.Uint64(m.cycle)
	w.Int(m.frame)
	w.End()
}

// LoadState restores the sound hardware from the savestate.
func (m *MMC5) LoadState(r *savestate.Reader) {
	r.Begin(tag)
	m.Pulse1.LoadState(r)
	m.Pulse2.LoadState(r)
	m.pcm = r.Uint8()
	r.Bools(&m.pcmRead, &m.pcmIRQ, &m.pcmIRQFlag)
	m.cycle = r.Uint64()
	m.frame = r.Int()
	if m.frame < 0 || m.frame >= framePeriod {
		m.frame = 0
	}
	r.End()
}
