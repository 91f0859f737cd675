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

// Package n163 implements the wavetable sound hardware of the Namco 163.
//
// The chip has 128 bytes of internal RAM which hold both the channel registers
// and the 4-bit samples of the waveforms. Up to eight channels can be active.
// The chip updates one channel every 15 CPU cycles and outputs each channel in
// turn, so the more channels that are enabled the lower the sample rate of
// each channel.
//
// The RAM is accessed through the data port at $4800 after setting the
// address with a write to $F800.
package n163

import (
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/savestate"
)

// RAMSize is the size of the internal RAM.
const RAMSize = 128

// number of CPU cycles between channel updates
const updatePeriod = 15

// N163 is the sound hardware of the Namco 163. It implements the apu.Channel
// interface.
type N163 struct {
	RAM [RAMSize]uint8

	address   uint8
	increment bool

	// index of the channel that is updated next. channel 7 has its
	// registers at the top of RAM and is always the first channel updated
	channel int

	// the most recent output of each channel. in the range -120 to 105
	outputs [8]int

	cycles int

	// disables sound. the board sets this with bit 6 of the $E000 register
	Disabled bool
}

// NewN163 is the preferred method of initialisation for the N163 type.
func NewN163() *N163 {
	n := &N163{}
	n.Reset()
	return n
}

// Reset the sound hardware. The RAM is not cleared.
func (n *N163) Reset() {
	n.address = 0
	n.increment = false
	n.channel = 7
	n.outputs = [8]int{}
	n.cycles = 0
	n.Disabled = false
}

// WriteAddress handles writes to $F800.
func (n *N163) WriteAddress(data uint8) {
	n.address = data & 0x7f
	n.increment = data&0x80 == 0x80
}

// ReadData handles reads from $4800.
func (n *N163) ReadData() uint8 {
	v := n.RAM[n.address]
	n.step()
	return v
}

// WriteData handles writes to $4800.
func (n *N163) WriteData(data uint8) {
	n.RAM[n.address] = data
	n.step()
}

func (n *N163) step() {
	if n.increment {
		n.address = (n.address + 1) & 0x7f
	}
}

// ActiveChannels returns the number of enabled channels, from 1 to 8.
func (n *N163) ActiveChannels() int {
	return int((n.RAM[0x7f]>>4)&0x07) + 1
}

// Clock implements the apu.Channel interface.
func (n *N163) Clock() {
	n.cycles++
	if n.cycles < updatePeriod {
		return
	}
	n.cycles = 0

	n.update(n.channel)

	n.channel--
	if n.channel < 8-n.ActiveChannels() {
		n.channel = 7
	}
}

// sample returns the 4-bit value at the nibble address. the low nibble of
// each byte comes first.
func (n *N163) sample(addr uint8) int {
	v := n.RAM[(addr>>1)&0x7f]
	if addr&0x01 == 0x01 {
		v >>= 4
	}
	return int(v & 0x0f)
}

func (n *N163) update(ch int) {
	base := 0x40 + ch*8
	regs := n.RAM[base : base+8]

	freq := uint32(regs[0]) | uint32(regs[2])<<8 | uint32(regs[4]&0x03)<<16
	phase := uint32(regs[1]) | uint32(regs[3])<<8 | uint32(regs[5])<<16
	length := 256 - uint32(regs[4]&0xfc)

	phase = (phase + freq) % (length << 16)

	regs[1] = uint8(phase)
	regs[3] = uint8(phase >> 8)
	regs[5] = uint8(phase >> 16)

	addr := uint8((phase >> 16) + uint32(regs[6]))
	volume := int(regs[7] & 0x0f)
	n.outputs[ch] = (n.sample(addr) - 8) * volume
}

// Level returns the average output of the active channels.
func (n *N163) Level() float32 {
	if n.Disabled {
		return 0
	}
	active := n.ActiveChannels()
	var sum int
	for ch := 8 - active; ch < 8; ch++ {
		sum += n.outputs[ch]
	}
	return float32(sum) / float32(active)
}

// a single channel at full volume is a little louder than an APU pulse
// channel
const scale = apu.ChannelScale / 6

// Output implements the apu.Channel interface.
func (n *N163) Output() float32 {
	return n.Level() * scale
}

var tag = savestate.NewTag("N163")

// SaveState writes the sound hardware to the savestate.
func (n *N163) SaveState(w *savestate.Writer) {
	w.Begin(tag)
	w.Data(n.RAM[:])
	w.Uint8(n.address)
	w.Bools(n.increment, n.Disabled)
	w.Uint8(uint8(n.channel))
	for _, o := range n.outputs {
		w.Uint16(uint16(int16(o)))
	}
	w.Uint8(uint8(n.cycles))
	w.End()
}

// LoadState restores the sound hardware from the savestate.
func (n *N163) LoadState(r *savestate.Reader) {
	r.Begin(tag)
	r.Data(n.RAM[:])
	n.address = r.Uint8() & 0x7f
	r.Bools(&n.increment, &n.Disabled)
	n.channel = int(r.Uint8() & 0x07)
	for i := range n.outputs {
		n.outputs[i] = int(int16(r.Uint16()))
	}
	n.cycles = int(r.Uint8()) % updatePeriod
	r.End()
}
