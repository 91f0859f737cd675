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

// DMC is the delta modulation channel. Sample bytes are read from memory
// with a DMA that stalls the CPU.
type DMC struct {
	rates *[16]uint16

	irqEnabled bool
	irqFlag    bool
	loop       bool

	rate  uint16
	timer uint16

	level uint8

	sampleAddress uint16
	sampleLength  uint16

	// current position in the sample
	address        uint16
	bytesRemaining uint16

	// the sample buffer holds the next byte for the output unit
	buffer      uint8
	bufferEmpty bool

	// the output unit
	shift         uint8
	bitsRemaining uint8
	silence       bool
}

func (ch *DMC) String() string {
	return fmt.Sprintf("rate=%d level=%d addr=%04x remaining=%d", ch.rate, ch.level, ch.address, ch.bytesRemaining)
}

func (ch *DMC) reset() {
	r := ch.rates
	*ch = DMC{
		rates:         r,
		rate:          r[0],
		timer:         r[0] - 1,
		bufferEmpty:   true,
		bitsRemaining: 8,
		silence:       true,
		sampleAddress: 0xc000,
		sampleLength:  1,
	}
}

func (ch *DMC) write(reg uint16, data uint8) {
	switch reg & 0x03 {
	case 0:
		ch.irqEnabled = data&0x80 == 0x80
		ch.loop = data&0x40 == 0x40
		ch.rate = ch.rates[data&0x0f]
		if !ch.irqEnabled {
			ch.irqFlag = false
		}
	case 1:
		ch.level = data & 0x7f
	case 2:
		ch.sampleAddress = 0xc000 | uint16(data)<<6
	case 3:
		ch.sampleLength = uint16(data)<<4 | 0x0001
	}
}

func (ch *DMC) restart() {
	ch.address = ch.sampleAddress
	ch.bytesRemaining = ch.sampleLength
}

// clock is called every CPU cycle.
func (ch *DMC) clock() {
	if ch.timer > 0 {
		ch.timer--
		return
	}
	ch.timer = ch.rate - 1

	if !ch.silence {
		if ch.shift&0x01 == 0x01 {
			if ch.level <= 125 {
				ch.level += 2
			}
		} else if ch.level >= 2 {
			ch.level -= 2
		}
	}
	ch.shift >>= 1

	ch.bitsRemaining--
	if ch.bitsRemaining == 0 {
		ch.bitsRemaining = 8
		if ch.bufferEmpty {
			ch.silence = true
		} else {
			ch.silence = false
			ch.shift = ch.buffer
			ch.bufferEmpty = true
		}
	}
}

// fill the sample buffer with the byte read by the DMA. returns true if the
// IRQ flag has been raised.
func (ch *DMC) fill(data uint8) bool {
	ch.buffer = data
	ch.bufferEmpty = false

	ch.address++
	if ch.address == 0x0000 {
		ch.address = 0x8000
	}

	ch.bytesRemaining--
	if ch.bytesRemaining == 0 {
		if ch.loop {
			ch.restart()
		} else if ch.irqEnabled {
			ch.irqFlag = true
			return true
		}
	}
	return false
}

// needsFetch is true if the sample buffer is empty and there are bytes
// remaining in the sample.
func (ch *DMC) needsFetch() bool {
	return ch.bufferEmpty && ch.bytesRemaining > 0
}

// cyclesToEmpty returns the number of CPU cycles until the output unit takes
// the byte in the sample buffer.
func (ch *DMC) cyclesToEmpty() uint64 {
	return uint64(ch.timer) + 1 + uint64(ch.rate)*uint64(ch.bitsRemaining-1)
}

// Level returns the current output of the channel in the range 0 to 127.
func (ch *DMC) Level() uint8 {
	return ch.level
}

// BytesRemaining returns the number of bytes in the sample still to be read.
func (ch *DMC) BytesRemaining() uint16 {
	return ch.bytesRemaining
}

func (ch *DMC) saveState(w *savestate.Writer) {
	w.Bools(ch.irqEnabled, ch.irqFlag, ch.loop, ch.bufferEmpty, ch.silence)
	w.Uint16(ch.rate)
	w.Uint16(ch.timer)
	w.Uint8(ch.level)
	w.Uint16(ch.sampleAddress)
	w.Uint16(ch.sampleLength)
	w.Uint16(ch.address)
	w.Uint16(ch.bytesRemaining)
	w.Uint8(ch.buffer)
	w.Uint8(ch.shift)
	w.Uint8(ch.bitsRemaining)
}

func (ch *DMC) loadState(r *savestate.Reader) {
	r.Bools(&ch.irqEnabled, &ch.irqFlag, &ch.loop, &ch.bufferEmpty, &ch.silence)
	ch.rate = r.Uint16()
	ch.timer = r.Uint16()
	ch.level = r.Uint8() & 0x7f
	ch.sampleAddress = r.Uint16()
	ch.sampleLength = r.Uint16()
	ch.address = r.Uint16()
	ch.bytesRemaining = r.Uint16()
	ch.buffer = r.Uint8()
	ch.shift = r.Uint8()
	ch.bitsRemaining = r.Uint8()
	if ch.rate == 0 {
		r.Fail(curated.Errorf(savestate.BadValue, "dmc rate", 0))
	}
	if ch.bitsRemaining == 0 || ch.bitsRemaining > 8 {
		r.Fail(curated.Errorf(savestate.BadValue, "dmc bits remaining", ch.bitsRemaining))
	}
}
