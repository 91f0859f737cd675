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
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
)

// the write to $4017 takes effect three or four CPU cycles later, depending
// on whether the write happens on an odd or even cycle.
func (apu *APU) writeFrameCounter(_ uint16, data uint8) {
	apu.Update()

	apu.last4017 = data
	apu.pendingFiveStep = data&0x80 == 0x80
	apu.irqInhibit = data&0x40 == 0x40
	if apu.irqInhibit {
		apu.frameIRQ = false
		apu.cpu.SetIRQ(bus.IRQFrame, false)
	}

	delay := uint64(3)
	if apu.cycle&0x01 == 0x01 {
		delay = 4
	}

	apu.seqStep = -1
	apu.cpu.Schedule(bus.EventFrameSequencer, (apu.cycle+delay)*apu.cpu.CPUDivider())
}

func (apu *APU) sequenceLength() uint64 {
	if apu.fiveStep {
		return apu.spec.FiveStep[4] + 1
	}
	return apu.spec.FourStep[3] + 1
}

func (apu *APU) scheduleSequencer() {
	var at uint64
	if apu.fiveStep {
		at = apu.spec.FiveStep[apu.seqStep]
	} else {
		at = apu.spec.FourStep[apu.seqStep]
	}
	apu.cpu.Schedule(bus.EventFrameSequencer, (apu.seqStart+at)*apu.cpu.CPUDivider())
}

// sequencer is called by the CPU for every step of the frame sequencer.
func (apu *APU) sequencer() {
	apu.Update()

	if apu.seqStep < 0 {
		apu.fiveStep = apu.pendingFiveStep
		apu.seqStart = apu.cycle
		apu.seqStep = 0
		if apu.fiveStep {
			apu.quarterFrame()
			apu.halfFrame()
		}
		apu.scheduleSequencer()
		return
	}

	switch apu.seqStep {
	case 0, 2:
		apu.quarterFrame()
	case 1:
		apu.quarterFrame()
		apu.halfFrame()
	case 3:
		if !apu.fiveStep {
			apu.quarterFrame()
			apu.halfFrame()
			if !apu.irqInhibit {
				apu.frameIRQ = true
				apu.cpu.SetIRQ(bus.IRQFrame, true)
			}
		}
	case 4:
		apu.quarterFrame()
		apu.halfFrame()
	}

	apu.seqStep++
	if (apu.fiveStep && apu.seqStep == 5) || (!apu.fiveStep && apu.seqStep == 4) {
		apu.seqStart += apu.sequenceLength()
		apu.seqStep = 0
	}
	apu.scheduleSequencer()
}

func (apu *APU) quarterFrame() {
	apu.quarterFrames++
	apu.Pulse1.env.clock()
	apu.Pulse2.env.clock()
	apu.Noise.env.clock()
	apu.Triangle.clockLinear()
}

func (apu *APU) halfFrame() {
	apu.halfFrames++
	apu.Pulse1.length.clock()
	apu.Pulse2.length.clock()
	apu.Triangle.length.clock()
	apu.Noise.length.clock()
	apu.Pulse1.clockSweep()
	apu.Pulse2.clockSweep()
}

// FrameIRQ returns true if the frame sequencer IRQ flag is set.
func (apu *APU) FrameIRQ() bool {
	return apu.frameIRQ
}
