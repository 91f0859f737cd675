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

package cpu

import (
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
)

// SetIRQ implements the bus.CPUBus interface.
func (mc *CPU) SetIRQ(line bus.IRQLine, assert bool) {
	if assert {
		mc.irqLines |= line
	} else {
		mc.irqLines &^= line
	}
}

// IRQ returns the state of the IRQ sources.
func (mc *CPU) IRQ() bus.IRQLine {
	return mc.irqLines
}

// SetNMI implements the bus.CPUBus interface.
func (mc *CPU) SetNMI(level bool) {
	if level && !mc.nmiLine {
		mc.nmiPending = true
	}
	mc.nmiLine = level
}

// TriggerNMI causes an NMI at the next opportunity regardless of the level
// of the NMI line. Used by the NSF player.
func (mc *CPU) TriggerNMI() {
	mc.nmiPending = true
}

// interrupt runs the seven cycle interrupt sequence. the vector is for the
// interrupt that caused the sequence but an NMI that arrives before the
// vector is read takes over the sequence. this happens for IRQ and BRK.
//
// the break flag in the pushed status register is set only for BRK.
func (mc *CPU) interrupt(vector uint16, brk bool) {
	if !brk {
		mc.read(mc.PC.Address())
		mc.read(mc.PC.Address())
	}

	mc.push(uint8(mc.PC.Address() >> 8))
	mc.push(uint8(mc.PC.Address()))

	if vector != NMI && mc.nmiPending {
		mc.nmiPending = false
		vector = NMI
	}

	mc.push(mc.Status.Value(brk))
	mc.Status.InterruptDisable = true

	lo := mc.read(vector)
	hi := mc.read(vector + 1)
	mc.PC.Load(uint16(hi)<<8 | uint16(lo))

	// the interrupt sequence does not poll for interrupts
	mc.prevNMI = false
	mc.prevRunIRQ = false
}

// OAM DMA copies 256 bytes to the PPU's OAMDATA register. The CPU is halted
// for 513 cycles, or 514 if the DMA starts on an odd cycle.
func (mc *CPU) oamDMA() {
	page := uint16(mc.dmaPage) << 8
	mc.dmaPage = -1

	// halt cycle
	mc.cycle()

	// alignment cycle
	if mc.CPUCycle()&1 == 1 {
		mc.cycle()
	}

	for i := uint16(0); i < 256; i++ {
		v := mc.read(page | i)
		mc.write(0x2004, v)
	}
}

// DMCRead implements the bus.CPUBus interface. The CPU is stalled for four
// cycles, the last of which is the read.
func (mc *CPU) DMCRead(address uint16) uint8 {
	mc.cycle()
	mc.cycle()
	mc.cycle()
	return mc.read(address)
}
