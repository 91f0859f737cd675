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

// Package cpu emulates the 2A03, the 6502 derived CPU of the NES. The 2A03
// has no decimal mode and includes the APU, which is emulated by the apu
// package and owned by the CPU.
//
// Every memory access made by the CPU takes one CPU cycle. The number of
// cycles an instruction takes is a consequence of the memory accesses it
// makes, including the dummy reads and writes of the real chip. The cycle
// counter is measured in master clock cycles so that it can be compared
// directly with the PPU.
//
// Memory is accessed through a PortMap. The other parts of the console
// install their handlers in the PortMap when they are reset.
//
// The CPU also keeps the list of scheduled events. An event is a function
// that is called when the cycle counter reaches a specified value. The APU
// frame sequencer, the DMC and the start of VBlank are all driven by events.
//
// Interrupts are polled in the way of the real chip. The state of the
// interrupt lines is sampled at the end of every cycle and the value sampled
// at the end of the penultimate cycle of an instruction decides whether an
// interrupt is taken. This gives the one instruction delay after CLI, SEI and
// PLP.
//
// The undocumented opcodes are emulated, including the KIL opcodes which jam
// the CPU. A jammed CPU consumes cycles but executes nothing until it is
// reset.
package cpu
