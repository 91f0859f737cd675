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
	"fmt"

	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/apu"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/cpu/registers"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/hardware/memory/portmap"
	"github.com/jetsetilly/gopherfc/logger"
)

// Interrupt vectors.
const (
	NMI   = uint16(0xfffa)
	Reset = uint16(0xfffc)
	IRQ   = uint16(0xfffe)
)

// RAMSize is the size of the internal RAM. It is mirrored up to $1fff.
const RAMSize = 0x800

// CPU implements the 2A03.
type CPU struct {
	env  *environment.Environment
	spec clocks.Spec

	PC     registers.ProgramCounter
	A      registers.Register
	X      registers.Register
	Y      registers.Register
	SP     registers.Register
	Status registers.StatusRegister

	// the master cycle counter. never reset
	Cycles uint64

	// every access to memory goes through the port map
	Ports *portmap.PortMap

	RAM [RAMSize]uint8

	// the APU is part of the 2A03
	APU *apu.APU

	// the last value on the data bus
	openBus uint8

	// interrupt lines and their sampled state
	irqLines   bus.IRQLine
	nmiLine    bool
	nmiPending bool
	runIRQ     bool
	prevRunIRQ bool
	prevNMI    bool

	// scheduled events
	events     [bus.NumEvents]event
	nextEvent  uint64
	inEvents   bool
	frameDone  bool
	cycleHooks []func()
	instrHooks []func()

	// page for OAM DMA. -1 when no DMA is pending
	dmaPage int

	// the CPU has executed a KIL opcode. requires a reset
	Killed bool

	// information about the most recently executed instruction
	LastResult Result
}

// NewCPU is the preferred method of initialisation for the CPU type. The
// APU is created at the same time.
func NewCPU(env *environment.Environment, spec clocks.Spec) *CPU {
	mc := &CPU{
		env:     env,
		spec:    spec,
		A:       registers.NewRegister(0, "A"),
		X:       registers.NewRegister(0, "X"),
		Y:       registers.NewRegister(0, "Y"),
		SP:      registers.NewRegister(0xfd, "SP"),
		dmaPage: -1,
	}

	mc.Ports = portmap.NewPortMap(env, "cpu", 0x10000, portmap.Port{
		Read: func(uint16) uint8 { return mc.openBus },
	})

	mc.nextEvent = ^uint64(0)
	for i := range mc.events {
		mc.events[i].fn = func() {}
	}

	mc.APU = apu.NewAPU(env, spec, mc)

	if env.IsMainEmulation() {
		env.Random.SetClock(mc)
	}

	return mc
}

func (mc *CPU) String() string {
	return fmt.Sprintf("PC=%s %s %s %s %s P=%s", mc.PC, mc.A, mc.X, mc.Y, mc.SP, mc.Status)
}

// Spec returns the timing specification of the CPU.
func (mc *CPU) Spec() clocks.Spec {
	return mc.spec
}

// MasterCycle implements the bus.CPUBus interface.
func (mc *CPU) MasterCycle() uint64 {
	return mc.Cycles
}

// CPUDivider implements the bus.CPUBus interface.
func (mc *CPU) CPUDivider() uint64 {
	return mc.spec.CPUDivider
}

// CPUCycle returns the number of CPU cycles since power-on.
func (mc *CPU) CPUCycle() uint64 {
	return mc.Cycles / mc.spec.CPUDivider
}

// OpenBus returns the last value on the data bus.
func (mc *CPU) OpenBus() uint8 {
	return mc.openBus
}

// Reset the CPU. A hard reset is the same as switching the console on. The
// port map is cleared and the internal RAM installed. The APU is reset.
//
// The reset sequence is run, which means that the reset vector must be
// readable. Devices that handle the vector (the cartridge) must be installed
// before the sequence is run with ResetSequence().
func (mc *CPU) Reset(hard bool) {
	mc.Killed = false
	mc.dmaPage = -1
	mc.irqLines = 0
	mc.nmiLine = false
	mc.nmiPending = false
	mc.runIRQ = false
	mc.prevRunIRQ = false
	mc.prevNMI = false
	mc.cycleHooks = mc.cycleHooks[:0]
	mc.instrHooks = mc.instrHooks[:0]

	if hard {
		mc.A.Load(0)
		mc.X.Load(0)
		mc.Y.Load(0)
		mc.SP.Load(0)
		mc.Status.FromValue(0)
		if mc.env.Prefs.RandomState.Get().(bool) {
			mc.env.Random.Fill(mc.RAM[:])
		} else {
			for i := range mc.RAM {
				mc.RAM[i] = 0xff
			}
		}
		for i := range mc.events {
			mc.events[i].active = false
		}
		mc.nextEvent = ^uint64(0)
	}

	mc.Ports.Clear(portmap.Port{
		Read: func(uint16) uint8 { return mc.openBus },
	})
	mc.Ports.SetPort(0x0000, 0x1fff, mc.readRAM, mc.writeRAM)
	mc.Ports.SetPort(0x4014, 0x4014, nil, func(_ uint16, data uint8) {
		mc.dmaPage = int(data)
	})

	mc.APU.Reset(hard, mc.Ports)
}

// ResetSequence runs the seven cycles of the reset sequence and loads the PC
// from the reset vector. The stack pointer is decremented by three but
// nothing is written to the stack.
func (mc *CPU) ResetSequence() {
	mc.read(mc.PC.Address())
	mc.read(mc.PC.Address())
	for i := 0; i < 3; i++ {
		mc.read(0x0100 | mc.SP.Address())
		mc.SP.Load(mc.SP.Value() - 1)
	}
	mc.Status.InterruptDisable = true
	lo := mc.read(Reset)
	hi := mc.read(Reset + 1)
	mc.PC.Load(uint16(hi)<<8 | uint16(lo))
}

// LoadPC sets the program counter directly.
func (mc *CPU) LoadPC(address uint16) {
	mc.PC.Load(address)
}

func (mc *CPU) readRAM(address uint16) uint8 {
	return mc.RAM[address&(RAMSize-1)]
}

func (mc *CPU) writeRAM(address uint16, data uint8) {
	mc.RAM[address&(RAMSize-1)] = data
}

// Peek reads memory without consuming a cycle. Reads of some registers have
// side effects so Peek() should only be used for RAM and ROM.
func (mc *CPU) Peek(address uint16) uint8 {
	return mc.Ports.Read(address)
}

// cycle advances the clock by one CPU cycle. the state of the interrupt
// lines is sampled at the end of the cycle.
func (mc *CPU) cycle() {
	mc.prevRunIRQ = mc.runIRQ
	mc.prevNMI = mc.nmiPending

	mc.Cycles += mc.spec.CPUDivider

	for _, h := range mc.cycleHooks {
		h()
	}

	if mc.Cycles >= mc.nextEvent && !mc.inEvents {
		mc.runEvents()
	}

	mc.runIRQ = mc.irqLines != 0 && !mc.Status.InterruptDisable
}

// read consumes one cycle.
func (mc *CPU) read(address uint16) uint8 {
	mc.cycle()
	mc.openBus = mc.Ports.Read(address)
	return mc.openBus
}

// write consumes one cycle.
func (mc *CPU) write(address uint16, data uint8) {
	mc.cycle()
	mc.openBus = data
	mc.Ports.Write(address, data)
}

func (mc *CPU) readPC() uint8 {
	return mc.read(mc.PC.Increment())
}

func (mc *CPU) push(data uint8) {
	mc.write(0x0100|mc.SP.Address(), data)
	mc.SP.Load(mc.SP.Value() - 1)
}

func (mc *CPU) pull() uint8 {
	mc.SP.Load(mc.SP.Value() + 1)
	return mc.read(0x0100 | mc.SP.Address())
}

// AddCycleHook adds a function to be called at the end of every CPU cycle.
// Hooks are removed on reset.
func (mc *CPU) AddCycleHook(f func()) {
	mc.cycleHooks = append(mc.cycleHooks, f)
}

// AddInstructionHook adds a function to be called after every instruction.
// Hooks are removed on reset.
func (mc *CPU) AddInstructionHook(f func()) {
	mc.instrHooks = append(mc.instrHooks, f)
}

func (mc *CPU) logJam() {
	logger.Logf(mc.env, "cpu", "jammed by opcode %02x at %04x", mc.LastResult.Defn.OpCode, mc.LastResult.Address)
}
