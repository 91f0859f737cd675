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

package cpu_test

import (
	"testing"

	"github.com/jetsetilly/gopherfc/environment"
	"github.com/jetsetilly/gopherfc/hardware/clocks"
	"github.com/jetsetilly/gopherfc/hardware/cpu"
	"github.com/jetsetilly/gopherfc/hardware/cpu/instructions"
	"github.com/jetsetilly/gopherfc/hardware/memory/bus"
	"github.com/jetsetilly/gopherfc/savestate"
	"github.com/jetsetilly/gopherfc/test"
)

type mockMem struct {
	internal [0x10000]uint8

	// number of writes to $2004
	oamWrites int
}

func (mem *mockMem) putInstructions(origin uint16, bytes ...uint8) uint16 {
	for i, b := range bytes {
		mem.internal[origin+uint16(i)] = b
	}
	return origin + uint16(len(bytes))
}

func (mem *mockMem) read(address uint16) uint8 {
	return mem.internal[address]
}

func (mem *mockMem) write(address uint16, data uint8) {
	if address == 0x2004 {
		mem.oamWrites++
	}
	mem.internal[address] = data
}

// create a CPU with the mock memory everywhere except for the APU registers
// and the OAM DMA register. the reset vector points to $0200
func newTestCPU(t *testing.T) (*cpu.CPU, *mockMem) {
	t.Helper()

	env, err := environment.NewEnvironment(environment.MainEmulation, nil, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	mem := &mockMem{}
	mem.internal[cpu.Reset] = 0x00
	mem.internal[cpu.Reset+1] = 0x02
	mem.internal[cpu.NMI] = 0x00
	mem.internal[cpu.NMI+1] = 0x03
	mem.internal[cpu.IRQ] = 0x00
	mem.internal[cpu.IRQ+1] = 0x04

	mc := cpu.NewCPU(env, clocks.SpecNTSC)
	mc.Reset(true)
	mc.Ports.SetPort(0x0000, 0x3fff, mem.read, mem.write)
	mc.Ports.SetPort(0x4020, 0xffff, mem.read, mem.write)
	mc.ResetSequence()

	test.ExpectEquality(t, mc.PC.Address(), 0x0200)
	test.ExpectEquality(t, mc.SP.Value(), 0xfd)
	test.ExpectSuccess(t, mc.Status.InterruptDisable)

	return mc, mem
}

func step(t *testing.T, mc *cpu.CPU) cpu.Result {
	t.Helper()
	mc.Step()
	return mc.LastResult
}

func TestStatusInstructions(t *testing.T) {
	mc, mem := newTestCPU(t)

	// SEC; CLC; CLI; SEI; SED; CLD
	mem.putInstructions(0x0200, 0x38, 0x18, 0x58, 0x78, 0xf8, 0xd8)
	step(t, mc)
	test.ExpectEquality(t, mc.Status.String(), "nv--dIzC")
	step(t, mc)
	test.ExpectEquality(t, mc.Status.String(), "nv--dIzc")
	step(t, mc)
	test.ExpectEquality(t, mc.Status.String(), "nv--dizc")
	step(t, mc)
	test.ExpectEquality(t, mc.Status.String(), "nv--dIzc")
	step(t, mc)
	test.ExpectEquality(t, mc.Status.String(), "nv--DIzc")
	step(t, mc)
	test.ExpectEquality(t, mc.Status.String(), "nv--dIzc")
}

func TestArithmetic(t *testing.T) {
	mc, mem := newTestCPU(t)

	// LDA #$50; CLC; ADC #$50; SEC; SBC #$f0
	mem.putInstructions(0x0200, 0xa9, 0x50, 0x18, 0x69, 0x50, 0x38, 0xe9, 0xf0)
	step(t, mc)
	step(t, mc)
	step(t, mc)
	test.ExpectEquality(t, mc.A.Value(), 0xa0)
	test.ExpectSuccess(t, mc.Status.Overflow)
	test.ExpectSuccess(t, mc.Status.Sign)
	test.ExpectFailure(t, mc.Status.Carry)
	step(t, mc)
	step(t, mc)
	test.ExpectEquality(t, mc.A.Value(), 0xb0)
	test.ExpectFailure(t, mc.Status.Carry)
	test.ExpectFailure(t, mc.Status.Overflow)

	// decimal mode has no effect on the 2A03
	// SED; CLC; LDA #$09; ADC #$01
	mem.putInstructions(mc.PC.Address(), 0xf8, 0x18, 0xa9, 0x09, 0x69, 0x01)
	step(t, mc)
	step(t, mc)
	step(t, mc)
	step(t, mc)
	test.ExpectEquality(t, mc.A.Value(), 0x0a)
}

func TestCycleCounts(t *testing.T) {
	mc, mem := newTestCPU(t)

	for op := 0; op < 256; op++ {
		defn := instructions.Definitions[op]

		mc.Killed = false
		mc.LoadPC(0x0200)
		mc.X.Load(0)
		mc.Y.Load(0)
		mc.SP.Load(0xfd)

		// the operand is $0210 for absolute addressing and $10 for zero page
		// addressing. the pointer at $10 points to $0300
		mem.putInstructions(0x0200, uint8(op), 0x10, 0x02)
		mem.internal[0x10] = 0x00
		mem.internal[0x11] = 0x03

		r := step(t, mc)

		expected := defn.Cycles
		if r.BranchSuccess {
			expected++
		}
		if r.PageFault && (defn.PageSensitive || defn.IsBranch()) {
			expected++
		}
		test.ExpectEquality(t, r.Cycles, expected, defn.String())
		test.ExpectEquality(t, r.Defn.OpCode, uint8(op))
	}
}

func TestPageFault(t *testing.T) {
	mc, mem := newTestCPU(t)

	// LDX #$20; LDA $02f0,X; STA $02f0,X
	mem.putInstructions(0x0200, 0xa2, 0x20, 0xbd, 0xf0, 0x02, 0x9d, 0xf0, 0x02)
	mem.internal[0x0310] = 0x42

	step(t, mc)
	r := step(t, mc)
	test.ExpectSuccess(t, r.PageFault)
	test.ExpectEquality(t, r.Cycles, 5)
	test.ExpectEquality(t, mc.A.Value(), 0x42)

	// store instructions always take the extra cycle
	r = step(t, mc)
	test.ExpectEquality(t, r.Cycles, 5)

	// LDA $0300,X without a page fault
	mem.putInstructions(mc.PC.Address(), 0xbd, 0x00, 0x03)
	r = step(t, mc)
	test.ExpectFailure(t, r.PageFault)
	test.ExpectEquality(t, r.Cycles, 4)
}

func TestBranching(t *testing.T) {
	mc, mem := newTestCPU(t)

	// CLC; BCC +2; (skipped); BCS +10 (not taken)
	mem.putInstructions(0x0200, 0x18, 0x90, 0x02, 0xea, 0xea, 0xb0, 0x10)
	step(t, mc)
	r := step(t, mc)
	test.ExpectSuccess(t, r.BranchSuccess)
	test.ExpectEquality(t, r.Cycles, 3)
	test.ExpectEquality(t, mc.PC.Address(), 0x0205)

	r = step(t, mc)
	test.ExpectFailure(t, r.BranchSuccess)
	test.ExpectEquality(t, r.Cycles, 2)
	test.ExpectEquality(t, mc.PC.Address(), 0x0207)

	// a branch to the previous page takes an extra cycle
	mc.LoadPC(0x0300)
	mem.putInstructions(0x0300, 0x90, 0xf0)
	r = step(t, mc)
	test.ExpectSuccess(t, r.PageFault)
	test.ExpectEquality(t, r.Cycles, 4)
	test.ExpectEquality(t, mc.PC.Address(), 0x02f2)
}

func TestSubroutines(t *testing.T) {
	mc, mem := newTestCPU(t)

	// JSR $0300; ... RTS at $0300
	mem.putInstructions(0x0200, 0x20, 0x00, 0x03)
	mem.putInstructions(0x0300, 0x60)

	r := step(t, mc)
	test.ExpectEquality(t, r.Cycles, 6)
	test.ExpectEquality(t, mc.PC.Address(), 0x0300)
	test.ExpectEquality(t, mc.SP.Value(), 0xfb)
	test.ExpectEquality(t, mem.internal[0x01fd], 0x02)
	test.ExpectEquality(t, mem.internal[0x01fc], 0x02)

	r = step(t, mc)
	test.ExpectEquality(t, r.Cycles, 6)
	test.ExpectEquality(t, mc.PC.Address(), 0x0203)
	test.ExpectEquality(t, mc.SP.Value(), 0xfd)
}

func TestJMPIndirect(t *testing.T) {
	mc, mem := newTestCPU(t)

	// the high byte of the vector is read from the start of the page
	mem.putInstructions(0x0200, 0x6c, 0xff, 0x02)
	mem.internal[0x02ff] = 0x34
	mem.internal[0x0300] = 0x56
	mem.internal[0x0200] = 0x6c
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x6c34)
}

func TestBRK(t *testing.T) {
	mc, mem := newTestCPU(t)

	// CLI; BRK; (padding)
	mem.putInstructions(0x0200, 0x58, 0x00, 0xff)
	step(t, mc)
	r := step(t, mc)

	test.ExpectEquality(t, r.Cycles, 7)
	test.ExpectEquality(t, mc.PC.Address(), 0x0400)
	test.ExpectSuccess(t, mc.Status.InterruptDisable)

	// the return address skips the padding byte and the break flag is set
	test.ExpectEquality(t, mem.internal[0x01fd], 0x02)
	test.ExpectEquality(t, mem.internal[0x01fc], 0x03)
	test.ExpectEquality(t, mem.internal[0x01fb]&0x30, 0x30)

	// RTI restores the flags
	mem.putInstructions(0x0400, 0x40)
	r = step(t, mc)
	test.ExpectEquality(t, r.Cycles, 6)
	test.ExpectEquality(t, mc.PC.Address(), 0x0203)
	test.ExpectFailure(t, mc.Status.InterruptDisable)
}

func TestNMI(t *testing.T) {
	mc, mem := newTestCPU(t)

	// NOP; NOP
	mem.putInstructions(0x0200, 0xea, 0xea)

	mc.SetNMI(true)
	before := mc.CPUCycle()
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0300)
	test.ExpectEquality(t, mc.CPUCycle()-before, 2+7)

	// the break flag is clear in the pushed status
	test.ExpectEquality(t, mem.internal[0x01fb]&0x30, 0x20)
	test.ExpectEquality(t, mem.internal[0x01fc], 0x01)

	// the NMI is edge triggered. holding the line does not cause another
	// interrupt
	mem.putInstructions(0x0300, 0xea, 0xea)
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0301)

	mc.SetNMI(false)
	mc.SetNMI(true)
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0300)
}

func TestIRQ(t *testing.T) {
	mc, mem := newTestCPU(t)

	// NOP; CLI; NOP; NOP
	mem.putInstructions(0x0200, 0xea, 0x58, 0xea, 0xea)

	mc.SetIRQ(bus.IRQMapper, true)

	// the interrupt disable flag is set after reset
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0201)

	// the IRQ is not taken immediately after CLI
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0202)

	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0400)
	test.ExpectEquality(t, mem.internal[0x01fb]&0x10, 0x00)
	test.ExpectEquality(t, mc.IRQ(), bus.IRQMapper)

	// the IRQ is level triggered but the interrupt disable flag is now set
	mem.putInstructions(0x0400, 0xea)
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0401)

	mc.SetIRQ(bus.IRQMapper, false)
	test.ExpectEquality(t, mc.IRQ(), 0)
}

func TestNMIHijacksIRQ(t *testing.T) {
	mc, mem := newTestCPU(t)

	// CLI; NOP
	mem.putInstructions(0x0200, 0x58, 0xea, 0xea)
	step(t, mc)
	mc.SetIRQ(bus.IRQExternal, true)
	mc.SetNMI(true)
	step(t, mc)
	test.ExpectEquality(t, mc.PC.Address(), 0x0300)
}

func TestJam(t *testing.T) {
	mc, mem := newTestCPU(t)

	mem.putInstructions(0x0200, 0x02, 0xea)
	step(t, mc)
	test.ExpectSuccess(t, mc.Killed)

	// the CPU does not execute any more instructions but time passes
	pc := mc.PC.Address()
	before := mc.CPUCycle()
	for i := 0; i < 10; i++ {
		mc.Step()
	}
	test.ExpectEquality(t, mc.PC.Address(), pc)
	test.ExpectEquality(t, mc.CPUCycle()-before, 10)

	// interrupts are not serviced
	mc.SetNMI(true)
	mc.Step()
	test.ExpectEquality(t, mc.PC.Address(), pc)

	// reset clears the jam
	mc.Reset(false)
	test.ExpectFailure(t, mc.Killed)
}

func TestOAMDMA(t *testing.T) {
	mc, mem := newTestCPU(t)

	// LDA #$03; STA $4014
	mem.putInstructions(0x0200, 0xa9, 0x03, 0x8d, 0x14, 0x40)
	step(t, mc)

	before := mc.CPUCycle()
	step(t, mc)
	cycles := mc.CPUCycle() - before

	test.ExpectEquality(t, mem.oamWrites, 256)
	test.ExpectSuccess(t, cycles == 4+513 || cycles == 4+514)
}

func TestEvents(t *testing.T) {
	mc, mem := newTestCPU(t)

	// JMP $0200
	mem.putInstructions(0x0200, 0x4c, 0x00, 0x02)

	var fired []uint64
	mc.RegisterEvent(bus.EventCartridge0, func() {
		fired = append(fired, mc.CPUCycle())
		mc.EndFrame()
	})

	at := mc.MasterCycle() + 1000*mc.CPUDivider()
	mc.Schedule(bus.EventCartridge0, at)
	_, ok := mc.Scheduled(bus.EventCartridge0)
	test.ExpectSuccess(t, ok)

	done := mc.Execute(mc.MasterCycle() + 5000*mc.CPUDivider())
	test.ExpectSuccess(t, done)
	test.DemandEquality(t, len(fired), 1)
	test.ExpectEquality(t, fired[0], at/mc.CPUDivider())

	_, ok = mc.Scheduled(bus.EventCartridge0)
	test.ExpectFailure(t, ok)

	// cancelled event
	mc.Schedule(bus.EventCartridge0, mc.MasterCycle()+100*mc.CPUDivider())
	mc.Cancel(bus.EventCartridge0)
	limit := mc.MasterCycle() + 500*mc.CPUDivider()
	done = mc.Execute(limit)
	test.ExpectFailure(t, done)
	test.ExpectEquality(t, len(fired), 1)
	test.ExpectSuccess(t, mc.MasterCycle() >= limit)
}

func TestSaveState(t *testing.T) {
	mc, mem := newTestCPU(t)

	// LDA #$12; LDX #$34; LDY #$56; SEC; STA $0010
	mem.putInstructions(0x0200, 0xa9, 0x12, 0xa2, 0x34, 0xa0, 0x56, 0x38, 0x85, 0x10)
	for i := 0; i < 5; i++ {
		step(t, mc)
	}
	mc.Schedule(bus.EventCartridge1, mc.MasterCycle()+12345)

	w := savestate.NewWriter()
	mc.SaveState(w)

	other, _ := newTestCPU(t)
	r, err := savestate.NewReader(w.Bytes())
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, other.LoadState(r))

	test.ExpectEquality(t, other.String(), mc.String())
	test.ExpectEquality(t, other.MasterCycle(), mc.MasterCycle())
	test.ExpectEquality(t, other.RAM, mc.RAM)

	at, ok := other.Scheduled(bus.EventCartridge1)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, at, mc.MasterCycle()+12345)

	// truncated stream
	b := w.Bytes()
	r, err = savestate.NewReader(b[:len(b)/2])
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, other.LoadState(r))
}
