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
	"github.com/jetsetilly/gopherfc/hardware/cpu/instructions"
)

// branch is called after the operand of a branch instruction has been read.
func (mc *CPU) branch(flag bool, offset uint8) {
	mc.LastResult.BranchSuccess = flag
	if !flag {
		return
	}

	// phantom read
	mc.read(mc.PC.Address())

	oldPC := mc.PC.Address()
	target := oldPC + uint16(int8(offset))

	// the PC low byte is changed first. a page fault costs an extra cycle
	// during which the wrong page is read
	if oldPC&0xff00 != target&0xff00 {
		mc.LastResult.PageFault = true
		mc.read(oldPC&0xff00 | target&0x00ff)
	}

	mc.PC.Load(target)
}

// indexed adds the index to the base address. for read instructions the
// phantom read at the unfixed address only happens if a page is crossed.
// for write and RMW instructions it always happens.
func (mc *CPU) indexed(base uint16, index uint8, effect instructions.Effect) uint16 {
	address := base + uint16(index)
	mc.LastResult.PageFault = base&0xff00 != address&0xff00
	if mc.LastResult.PageFault || effect != instructions.Read {
		mc.read(base&0xff00 | address&0x00ff)
	}
	return address
}

// operand resolves the address of the instruction's operand. for the
// immediate mode the value is read and returned. for read instructions the
// value at the address is read and returned.
//
// the base address before indexing is also returned. it is needed by the
// unstable store instructions.
func (mc *CPU) operand(defn *instructions.Definition) (address uint16, base uint16, value uint8) {
	switch defn.AddressingMode {
	case instructions.Implied:
		mc.read(mc.PC.Address())
		return 0, 0, 0

	case instructions.Accumulator:
		mc.read(mc.PC.Address())
		return 0, 0, mc.A.Value()

	case instructions.Immediate:
		value = mc.readPC()
		mc.LastResult.InstructionData = uint16(value)
		return 0, 0, value

	case instructions.ZeroPage:
		address = uint16(mc.readPC())
		mc.LastResult.InstructionData = address

	case instructions.ZeroPageIndexedX, instructions.ZeroPageIndexedY:
		base = uint16(mc.readPC())
		mc.LastResult.InstructionData = base
		mc.read(base)
		idx := mc.X.Value()
		if defn.AddressingMode == instructions.ZeroPageIndexedY {
			idx = mc.Y.Value()
		}
		address = uint16(uint8(base) + idx)

	case instructions.Absolute:
		lo := mc.readPC()
		hi := mc.readPC()
		address = uint16(hi)<<8 | uint16(lo)
		mc.LastResult.InstructionData = address

	case instructions.AbsoluteIndexedX, instructions.AbsoluteIndexedY:
		lo := mc.readPC()
		hi := mc.readPC()
		base = uint16(hi)<<8 | uint16(lo)
		mc.LastResult.InstructionData = base
		idx := mc.X.Value()
		if defn.AddressingMode == instructions.AbsoluteIndexedY {
			idx = mc.Y.Value()
		}
		address = mc.indexed(base, idx, defn.Effect)

	case instructions.IndexedIndirect:
		zp := mc.readPC()
		mc.LastResult.InstructionData = uint16(zp)
		mc.read(uint16(zp))
		zp += mc.X.Value()
		lo := mc.read(uint16(zp))
		hi := mc.read(uint16(zp + 1))
		address = uint16(hi)<<8 | uint16(lo)

	case instructions.IndirectIndexed:
		zp := mc.readPC()
		mc.LastResult.InstructionData = uint16(zp)
		lo := mc.read(uint16(zp))
		hi := mc.read(uint16(zp + 1))
		base = uint16(hi)<<8 | uint16(lo)
		address = mc.indexed(base, mc.Y.Value(), defn.Effect)
	}

	if defn.Effect == instructions.Read || defn.Effect == instructions.RMW {
		value = mc.read(address)
	}

	return address, base, value
}

// ExecuteInstruction executes the instruction at the program counter. Every
// cycle of the instruction is accounted for by a memory access.
func (mc *CPU) ExecuteInstruction() {
	start := mc.Cycles

	mc.LastResult = Result{Address: mc.PC.Address()}
	defn := &instructions.Definitions[mc.readPC()]
	mc.LastResult.Defn = defn

	defer func() {
		mc.LastResult.Cycles = int((mc.Cycles - start) / mc.spec.CPUDivider)
	}()

	switch defn.Operator {
	case instructions.BRK:
		mc.readPC()
		mc.interrupt(IRQ, true)
		return

	case instructions.RTI:
		mc.read(mc.PC.Address())
		mc.read(0x0100 | mc.SP.Address())
		mc.Status.FromValue(mc.pull())
		lo := mc.pull()
		hi := mc.pull()
		mc.PC.Load(uint16(hi)<<8 | uint16(lo))
		return

	case instructions.RTS:
		mc.read(mc.PC.Address())
		mc.read(0x0100 | mc.SP.Address())
		lo := mc.pull()
		hi := mc.pull()
		mc.PC.Load(uint16(hi)<<8 | uint16(lo))
		mc.readPC()
		return

	case instructions.JSR:
		lo := mc.readPC()
		mc.read(0x0100 | mc.SP.Address())
		mc.push(uint8(mc.PC.Address() >> 8))
		mc.push(uint8(mc.PC.Address()))
		hi := mc.readPC()
		mc.LastResult.InstructionData = uint16(hi)<<8 | uint16(lo)
		mc.PC.Load(mc.LastResult.InstructionData)
		return

	case instructions.JMP:
		lo := mc.readPC()
		hi := mc.readPC()
		address := uint16(hi)<<8 | uint16(lo)
		mc.LastResult.InstructionData = address
		if defn.AddressingMode == instructions.Indirect {
			// the high byte of the vector is read from the same page as the
			// low byte
			lo = mc.read(address)
			hi = mc.read(address&0xff00 | uint16(uint8(address)+1))
			address = uint16(hi)<<8 | uint16(lo)
		}
		mc.PC.Load(address)
		return

	case instructions.PHA:
		mc.read(mc.PC.Address())
		mc.push(mc.A.Value())
		return

	case instructions.PHP:
		mc.read(mc.PC.Address())
		mc.push(mc.Status.Value(true))
		return

	case instructions.PLA:
		mc.read(mc.PC.Address())
		mc.read(0x0100 | mc.SP.Address())
		mc.A.Load(mc.pull())
		mc.Status.SetZN(mc.A.Value())
		return

	case instructions.PLP:
		mc.read(mc.PC.Address())
		mc.read(0x0100 | mc.SP.Address())
		mc.Status.FromValue(mc.pull())
		return

	case instructions.KIL:
		mc.read(mc.PC.Address())
		mc.Killed = true
		mc.logJam()
		return
	}

	if defn.IsBranch() {
		offset := mc.readPC()
		mc.LastResult.InstructionData = uint16(offset)

		var flag bool
		switch defn.Operator {
		case instructions.BCC:
			flag = !mc.Status.Carry
		case instructions.BCS:
			flag = mc.Status.Carry
		case instructions.BEQ:
			flag = mc.Status.Zero
		case instructions.BNE:
			flag = !mc.Status.Zero
		case instructions.BMI:
			flag = mc.Status.Sign
		case instructions.BPL:
			flag = !mc.Status.Sign
		case instructions.BVC:
			flag = !mc.Status.Overflow
		case instructions.BVS:
			flag = mc.Status.Overflow
		}
		mc.branch(flag, offset)
		return
	}

	address, base, value := mc.operand(defn)

	switch defn.Effect {
	case instructions.RMW:
		// the unmodified value is written back before the modified value
		mc.write(address, value)
		value = mc.modify(defn.Operator, value)
		mc.write(address, value)
		return

	case instructions.Write:
		mc.store(defn, address, base)
		return
	}

	mc.execute(defn.Operator, value)
}

// the operators that modify memory. also used for the accumulator addressing
// mode. the undocumented RMW operators combine the modification with a second
// operation on the accumulator.
func (mc *CPU) modify(op instructions.Operator, value uint8) uint8 {
	r := mc.A
	r.Load(value)

	switch op {
	case instructions.ASL, instructions.SLO:
		mc.Status.Carry = r.ASL()
	case instructions.LSR, instructions.SRE:
		mc.Status.Carry = r.LSR()
	case instructions.ROL, instructions.RLA:
		mc.Status.Carry = r.ROL(mc.Status.Carry)
	case instructions.ROR, instructions.RRA:
		mc.Status.Carry = r.ROR(mc.Status.Carry)
	case instructions.INC, instructions.ISC:
		r.Load(value + 1)
	case instructions.DEC, instructions.DCP:
		r.Load(value - 1)
	}

	value = r.Value()
	mc.Status.SetZN(value)

	switch op {
	case instructions.SLO:
		mc.A.ORA(value)
		mc.Status.SetZN(mc.A.Value())
	case instructions.RLA:
		mc.A.AND(value)
		mc.Status.SetZN(mc.A.Value())
	case instructions.SRE:
		mc.A.EOR(value)
		mc.Status.SetZN(mc.A.Value())
	case instructions.RRA:
		mc.adc(value)
	case instructions.ISC:
		mc.sbc(value)
	case instructions.DCP:
		mc.compare(mc.A, value)
	}

	return value
}

func (mc *CPU) adc(value uint8) {
	mc.Status.Carry, mc.Status.Overflow = mc.A.Add(value, mc.Status.Carry)
	mc.Status.SetZN(mc.A.Value())
}

func (mc *CPU) sbc(value uint8) {
	mc.Status.Carry, mc.Status.Overflow = mc.A.Subtract(value, mc.Status.Carry)
	mc.Status.SetZN(mc.A.Value())
}

func (mc *CPU) compare(r interface {
	Compare(uint8) (bool, bool, bool)
}, value uint8) {
	mc.Status.Carry, mc.Status.Zero, mc.Status.Sign = r.Compare(value)
}

// store instructions. the unstable stores (AHX, SHX, SHY, TAS) AND the value
// with the high byte of the base address plus one. if the indexing crossed a
// page then the high byte of the address is replaced by the stored value.
func (mc *CPU) store(defn *instructions.Definition, address uint16, base uint16) {
	var value uint8

	unstable := func(v uint8) {
		h := uint8(base>>8) + 1
		value = v & h
		if mc.LastResult.PageFault {
			address = uint16(value)<<8 | address&0x00ff
		}
	}

	switch defn.Operator {
	case instructions.STA:
		value = mc.A.Value()
	case instructions.STX:
		value = mc.X.Value()
	case instructions.STY:
		value = mc.Y.Value()
	case instructions.SAX:
		value = mc.A.Value() & mc.X.Value()
	case instructions.AHX:
		unstable(mc.A.Value() & mc.X.Value())
	case instructions.SHX:
		unstable(mc.X.Value())
	case instructions.SHY:
		unstable(mc.Y.Value())
	case instructions.TAS:
		mc.SP.Load(mc.A.Value() & mc.X.Value())
		unstable(mc.SP.Value())
	}

	mc.write(address, value)
}

// execute the operators that do not write to memory.
func (mc *CPU) execute(op instructions.Operator, value uint8) {
	switch op {
	case instructions.NOP:

	case instructions.ADC:
		mc.adc(value)
	case instructions.SBC:
		mc.sbc(value)
	case instructions.AND:
		mc.A.AND(value)
		mc.Status.SetZN(mc.A.Value())
	case instructions.ORA:
		mc.A.ORA(value)
		mc.Status.SetZN(mc.A.Value())
	case instructions.EOR:
		mc.A.EOR(value)
		mc.Status.SetZN(mc.A.Value())
	case instructions.CMP:
		mc.compare(mc.A, value)
	case instructions.CPX:
		mc.compare(mc.X, value)
	case instructions.CPY:
		mc.compare(mc.Y, value)
	case instructions.BIT:
		mc.Status.Zero = mc.A.Value()&value == 0
		mc.Status.Sign = value&0x80 == 0x80
		mc.Status.Overflow = value&0x40 == 0x40
	case instructions.LDA:
		mc.A.Load(value)
		mc.Status.SetZN(value)
	case instructions.LDX:
		mc.X.Load(value)
		mc.Status.SetZN(value)
	case instructions.LDY:
		mc.Y.Load(value)
		mc.Status.SetZN(value)

	// accumulator mode of the RMW operators
	case instructions.ASL, instructions.LSR, instructions.ROL, instructions.ROR:
		mc.A.Load(mc.modify(op, value))

	case instructions.CLC:
		mc.Status.Carry = false
	case instructions.CLD:
		mc.Status.DecimalMode = false
	case instructions.CLI:
		mc.Status.InterruptDisable = false
	case instructions.CLV:
		mc.Status.Overflow = false
	case instructions.SEC:
		mc.Status.Carry = true
	case instructions.SED:
		mc.Status.DecimalMode = true
	case instructions.SEI:
		mc.Status.InterruptDisable = true

	case instructions.DEX:
		mc.X.Load(mc.X.Value() - 1)
		mc.Status.SetZN(mc.X.Value())
	case instructions.DEY:
		mc.Y.Load(mc.Y.Value() - 1)
		mc.Status.SetZN(mc.Y.Value())
	case instructions.INX:
		mc.X.Load(mc.X.Value() + 1)
		mc.Status.SetZN(mc.X.Value())
	case instructions.INY:
		mc.Y.Load(mc.Y.Value() + 1)
		mc.Status.SetZN(mc.Y.Value())

	case instructions.TAX:
		mc.X.Load(mc.A.Value())
		mc.Status.SetZN(mc.X.Value())
	case instructions.TAY:
		mc.Y.Load(mc.A.Value())
		mc.Status.SetZN(mc.Y.Value())
	case instructions.TXA:
		mc.A.Load(mc.X.Value())
		mc.Status.SetZN(mc.A.Value())
	case instructions.TYA:
		mc.A.Load(mc.Y.Value())
		mc.Status.SetZN(mc.A.Value())
	case instructions.TSX:
		mc.X.Load(mc.SP.Value())
		mc.Status.SetZN(mc.X.Value())
	case instructions.TXS:
		mc.SP.Load(mc.X.Value())

	case instructions.LAX:
		mc.A.Load(value)
		mc.X.Load(value)
		mc.Status.SetZN(value)
	case instructions.LAS:
		v := value & mc.SP.Value()
		mc.A.Load(v)
		mc.X.Load(v)
		mc.SP.Load(v)
		mc.Status.SetZN(v)
	case instructions.ANC:
		mc.A.AND(value)
		mc.Status.SetZN(mc.A.Value())
		mc.Status.Carry = mc.Status.Sign
	case instructions.ALR:
		mc.A.AND(value)
		mc.Status.Carry = mc.A.LSR()
		mc.Status.SetZN(mc.A.Value())
	case instructions.ARR:
		mc.A.AND(value)
		mc.A.ROR(mc.Status.Carry)
		mc.Status.SetZN(mc.A.Value())
		mc.Status.Carry = mc.A.IsBitV()
		mc.Status.Overflow = mc.A.IsBitV() != (mc.A.Value()&0x20 == 0x20)
	case instructions.XAA:
		mc.A.Load((mc.A.Value() | 0xee) & mc.X.Value() & value)
		mc.Status.SetZN(mc.A.Value())
	case instructions.AXS:
		ax := mc.A.Value() & mc.X.Value()
		mc.X.Load(ax - value)
		mc.Status.Carry = ax >= value
		mc.Status.SetZN(mc.X.Value())
	}
}
