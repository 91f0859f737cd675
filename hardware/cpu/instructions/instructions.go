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

// Package instructions defines the instruction set of the 2A03. There is one
// Definition for each of the 256 opcodes, including the undocumented opcodes.
//
// The Cycles field is the number of cycles the instruction takes when no
// page is crossed and no branch is taken. The CPU doesn't use the field to
// time instructions. Cycles are counted as memory is accessed and the field
// is used to verify that the access patterns are correct.
package instructions

import "fmt"

// AddressingMode describes how the instruction finds its operand.
type AddressingMode int

// List of supported addressing modes.
const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	Relative
	Absolute
	ZeroPage
	Indirect

	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y

	AbsoluteIndexedX
	AbsoluteIndexedY
	ZeroPageIndexedX
	ZeroPageIndexedY
)

var modeNames = [...]string{"imp", "acc", "imm", "rel", "abs", "zp", "ind", "izx", "izy", "abx", "aby", "zpx", "zpy"}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Bytes returns the number of bytes in an instruction using the mode,
// including the opcode.
func (m AddressingMode) Bytes() int {
	switch m {
	case Implied, Accumulator:
		return 1
	case Absolute, Indirect, AbsoluteIndexedX, AbsoluteIndexedY:
		return 3
	}
	return 2
}

// Effect categorises an instruction by what it does with its operand.
type Effect int

// List of effects.
const (
	Read Effect = iota
	Write
	RMW
	Flow
	Subroutine
	Interrupt
	None
)

// Operator identifies the operation of the instruction.
type Operator int

// List of operators. The undocumented operators use the commonly accepted
// names.
const (
	ADC Operator = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	AHX
	ALR
	ANC
	ARR
	AXS
	DCP
	ISC
	KIL
	LAS
	LAX
	RLA
	RRA
	SAX
	SHX
	SHY
	SLO
	SRE
	TAS
	XAA
)

// Definition describes one opcode.
type Definition struct {
	OpCode         uint8
	Operator       Operator
	Mnemonic       string
	AddressingMode AddressingMode
	Effect         Effect
	Bytes          int
	Cycles         int

	// an extra cycle is taken if the indexed address crosses a page
	PageSensitive bool

	// opcode is not part of the documented instruction set
	Undocumented bool
}

func (defn Definition) String() string {
	return fmt.Sprintf("%02x %s %s (%d bytes, %d cycles)", defn.OpCode, defn.Mnemonic, defn.AddressingMode, defn.Bytes, defn.Cycles)
}

// IsBranch returns true if the instruction is a conditional branch.
func (defn Definition) IsBranch() bool {
	return defn.AddressingMode == Relative
}
