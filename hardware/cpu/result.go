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
	"strings"

	"github.com/jetsetilly/gopherfc/hardware/cpu/instructions"
)

// Result records the details of the most recently executed instruction.
type Result struct {
	// address of the opcode
	Address uint16

	Defn *instructions.Definition

	// the operand bytes of the instruction
	InstructionData uint16

	// number of CPU cycles used by the instruction. does not include any DMA
	// or interrupt that follows it
	Cycles int

	// the indexed address crossed a page boundary or a branch was taken to
	// another page
	PageFault bool

	// a branch instruction was taken
	BranchSuccess bool
}

func (r Result) String() string {
	if r.Defn == nil {
		return fmt.Sprintf("%04x ???", r.Address)
	}

	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%04x %s", r.Address, r.Defn.Mnemonic))
	switch r.Defn.AddressingMode {
	case instructions.Immediate:
		s.WriteString(fmt.Sprintf(" #$%02x", r.InstructionData))
	case instructions.Relative, instructions.ZeroPage:
		s.WriteString(fmt.Sprintf(" $%02x", r.InstructionData))
	case instructions.ZeroPageIndexedX:
		s.WriteString(fmt.Sprintf(" $%02x,X", r.InstructionData))
	case instructions.ZeroPageIndexedY:
		s.WriteString(fmt.Sprintf(" $%02x,Y", r.InstructionData))
	case instructions.Absolute:
		s.WriteString(fmt.Sprintf(" $%04x", r.InstructionData))
	case instructions.AbsoluteIndexedX:
		s.WriteString(fmt.Sprintf(" $%04x,X", r.InstructionData))
	case instructions.AbsoluteIndexedY:
		s.WriteString(fmt.Sprintf(" $%04x,Y", r.InstructionData))
	case instructions.Indirect:
		s.WriteString(fmt.Sprintf(" ($%04x)", r.InstructionData))
	case instructions.IndexedIndirect:
		s.WriteString(fmt.Sprintf(" ($%02x,X)", r.InstructionData))
	case instructions.IndirectIndexed:
		s.WriteString(fmt.Sprintf(" ($%02x),Y", r.InstructionData))
	case instructions.Accumulator:
		s.WriteString(" A")
	}
	s.WriteString(fmt.Sprintf(" [%d]", r.Cycles))
	return s.String()
}
