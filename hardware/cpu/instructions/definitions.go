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

package instructions

import "strings"

// Definitions for every opcode, indexed by opcode.
var Definitions [256]Definition

// one row for each high nibble of the opcode. each entry is the mnemonic and
// addressing mode separated by a space
var opcodeTable = [16]string{
	"BRK imp,ORA izx,KIL imp,SLO izx,NOP zp,ORA zp,ASL zp,SLO zp,PHP imp,ORA imm,ASL acc,ANC imm,NOP abs,ORA abs,ASL abs,SLO abs",
	"BPL rel,ORA izy,KIL imp,SLO izy,NOP zpx,ORA zpx,ASL zpx,SLO zpx,CLC imp,ORA aby,NOP imp,SLO aby,NOP abx,ORA abx,ASL abx,SLO abx",
	"JSR abs,AND izx,KIL imp,RLA izx,BIT zp,AND zp,ROL zp,RLA zp,PLP imp,AND imm,ROL acc,ANC imm,BIT abs,AND abs,ROL abs,RLA abs",
	"BMI rel,AND izy,KIL imp,RLA izy,NOP zpx,AND zpx,ROL zpx,RLA zpx,SEC imp,AND aby,NOP imp,RLA aby,NOP abx,AND abx,ROL abx,RLA abx",
	"RTI imp,EOR izx,KIL imp,SRE izx,NOP zp,EOR zp,LSR zp,SRE zp,PHA imp,EOR imm,LSR acc,ALR imm,JMP abs,EOR abs,LSR abs,SRE abs",
	"BVC rel,EOR izy,KIL imp,SRE izy,NOP zpx,EOR zpx,LSR zpx,SRE zpx,CLI imp,EOR aby,NOP imp,SRE aby,NOP abx,EOR abx,LSR abx,SRE abx",
	"RTS imp,ADC izx,KIL imp,RRA izx,NOP zp,ADC zp,ROR zp,RRA zp,PLA imp,ADC imm,ROR acc,ARR imm,JMP ind,ADC abs,ROR abs,RRA abs",
	"BVS rel,ADC izy,KIL imp,RRA izy,NOP zpx,ADC zpx,ROR zpx,RRA zpx,SEI imp,ADC aby,NOP imp,RRA aby,NOP abx,ADC abx,ROR abx,RRA abx",
	"NOP imm,STA izx,NOP imm,SAX izx,STY zp,STA zp,STX zp,SAX zp,DEY imp,NOP imm,TXA imp,XAA imm,STY abs,STA abs,STX abs,SAX abs",
	"BCC rel,STA izy,KIL imp,AHX izy,STY zpx,STA zpx,STX zpy,SAX zpy,TYA imp,STA aby,TXS imp,TAS aby,SHY abx,STA abx,SHX aby,AHX aby",
	"LDY imm,LDA izx,LDX imm,LAX izx,LDY zp,LDA zp,LDX zp,LAX zp,TAY imp,LDA imm,TAX imp,LAX imm,LDY abs,LDA abs,LDX abs,LAX abs",
	"BCS rel,LDA izy,KIL imp,LAX izy,LDY zpx,LDA zpx,LDX zpy,LAX zpy,CLV imp,LDA aby,TSX imp,LAS aby,LDY abx,LDA abx,LDX aby,LAX aby",
	"CPY imm,CMP izx,NOP imm,DCP izx,CPY zp,CMP zp,DEC zp,DCP zp,INY imp,CMP imm,DEX imp,AXS imm,CPY abs,CMP abs,DEC abs,DCP abs",
	"BNE rel,CMP izy,KIL imp,DCP izy,NOP zpx,CMP zpx,DEC zpx,DCP zpx,CLD imp,CMP aby,NOP imp,DCP aby,NOP abx,CMP abx,DEC abx,DCP abx",
	"CPX imm,SBC izx,NOP imm,ISC izx,CPX zp,SBC zp,INC zp,ISC zp,INX imp,SBC imm,NOP imp,SBC imm,CPX abs,SBC abs,INC abs,ISC abs",
	"BEQ rel,SBC izy,KIL imp,ISC izy,NOP zpx,SBC zpx,INC zpx,ISC zpx,SED imp,SBC aby,NOP imp,ISC aby,NOP abx,SBC abx,INC abx,ISC abx",
}

// base cycle counts, one row for each high nibble
var cycleTable = [16][16]int{
	{7, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6},
	{2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7},
	{6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6},
	{2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7},
	{6, 6, 2, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6},
	{2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7},
	{6, 6, 2, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6},
	{2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7},
	{2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4},
	{2, 6, 2, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5},
	{2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4},
	{2, 5, 2, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4},
	{2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6},
	{2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7},
	{2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6},
	{2, 5, 2, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7},
}

var operators = map[string]Operator{
	"ADC": ADC, "AND": AND, "ASL": ASL, "BCC": BCC, "BCS": BCS, "BEQ": BEQ, "BIT": BIT, "BMI": BMI,
	"BNE": BNE, "BPL": BPL, "BRK": BRK, "BVC": BVC, "BVS": BVS, "CLC": CLC, "CLD": CLD, "CLI": CLI,
	"CLV": CLV, "CMP": CMP, "CPX": CPX, "CPY": CPY, "DEC": DEC, "DEX": DEX, "DEY": DEY, "EOR": EOR,
	"INC": INC, "INX": INX, "INY": INY, "JMP": JMP, "JSR": JSR, "LDA": LDA, "LDX": LDX, "LDY": LDY,
	"LSR": LSR, "NOP": NOP, "ORA": ORA, "PHA": PHA, "PHP": PHP, "PLA": PLA, "PLP": PLP, "ROL": ROL,
	"ROR": ROR, "RTI": RTI, "RTS": RTS, "SBC": SBC, "SEC": SEC, "SED": SED, "SEI": SEI, "STA": STA,
	"STX": STX, "STY": STY, "TAX": TAX, "TAY": TAY, "TSX": TSX, "TXA": TXA, "TXS": TXS, "TYA": TYA,
	"AHX": AHX, "ALR": ALR, "ANC": ANC, "ARR": ARR, "AXS": AXS, "DCP": DCP, "ISC": ISC, "KIL": KIL,
	"LAS": LAS, "LAX": LAX, "RLA": RLA, "RRA": RRA, "SAX": SAX, "SHX": SHX, "SHY": SHY, "SLO": SLO,
	"SRE": SRE, "TAS": TAS, "XAA": XAA,
}

var modes = map[string]AddressingMode{
	"imp": Implied, "acc": Accumulator, "imm": Immediate, "rel": Relative, "abs": Absolute,
	"zp": ZeroPage, "ind": Indirect, "izx": IndexedIndirect, "izy": IndirectIndexed,
	"abx": AbsoluteIndexedX, "aby": AbsoluteIndexedY, "zpx": ZeroPageIndexedX, "zpy": ZeroPageIndexedY,
}

func effectOf(op Operator, mode AddressingMode) Effect {
	switch op {
	case STA, STX, STY, SAX, AHX, SHX, SHY, TAS:
		return Write
	case ASL, LSR, ROL, ROR, INC, DEC, SLO, RLA, SRE, RRA, DCP, ISC:
		if mode == Accumulator {
			return None
		}
		return RMW
	case BCC, BCS, BEQ, BMI, BNE, BPL, BVC, BVS, JMP:
		return Flow
	case JSR, RTS:
		return Subroutine
	case BRK, RTI:
		return Interrupt
	case NOP:
		if mode == Implied {
			return None
		}
		return Read
	}
	if mode == Implied {
		return None
	}
	return Read
}

func init() {
	// the unofficial opcodes that duplicate official opcodes
	undocumentedDuplicates := map[uint8]bool{0xeb: true}

	for hi, row := range opcodeTable {
		for lo, entry := range strings.Split(row, ",") {
			f := strings.Fields(entry)
			op := operators[f[0]]
			mode := modes[f[1]]
			opcode := uint8(hi<<4 | lo)

			defn := Definition{
				OpCode:         opcode,
				Operator:       op,
				Mnemonic:       f[0],
				AddressingMode: mode,
				Effect:         effectOf(op, mode),
				Bytes:          mode.Bytes(),
				Cycles:         cycleTable[hi][lo],
			}

			defn.PageSensitive = defn.Effect == Read &&
				(mode == AbsoluteIndexedX || mode == AbsoluteIndexedY || mode == IndirectIndexed)

			defn.Undocumented = op >= AHX || undocumentedDuplicates[opcode] ||
				(op == NOP && opcode != 0xea)

			Definitions[opcode] = defn
		}
	}
}
