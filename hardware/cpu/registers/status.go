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

package registers

import "strings"

// StatusRegister holds the six flags of the CPU. The break flag and the
// unused bit only exist in the value pushed on to the stack and are not
// stored.
type StatusRegister struct {
	Sign             bool
	Overflow         bool
	DecimalMode      bool
	InterruptDisable bool
	Zero             bool
	Carry            bool
}

func (sr StatusRegister) String() string {
	s := strings.Builder{}
	flag := func(f bool, on, off rune) {
		if f {
			s.WriteRune(on)
		} else {
			s.WriteRune(off)
		}
	}
	flag(sr.Sign, 'N', 'n')
	flag(sr.Overflow, 'V', 'v')
	s.WriteString("--")
	flag(sr.DecimalMode, 'D', 'd')
	flag(sr.InterruptDisable, 'I', 'i')
	flag(sr.Zero, 'Z', 'z')
	flag(sr.Carry, 'C', 'c')
	return s.String()
}

// Bit values in the packed status register.
const (
	FlagCarry     = 0x01
	FlagZero      = 0x02
	FlagInterrupt = 0x04
	FlagDecimal   = 0x08
	FlagBreak     = 0x10
	FlagUnused    = 0x20
	FlagOverflow  = 0x40
	FlagSign      = 0x80
)

// Value packs the flags into a byte suitable for pushing on to the stack.
// The break bit is set for BRK and PHP and clear when the push is caused by
// an NMI or an IRQ. The unused bit is always set.
func (sr StatusRegister) Value(brk bool) uint8 {
	v := uint8(FlagUnused)
	if sr.Sign {
		v |= FlagSign
	}
	if sr.Overflow {
		v |= FlagOverflow
	}
	if brk {
		v |= FlagBreak
	}
	if sr.DecimalMode {
		v |= FlagDecimal
	}
	if sr.InterruptDisable {
		v |= FlagInterrupt
	}
	if sr.Zero {
		v |= FlagZero
	}
	if sr.Carry {
		v |= FlagCarry
	}
	return v
}

// FromValue unpacks a byte pulled from the stack. The break and unused bits
// are ignored.
func (sr *StatusRegister) FromValue(v uint8) {
	sr.Sign = v&FlagSign == FlagSign
	sr.Overflow = v&FlagOverflow == FlagOverflow
	sr.DecimalMode = v&FlagDecimal == FlagDecimal
	sr.InterruptDisable = v&FlagInterrupt == FlagInterrupt
	sr.Zero = v&FlagZero == FlagZero
	sr.Carry = v&FlagCarry == FlagCarry
}

// SetZN sets the zero and sign flags for the value.
func (sr *StatusRegister) SetZN(v uint8) {
	sr.Zero = v == 0
	sr.Sign = v&0x80 == 0x80
}
