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

import "fmt"

// Register is an 8 bit register.
type Register struct {
	value uint8
	label string
}

// NewRegister is the preferred method of initialisation for Register.
func NewRegister(val uint8, label string) Register {
	return Register{
		value: val,
		label: label,
	}
}

func (r Register) String() string {
	return fmt.Sprintf("%s=%02x", r.label, r.value)
}

// Label returns the name of the register.
func (r Register) Label() string {
	return r.label
}

// Value returns the current value of the register.
func (r Register) Value() uint8 {
	return r.value
}

// Address returns the value of the register as a zero page address.
func (r Register) Address() uint16 {
	return uint16(r.value)
}

// IsNegative checks the sign bit of the register.
func (r Register) IsNegative() bool {
	return r.value&0x80 == 0x80
}

// IsZero checks if register is zero.
func (r Register) IsZero() bool {
	return r.value == 0
}

// IsBitV returns the state of bit 6.
func (r Register) IsBitV() bool {
	return r.value&0x40 == 0x40
}

// Load value into register.
func (r *Register) Load(val uint8) {
	r.value = val
}

// Add value and carry to register. Returns the new carry and overflow
// states.
func (r *Register) Add(val uint8, carry bool) (rcarry bool, overflow bool) {
	sum := uint16(r.value) + uint16(val)
	if carry {
		sum++
	}
	overflow = (^(r.value ^ val) & (r.value ^ uint8(sum)) & 0x80) != 0
	r.value = uint8(sum)
	return sum > 0xff, overflow
}

// Subtract value and the borrow (the inverse of carry) from the register.
// Returns the new carry and overflow states.
func (r *Register) Subtract(val uint8, carry bool) (rcarry bool, overflow bool) {
	return r.Add(^val, carry)
}

// Compare value with register. Returns the carry, zero and negative flags
// that result. The register is not changed.
func (r Register) Compare(val uint8) (carry, zero, negative bool) {
	d := r.value - val
	return r.value >= val, d == 0, d&0x80 == 0x80
}

// AND value with register.
func (r *Register) AND(val uint8) {
	r.value &= val
}

// EOR value with register.
func (r *Register) EOR(val uint8) {
	r.value ^= val
}

// ORA value with register.
func (r *Register) ORA(val uint8) {
	r.value |= val
}

// ASL shifts the register one bit to the left. Returns the bit shifted out.
func (r *Register) ASL() bool {
	c := r.value&0x80 == 0x80
	r.value <<= 1
	return c
}

// LSR shifts the register one bit to the right. Returns the bit shifted out.
func (r *Register) LSR() bool {
	c := r.value&0x01 == 0x01
	r.value >>= 1
	return c
}

// ROL rotates the register one bit to the left through the carry. Returns
// the new carry.
func (r *Register) ROL(carry bool) bool {
	c := r.value&0x80 == 0x80
	r.value <<= 1
	if carry {
		r.value |= 0x01
	}
	return c
}

// ROR rotates the register one bit to the right through the carry. Returns
// the new carry.
func (r *Register) ROR(carry bool) bool {
	c := r.value&0x01 == 0x01
	r.value >>= 1
	if carry {
		r.value |= 0x80
	}
	return c
}
