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

// ProgramCounter is the 16 bit program counter.
type ProgramCounter struct {
	value uint16
}

// NewProgramCounter is the preferred method of initialisation for
// ProgramCounter.
func NewProgramCounter(val uint16) ProgramCounter {
	return ProgramCounter{value: val}
}

func (pc ProgramCounter) String() string {
	return fmt.Sprintf("%04x", pc.value)
}

// Address returns the current value of the program counter.
func (pc ProgramCounter) Address() uint16 {
	return pc.value
}

// Load a value into the program counter.
func (pc *ProgramCounter) Load(val uint16) {
	pc.value = val
}

// Add a value to the program counter. Returns true if the result is on a
// different page to the original value.
func (pc *ProgramCounter) Add(val uint16) bool {
	v := pc.value
	pc.value += val
	return v&0xff00 != pc.value&0xff00
}

// Increment the program counter by one. Returns the value before the
// increment.
func (pc *ProgramCounter) Increment() uint16 {
	v := pc.value
	pc.value++
	return v
}
