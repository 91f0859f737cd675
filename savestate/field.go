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

package savestate

// Field is a bit-field within a packed integer. Packed fields are used for
// the sub-byte counters of the hardware, so that the layout of the stream
// does not depend on how the Go compiler lays out a struct.
type Field struct {
	Shift uint
	Width uint
}

func (f Field) mask() uint32 {
	return (1 << f.Width) - 1
}

// Get the value of the field from the packed value.
func (f Field) Get(packed uint32) uint32 {
	return (packed >> f.Shift) & f.mask()
}

// Set the field in the packed value. Bits in v that do not fit in the field
// are discarded.
func (f Field) Set(packed uint32, v uint32) uint32 {
	packed &^= f.mask() << f.Shift
	return packed | (v&f.mask())<<f.Shift
}
